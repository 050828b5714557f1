// Package repl implements the interactive session: a two-state machine
// (idle / continuing) that accumulates input lines, compiles them in
// Single mode, and executes complete statements against one persistent
// scope.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pylite-lang/pylite/internal/compile"
	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/runtime"
	"github.com/pylite-lang/pylite/internal/scope"
)

// Session holds the interactive loop's state: the accumulated input
// buffer, the continuation flag and the persistent scope every statement
// executes in.
type Session struct {
	rt         *runtime.Runtime
	scope      *scope.Scope
	buffer     string
	continuing bool
	out        io.Writer
	errOut     io.Writer
}

func NewSession(rt *runtime.Runtime) *Session {
	return &Session{
		rt:     rt,
		scope:  rt.NewScopeWithBuiltins(),
		out:    rt.Stdout,
		errOut: rt.Stderr,
	}
}

// Continuing reports whether the session is waiting for more lines of a
// multi-line statement.
func (s *Session) Continuing() bool {
	return s.continuing
}

// Scope returns the session's persistent namespace.
func (s *Session) Scope() *scope.Scope {
	return s.scope
}

// HandleLine feeds one input line through the state machine.
//
// Idle: append and compile; the incomplete-input compile failure switches
// to continuing without reporting anything, everything else executes (or
// reports) and clears the buffer.
//
// Continuing: an empty line is the completeness signal — fall back to
// idle and compile the whole buffer; any other line is appended without a
// compile attempt.
func (s *Session) HandleLine(line string) {
	s.buffer += line + "\n"

	if s.continuing {
		if line != "" {
			return
		}
		s.continuing = false
	}

	if err := s.execBuffer(); pyerr.IsIncomplete(err) {
		s.continuing = true
		return
	}
	s.buffer = ""
}

// Interrupt discards any partial input and resets to the idle state. It
// only resets local session state: no interruption exception is
// constructed or delivered to program code.
func (s *Session) Interrupt() {
	s.buffer = ""
	s.continuing = false
	fmt.Fprintln(s.out, "KeyboardInterrupt")
}

// execBuffer compiles the accumulated buffer in Single mode and runs it.
// Only the incomplete-input failure is returned; every other outcome is
// handled here (reported, `_` bound) and yields nil.
func (s *Session) execBuffer() error {
	unit, err := s.rt.Compiler.Compile(s.buffer, compile.Single, "<stdin>")
	if err != nil {
		if pyerr.IsIncomplete(err) {
			return err
		}
		fmt.Fprintln(s.errOut, err.Error())
		return nil
	}

	value, err := s.rt.Engine.Execute(unit, s.scope)
	if err != nil {
		fmt.Fprintln(s.errOut, err.Error())
		return nil
	}
	if value != object.None {
		fmt.Fprintln(s.out, value.Inspect())
		s.scope.Set("_", value)
	}
	return nil
}

// Run drives the session from a readline editor until end of input.
// History is loaded from the platform cache path at start and persisted
// per entered line.
func (s *Session) Run() error {
	fmt.Fprintf(s.out, "pylite %s interactive shell\n", config.Version)

	histPath := historyPath()
	if histPath != "" {
		if _, err := os.Stat(histPath); err != nil {
			fmt.Fprintln(s.out, "No previous history.")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 s.rt.Prompt("ps1"),
		HistoryFile:            histPath,
		InterruptPrompt:        "^C",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if s.continuing {
			rl.SetPrompt(s.rt.Prompt("ps2"))
		} else {
			rl.SetPrompt(s.rt.Prompt("ps1"))
		}

		line, err := rl.Readline()
		switch err {
		case nil:
			if trimmed := strings.TrimRight(line, " \t"); trimmed != "" {
				// A failed write is reported but never stops the loop.
				if err := rl.SaveHistory(trimmed); err != nil {
					fmt.Fprintln(s.errOut, "could not save history:", err)
				}
			}
			s.HandleLine(line)
		case readline.ErrInterrupt:
			s.Interrupt()
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}

// historyPath places the history file under the user cache directory,
// creating the directory if needed. An empty return disables history.
func historyPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(cacheDir, config.HistoryDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, config.HistoryFileName)
}
