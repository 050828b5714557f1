// Package pyerr defines the error taxonomy shared by the module loader,
// the compiler and the execution engine.
//
// Four kinds cross package boundaries:
//
//	ModuleNotFoundError — resolution exhausted every module source
//	ImportError         — a source was found but could not be loaded
//	SyntaxError         — compilation failed (with an incomplete-input
//	                      sub-kind used only for REPL continuation)
//	RuntimeError        — raised while executing a compiled unit
package pyerr

import (
	"errors"
	"fmt"
)

// ModuleNotFoundError reports that a module name matched no frozen entry,
// no builtin factory and no file on the search path. Name is the exact
// dotted name that was requested.
type ModuleNotFoundError struct {
	Name string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("No module named '%s'", e.Name)
}

// ImportError reports a generic load failure: unreadable source, a builtin
// factory that failed, or a malformed registration.
type ImportError struct {
	Msg string
	Err error // underlying cause, if any
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ImportError: %s: %s", e.Msg, e.Err)
	}
	return "ImportError: " + e.Msg
}

func (e *ImportError) Unwrap() error { return e.Err }

// SyntaxKind distinguishes the compile-failure sub-kinds. Incomplete is
// never surfaced to the user; the interactive loop consumes it as the
// continuation signal.
type SyntaxKind int

const (
	IncompleteInput SyntaxKind = iota
	ParseFailure
	CompileFailure
)

// SyntaxError is a compile or parse failure, labeled with the source it
// came from ("<stdin>", a file path, or a frozen label).
type SyntaxError struct {
	Kind  SyntaxKind
	Msg   string
	Label string
	Line  int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("SyntaxError: %s (%s, line %d)", e.Msg, e.Label, e.Line)
	}
	return fmt.Sprintf("SyntaxError: %s (%s)", e.Msg, e.Label)
}

// RuntimeError is an exception raised while executing a compiled unit.
// Type carries the conventional exception class name (NameError,
// TypeError, ZeroDivisionError, ...).
type RuntimeError struct {
	Type string
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Msg)
}

// Raise builds a RuntimeError with a formatted message.
func Raise(typ, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Type: typ, Msg: fmt.Sprintf(format, args...)}
}

// IsIncomplete reports whether err is the incomplete-input compile failure.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Kind == IncompleteInput
}
