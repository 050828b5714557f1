package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/repl"
	"github.com/pylite-lang/pylite/internal/runtime"
)

// newSession builds a bootstrapped session with captured output streams.
func newSession(t *testing.T) (*repl.Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	rt := runtime.New(runtime.WithStdout(&out), runtime.WithArgv(nil))
	rt.Stderr = &errOut
	if err := rt.InitImportlib(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return repl.NewSession(rt), &out, &errOut
}

// feed pushes lines through the state machine in order.
func feed(s *repl.Session, lines ...string) {
	for _, line := range lines {
		s.HandleLine(line)
	}
}

// lastBinding reads `_` from the session scope.
func lastBinding(t *testing.T, s *repl.Session) object.Object {
	t.Helper()
	val, ok := s.Scope().Get("_")
	if !ok {
		t.Fatal("_ not bound")
	}
	return val
}

// ---------------------------------------------------------------------------
// Single-line statements
// ---------------------------------------------------------------------------

func TestExpressionEchoAndUnderscore(t *testing.T) {
	s, out, _ := newSession(t)
	feed(s, "1 + 1")

	if s.Continuing() {
		t.Fatal("session left idle state for a complete statement")
	}
	if out.String() != "2\n" {
		t.Errorf("output = %q", out.String())
	}
	val := lastBinding(t, s)
	if val.(*object.Integer).Value != 2 {
		t.Errorf("_ = %s", val.Inspect())
	}
}

func TestNoneResultNotEchoedNotBound(t *testing.T) {
	s, out, _ := newSession(t)
	feed(s, "x = 5")

	if out.Len() != 0 {
		t.Errorf("assignment echoed output: %q", out.String())
	}
	if _, ok := s.Scope().Get("_"); ok {
		t.Error("_ bound after a None-valued statement")
	}
}

func TestUnderscoreIsIdentity(t *testing.T) {
	s, _, _ := newSession(t)
	feed(s, "xs = [1, 2]", "xs")

	val := lastBinding(t, s)
	stored, _ := s.Scope().Get("xs")
	if val != stored {
		t.Error("_ is not the same object as the echoed value")
	}
}

func TestStateSurvivesAcrossStatements(t *testing.T) {
	s, out, _ := newSession(t)
	feed(s, "total = 10", "total + 5")

	if !strings.Contains(out.String(), "15") {
		t.Errorf("output = %q", out.String())
	}
}

// ---------------------------------------------------------------------------
// Continuation
// ---------------------------------------------------------------------------

func TestBlockContinuation(t *testing.T) {
	s, out, _ := newSession(t)

	s.HandleLine("if True:")
	if !s.Continuing() {
		t.Fatal("suite header did not switch to continuing")
	}
	if out.Len() != 0 {
		t.Errorf("continuation produced output: %q", out.String())
	}

	s.HandleLine("    answer = 42")
	if !s.Continuing() {
		t.Fatal("body line ended continuation early")
	}

	s.HandleLine("")
	if s.Continuing() {
		t.Fatal("empty line did not complete the block")
	}
	val, ok := s.Scope().Get("answer")
	if !ok {
		t.Fatal("block body did not execute")
	}
	if val.(*object.Integer).Value != 42 {
		t.Errorf("answer = %s", val.Inspect())
	}
}

func TestBlockDoesNotBindUnderscore(t *testing.T) {
	s, _, _ := newSession(t)
	feed(s, "7", "if True:", "    x = 1", "")

	val := lastBinding(t, s)
	if val.(*object.Integer).Value != 7 {
		t.Errorf("_ = %s, want the earlier expression value", val.Inspect())
	}
}

func TestOpenBracketContinuation(t *testing.T) {
	s, out, _ := newSession(t)

	s.HandleLine("xs = [1,")
	if !s.Continuing() {
		t.Fatal("open bracket did not switch to continuing")
	}
	s.HandleLine("2]")
	s.HandleLine("")
	if s.Continuing() {
		t.Fatal("closed bracket did not complete")
	}
	if _, ok := s.Scope().Get("xs"); !ok {
		t.Fatal("bracketed statement did not execute")
	}
	_ = out
}

func TestDefAcrossLines(t *testing.T) {
	s, out, _ := newSession(t)
	feed(s, "def double(n):", "    return n * 2", "", "double(21)")

	if !strings.Contains(out.String(), "42") {
		t.Errorf("output = %q", out.String())
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestSyntaxErrorReportedAndReset(t *testing.T) {
	s, _, errOut := newSession(t)
	feed(s, "x = = 1")

	if s.Continuing() {
		t.Fatal("syntax error left the session continuing")
	}
	if !strings.Contains(errOut.String(), "SyntaxError") {
		t.Errorf("stderr = %q", errOut.String())
	}

	// The session keeps working afterwards.
	errOut.Reset()
	feed(s, "y = 1")
	if errOut.Len() != 0 {
		t.Errorf("stderr after recovery = %q", errOut.String())
	}
}

func TestRuntimeErrorReported(t *testing.T) {
	s, _, errOut := newSession(t)
	feed(s, "missing_name")

	if !strings.Contains(errOut.String(), "NameError") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if _, ok := s.Scope().Get("_"); ok {
		t.Error("_ bound after a failed statement")
	}
}

// ---------------------------------------------------------------------------
// Interrupt
// ---------------------------------------------------------------------------

func TestInterruptResetsContinuation(t *testing.T) {
	s, out, _ := newSession(t)

	s.HandleLine("if True:")
	if !s.Continuing() {
		t.Fatal("not continuing")
	}
	s.Interrupt()
	if s.Continuing() {
		t.Fatal("interrupt did not reset the state machine")
	}
	if !strings.Contains(out.String(), "KeyboardInterrupt") {
		t.Errorf("output = %q", out.String())
	}

	// The discarded partial block must not execute later.
	feed(s, "x = 1")
	if _, ok := s.Scope().Get("answer"); ok {
		t.Error("discarded buffer leaked into later execution")
	}
}

func TestInterruptKeepsScope(t *testing.T) {
	s, _, _ := newSession(t)
	feed(s, "keep = 99")
	s.Interrupt()

	val, ok := s.Scope().Get("keep")
	if !ok {
		t.Fatal("interrupt cleared the persistent scope")
	}
	if val.(*object.Integer).Value != 99 {
		t.Errorf("keep = %s", val.Inspect())
	}
}
