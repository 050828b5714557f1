// Package compile turns source text into compiled units.
//
// A Unit is opaque to everything except the execution engine: the loader
// and the interactive session only pass units through and inspect the
// typed errors Compile returns (see internal/pyerr).
package compile

// Mode selects how a source is compiled.
type Mode int

const (
	// Exec compiles a whole module or script body.
	Exec Mode = iota
	// Single compiles one interactive statement; execution reports the
	// last expression statement's value.
	Single
)

func (m Mode) String() string {
	if m == Single {
		return "single"
	}
	return "exec"
}

// Unit is the compiled form of a source text.
type Unit struct {
	Label string
	Mode  Mode
	Stmts []Stmt
}

// Service is the compiler boundary consumed by the loader and the
// interactive session.
type Service interface {
	Compile(source string, mode Mode, label string) (*Unit, error)
}

// Compiler is the default Service implementation.
type Compiler struct{}

func NewCompiler() *Compiler { return &Compiler{} }

func (c *Compiler) Compile(source string, mode Mode, label string) (*Unit, error) {
	return Compile(source, mode, label)
}

// Compile parses source into a Unit. Failures are *pyerr.SyntaxError; the
// IncompleteInput kind marks input that ended inside a suite header or an
// open bracket and could still be completed by further lines.
func Compile(source string, mode Mode, label string) (*Unit, error) {
	lx := newLexer(source, label)
	toks, err := lx.tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, label: label, lx: lx}
	stmts, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return &Unit{Label: label, Mode: mode, Stmts: stmts}, nil
}
