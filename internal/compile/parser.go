package compile

import (
	"fmt"
	"strconv"

	"github.com/pylite-lang/pylite/internal/pyerr"
)

type parser struct {
	toks  []token
	pos   int
	label string
	lx    *lexer
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(line int, format string, args ...interface{}) *pyerr.SyntaxError {
	return &pyerr.SyntaxError{
		Kind:  pyerr.ParseFailure,
		Msg:   fmt.Sprintf(format, args...),
		Label: p.label,
		Line:  line,
	}
}

// incomplete marks the point where more input could turn the buffer into a
// valid program: end of input inside a suite header or an open bracket.
func (p *parser) incomplete(line int) *pyerr.SyntaxError {
	return &pyerr.SyntaxError{
		Kind:  pyerr.IncompleteInput,
		Msg:   "unexpected end of input",
		Label: p.label,
		Line:  line,
	}
}

// unexpectedEOF decides between a plain parse error and the incomplete
// kind: input that ended inside an open bracket can still be finished.
func (p *parser) unexpectedEOF(line int) *pyerr.SyntaxError {
	if p.lx.openAtEOF {
		return p.incomplete(line)
	}
	return p.errorf(line, "unexpected end of input")
}

func (p *parser) parseProgram() ([]Stmt, error) {
	var stmts []Stmt
	for {
		for p.cur().Type == tokNewline {
			p.advance()
		}
		if p.cur().Type == tokEOF {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStatement() (Stmt, error) {
	tok := p.cur()
	if tok.Type == tokKeyword {
		switch tok.Lit {
		case "import":
			return p.parseImport()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "def":
			return p.parseDef()
		case "return":
			return p.parseReturn()
		case "pass":
			p.advance()
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			return &PassStmt{Line: tok.Line}, nil
		}
	}
	return p.parseSimple()
}

// endStatement consumes the trailing NEWLINE of a simple statement.
// DEDENT and EOF also terminate a statement (end of suite / input).
func (p *parser) endStatement() error {
	switch p.cur().Type {
	case tokNewline:
		p.advance()
		return nil
	case tokDedent, tokEOF:
		return nil
	}
	tok := p.cur()
	return p.errorf(tok.Line, "invalid syntax near %q", tok.Lit)
}

func (p *parser) parseImport() (Stmt, error) {
	start := p.advance() // import
	if p.cur().Type != tokName {
		return nil, p.errorf(start.Line, "expected module name after import")
	}
	name := p.advance().Lit
	for p.cur().isOp(".") {
		p.advance()
		if p.cur().Type != tokName {
			return nil, p.errorf(start.Line, "expected name after '.' in import")
		}
		name += "." + p.advance().Lit
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return &ImportStmt{Line: start.Line, Name: name}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	start := p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Line: start.Line, Cond: cond, Body: body}
	if p.cur().isKeyword("else") {
		p.advance()
		stmt.Else, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	start := p.advance() // while
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Line: start.Line, Cond: cond, Body: body}, nil
}

func (p *parser) parseDef() (Stmt, error) {
	start := p.advance() // def
	if p.cur().Type != tokName {
		return nil, p.errorf(start.Line, "expected function name after def")
	}
	name := p.advance().Lit
	if !p.cur().isOp("(") {
		return nil, p.errorf(start.Line, "expected '(' after function name")
	}
	p.advance()
	var params []string
	for !p.cur().isOp(")") {
		if p.cur().Type == tokEOF {
			return nil, p.unexpectedEOF(start.Line)
		}
		if p.cur().Type != tokName {
			return nil, p.errorf(p.cur().Line, "expected parameter name")
		}
		params = append(params, p.advance().Lit)
		if p.cur().isOp(",") {
			p.advance()
		} else if !p.cur().isOp(")") {
			return nil, p.errorf(p.cur().Line, "expected ',' or ')' in parameter list")
		}
	}
	p.advance() // )
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &DefStmt{Line: start.Line, Name: name, Params: params, Body: body}, nil
}

func (p *parser) parseReturn() (Stmt, error) {
	start := p.advance() // return
	stmt := &ReturnStmt{Line: start.Line}
	switch p.cur().Type {
	case tokNewline, tokDedent, tokEOF:
	default:
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSuite parses `: NEWLINE INDENT stmt+ DEDENT`. Reaching end of input
// where the indented block should start is the continuation signal.
func (p *parser) parseSuite() ([]Stmt, error) {
	tok := p.cur()
	if !tok.isOp(":") {
		if tok.Type == tokEOF {
			return nil, p.unexpectedEOF(tok.Line)
		}
		return nil, p.errorf(tok.Line, "expected ':'")
	}
	p.advance()
	if p.cur().Type != tokNewline {
		if p.cur().Type == tokEOF {
			return nil, p.incomplete(p.cur().Line)
		}
		return nil, p.errorf(p.cur().Line, "expected newline after ':'")
	}
	p.advance()
	for p.cur().Type == tokNewline {
		p.advance()
	}
	if p.cur().Type == tokEOF {
		return nil, p.incomplete(p.cur().Line)
	}
	if p.cur().Type != tokIndent {
		return nil, p.errorf(p.cur().Line, "expected an indented block")
	}
	p.advance()

	var stmts []Stmt
	for {
		for p.cur().Type == tokNewline {
			p.advance()
		}
		switch p.cur().Type {
		case tokDedent:
			p.advance()
			return stmts, nil
		case tokEOF:
			// emitEOF closes open blocks, so this only happens when the
			// dedents were consumed by a nested suite.
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseSimple() (Stmt, error) {
	start := p.cur()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().isOp("=") {
		p.advance()
		switch expr.(type) {
		case *NameExpr, *AttrExpr:
		default:
			return nil, p.errorf(start.Line, "cannot assign to this expression")
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		return &AssignStmt{Line: start.Line, Target: expr, Value: value}, nil
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return &ExprStmt{Line: start.Line, E: expr}, nil
}

// Expression grammar, loosest binding first:
//
//	comparison:  sum (== != < > <= >=) sum
//	sum:         term (+ -) term
//	term:        unary (* / %) unary
//	unary:       - unary | postfix
//	postfix:     primary (call | attribute)*
func (p *parser) parseExpr() (Expr, error) {
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		if tok.Type != tokOp {
			return left, nil
		}
		switch tok.Lit {
		case "==", "!=", "<", ">", "<=", ">=":
			p.advance()
			right, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpr{Line: tok.Line, Op: tok.Lit, L: left, R: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().isOp("+") || p.cur().isOp("-") {
		tok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Line: tok.Line, Op: tok.Lit, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().isOp("*") || p.cur().isOp("/") || p.cur().isOp("%") {
		tok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Line: tok.Line, Op: tok.Lit, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur().isOp("-") {
		tok := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Line: tok.Line, Op: "-", X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		switch {
		case tok.isOp("("):
			p.advance()
			var args []Expr
			for !p.cur().isOp(")") {
				if p.cur().Type == tokEOF {
					return nil, p.unexpectedEOF(tok.Line)
				}
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().isOp(",") {
					p.advance()
				} else if !p.cur().isOp(")") {
					return nil, p.errorf(p.cur().Line, "expected ',' or ')' in call")
				}
			}
			p.advance() // )
			expr = &CallExpr{Line: tok.Line, Fn: expr, Args: args}
		case tok.isOp("."):
			p.advance()
			if p.cur().Type != tokName {
				if p.cur().Type == tokEOF {
					return nil, p.unexpectedEOF(tok.Line)
				}
				return nil, p.errorf(tok.Line, "expected attribute name after '.'")
			}
			name := p.advance().Lit
			expr = &AttrExpr{Line: tok.Line, X: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case tokInt:
		p.advance()
		v, err := strconv.ParseInt(tok.Lit, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Line, "integer literal out of range")
		}
		return &IntLit{Line: tok.Line, Value: v}, nil
	case tokString:
		p.advance()
		return &StrLit{Line: tok.Line, Value: tok.Lit}, nil
	case tokName:
		p.advance()
		return &NameExpr{Line: tok.Line, Name: tok.Lit}, nil
	case tokKeyword:
		switch tok.Lit {
		case "True":
			p.advance()
			return &BoolLit{Line: tok.Line, Value: true}, nil
		case "False":
			p.advance()
			return &BoolLit{Line: tok.Line, Value: false}, nil
		case "None":
			p.advance()
			return &NoneLit{Line: tok.Line}, nil
		}
	case tokOp:
		switch tok.Lit {
		case "(":
			p.advance()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if !p.cur().isOp(")") {
				if p.cur().Type == tokEOF {
					return nil, p.unexpectedEOF(tok.Line)
				}
				return nil, p.errorf(p.cur().Line, "expected ')'")
			}
			p.advance()
			return inner, nil
		case "[":
			p.advance()
			var elems []Expr
			for !p.cur().isOp("]") {
				if p.cur().Type == tokEOF {
					return nil, p.unexpectedEOF(tok.Line)
				}
				el, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
				if p.cur().isOp(",") {
					p.advance()
				} else if !p.cur().isOp("]") {
					return nil, p.errorf(p.cur().Line, "expected ',' or ']' in list")
				}
			}
			p.advance() // ]
			return &ListLit{Line: tok.Line, Elems: elems}, nil
		}
	case tokEOF:
		return nil, p.unexpectedEOF(tok.Line)
	}
	return nil, p.errorf(tok.Line, "invalid syntax near %q", tok.Lit)
}
