package compile

import (
	"fmt"
	"strings"

	"github.com/pylite-lang/pylite/internal/pyerr"
)

// lexer tokenizes source text with Python-style significant indentation.
// Newlines inside brackets are implicit continuations; blank lines and
// comment-only lines emit nothing.
type lexer struct {
	src   string
	pos   int
	line  int
	label string

	indents     []int // indentation stack, always starts with 0
	brackets    int   // open ( and [ depth
	pending     []token
	atLineStart bool

	// openAtEOF is set when input ended inside a bracket; the parser
	// reports that as incomplete input in Single mode.
	openAtEOF bool
}

func newLexer(src, label string) *lexer {
	return &lexer{src: src, line: 1, label: label, indents: []int{0}, atLineStart: true}
}

func (l *lexer) errorf(format string, args ...interface{}) *pyerr.SyntaxError {
	return &pyerr.SyntaxError{
		Kind:  pyerr.ParseFailure,
		Msg:   fmt.Sprintf(format, args...),
		Label: l.label,
		Line:  l.line,
	}
}

// tokens runs the lexer to completion.
func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	if l.atLineStart {
		l.atLineStart = false
		if toks, done := l.handleIndent(); done {
			if len(toks) > 0 {
				l.pending = append(l.pending, toks[1:]...)
				return toks[0], nil
			}
			return l.next()
		}
	}

	l.skipSpacesAndComments()

	if l.pos >= len(l.src) {
		return l.emitEOF(), nil
	}

	ch := l.src[l.pos]

	if ch == '\n' {
		l.pos++
		l.line++
		l.atLineStart = true
		if l.brackets > 0 {
			return l.next()
		}
		return token{Type: tokNewline, Line: l.line - 1}, nil
	}

	if isIdentStart(ch) {
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		word := l.src[start:l.pos]
		if keywords[word] {
			return token{Type: tokKeyword, Lit: word, Line: l.line}, nil
		}
		return token{Type: tokName, Lit: word, Line: l.line}, nil
	}

	if ch >= '0' && ch <= '9' {
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
		return token{Type: tokInt, Lit: l.src[start:l.pos], Line: l.line}, nil
	}

	if ch == '"' || ch == '\'' {
		return l.lexString(ch)
	}

	return l.lexOperator()
}

// handleIndent compares the new line's indentation against the stack and
// emits INDENT/DEDENT tokens. Returns (tokens, true) when tokens or a
// skip decision were produced.
func (l *lexer) handleIndent() ([]token, bool) {
	if l.brackets > 0 {
		return nil, false
	}
	col := 0
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			col++
		case '\t':
			col = col - col%8 + 8
		default:
			goto measured
		}
		l.pos++
	}
measured:
	// Blank or comment-only lines carry no indentation meaning.
	if l.pos >= len(l.src) || l.src[l.pos] == '\n' || l.src[l.pos] == '#' {
		return nil, false
	}

	top := l.indents[len(l.indents)-1]
	if col > top {
		l.indents = append(l.indents, col)
		return []token{{Type: tokIndent, Line: l.line}}, true
	}
	var out []token
	for col < l.indents[len(l.indents)-1] {
		l.indents = l.indents[:len(l.indents)-1]
		out = append(out, token{Type: tokDedent, Line: l.line})
	}
	if len(out) > 0 {
		return out, true
	}
	return nil, false
}

func (l *lexer) emitEOF() token {
	if l.brackets > 0 {
		l.openAtEOF = true
	}
	// Close any open blocks so the parser sees balanced suites.
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, token{Type: tokDedent, Line: l.line})
	}
	l.pending = append(l.pending, token{Type: tokEOF, Line: l.line})
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

func (l *lexer) skipSpacesAndComments() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.pos++
			continue
		}
		if ch == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) lexString(quote byte) (token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch ch {
		case quote:
			l.pos++
			return token{Type: tokString, Lit: sb.String(), Line: l.line}, nil
		case '\n':
			return token{}, l.errorf("EOL while scanning string literal")
		case '\\':
			l.pos++
			if l.pos >= len(l.src) {
				return token{}, l.errorf("EOL while scanning string literal")
			}
			switch l.src[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case quote:
				sb.WriteByte(quote)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(l.src[l.pos])
			}
			l.pos++
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return token{}, l.errorf("unterminated string literal")
}

func (l *lexer) lexOperator() (token, error) {
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "==", "!=", "<=", ">=":
		l.pos += 2
		return token{Type: tokOp, Lit: two, Line: l.line}, nil
	}

	ch := l.src[l.pos]
	switch ch {
	case '(', '[':
		l.brackets++
	case ')', ']':
		if l.brackets > 0 {
			l.brackets--
		}
	}
	switch ch {
	case '+', '-', '*', '/', '%', '=', '<', '>', '(', ')', '[', ']', ',', '.', ':':
		l.pos++
		return token{Type: tokOp, Lit: string(ch), Line: l.line}, nil
	}
	return token{}, l.errorf("invalid character %q", string(ch))
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
