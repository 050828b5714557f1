package compile

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokInt
	tokString
	tokOp      // punctuation and operators, Lit carries the spelling
	tokKeyword // import, if, else, while, def, return, pass, True, False, None
)

type token struct {
	Type tokenType
	Lit  string
	Line int
}

var keywords = map[string]bool{
	"import": true,
	"if":     true,
	"else":   true,
	"while":  true,
	"def":    true,
	"return": true,
	"pass":   true,
	"True":   true,
	"False":  true,
	"None":   true,
}

func (t token) isKeyword(kw string) bool {
	return t.Type == tokKeyword && t.Lit == kw
}

func (t token) isOp(op string) bool {
	return t.Type == tokOp && t.Lit == op
}
