package compile

// The node types below form the compiled unit's internal representation.
// Consumers other than the execution engine treat a Unit as opaque.

type Stmt interface {
	stmtNode()
}

type Expr interface {
	exprNode()
}

type ExprStmt struct {
	Line int
	E    Expr
}

// AssignStmt covers `name = expr` and `target.attr = expr`.
type AssignStmt struct {
	Line   int
	Target Expr // *NameExpr or *AttrExpr
	Value  Expr
}

// ImportStmt imports a dotted module name and binds its last segment.
type ImportStmt struct {
	Line int
	Name string
}

type IfStmt struct {
	Line int
	Cond Expr
	Body []Stmt
	Else []Stmt
}

type WhileStmt struct {
	Line int
	Cond Expr
	Body []Stmt
}

type DefStmt struct {
	Line   int
	Name   string
	Params []string
	Body   []Stmt
}

type ReturnStmt struct {
	Line  int
	Value Expr // nil means `return` with no value
}

type PassStmt struct {
	Line int
}

func (*ExprStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*ImportStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*DefStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*PassStmt) stmtNode()   {}

type NameExpr struct {
	Line int
	Name string
}

type IntLit struct {
	Line  int
	Value int64
}

type StrLit struct {
	Line  int
	Value string
}

type BoolLit struct {
	Line  int
	Value bool
}

type NoneLit struct {
	Line int
}

type ListLit struct {
	Line  int
	Elems []Expr
}

type AttrExpr struct {
	Line int
	X    Expr
	Name string
}

type CallExpr struct {
	Line int
	Fn   Expr
	Args []Expr
}

type BinaryExpr struct {
	Line int
	Op   string
	L, R Expr
}

type UnaryExpr struct {
	Line int
	Op   string
	X    Expr
}

func (*NameExpr) exprNode()   {}
func (*IntLit) exprNode()     {}
func (*StrLit) exprNode()     {}
func (*BoolLit) exprNode()    {}
func (*NoneLit) exprNode()    {}
func (*ListLit) exprNode()    {}
func (*AttrExpr) exprNode()   {}
func (*CallExpr) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
