// Package engine executes compiled units against scopes.
//
// Import statements never reach the module loader directly: they go
// through the ImportHook installed on the engine, which after bootstrap is
// the hook captured from the frozen importlib module.
package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pylite-lang/pylite/internal/compile"
	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/scope"
)

// ImportHook resolves an import request made by running code. currentPath
// is the directory of the importing unit's source, consulted before the
// search path.
type ImportHook interface {
	Import(currentPath, name string) (object.Object, error)
}

type Engine struct {
	Hook ImportHook
}

func New() *Engine { return &Engine{} }

// Execute runs a unit with sc as its global scope. In Single mode the
// result is the value of the last expression statement, or object.None;
// in Exec mode it is always object.None.
func (e *Engine) Execute(unit *compile.Unit, sc *scope.Scope) (object.Object, error) {
	ctx := &execCtx{engine: e, dir: unitDir(unit.Label)}
	last := object.Object(object.None)
	for _, stmt := range unit.Stmts {
		val, err := ctx.execStmt(stmt, sc)
		if err != nil {
			return nil, err
		}
		last = val
	}
	if unit.Mode == compile.Single {
		return last, nil
	}
	return object.None, nil
}

// unitDir derives the importing unit's directory from its source label.
// Synthetic labels ("<stdin>", "frozen x") resolve against the cwd.
func unitDir(label string) string {
	if label == "" || strings.HasPrefix(label, "<") ||
		strings.HasPrefix(label, config.FrozenLabelPrefix) {
		return "."
	}
	return filepath.Dir(label)
}

type execCtx struct {
	engine *Engine
	dir    string
}

// returnControl unwinds a function body on `return`.
type returnControl struct {
	value object.Object
}

func (r *returnControl) Error() string { return "return outside function" }

// execStmt returns the statement's value for expression statements and
// object.None for everything else.
func (c *execCtx) execStmt(stmt compile.Stmt, sc *scope.Scope) (object.Object, error) {
	switch s := stmt.(type) {
	case *compile.ExprStmt:
		return c.eval(s.E, sc)

	case *compile.AssignStmt:
		val, err := c.eval(s.Value, sc)
		if err != nil {
			return nil, err
		}
		switch target := s.Target.(type) {
		case *compile.NameExpr:
			sc.Set(target.Name, val)
		case *compile.AttrExpr:
			x, err := c.eval(target.X, sc)
			if err != nil {
				return nil, err
			}
			mod, ok := x.(*object.Module)
			if !ok {
				return nil, pyerr.Raise("AttributeError",
					"'%s' object attribute '%s' is read-only", strings.ToLower(string(x.Type())), target.Name)
			}
			mod.SetAttr(target.Name, val)
		}
		return object.None, nil

	case *compile.ImportStmt:
		if c.engine.Hook == nil {
			return nil, pyerr.Raise("ImportError", "import system not initialized")
		}
		mod, err := c.engine.Hook.Import(c.dir, s.Name)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s.Name, ".")
		sc.Set(parts[len(parts)-1], mod)
		return object.None, nil

	case *compile.IfStmt:
		cond, err := c.eval(s.Cond, sc)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return object.None, c.execSuite(s.Body, sc)
		}
		return object.None, c.execSuite(s.Else, sc)

	case *compile.WhileStmt:
		for {
			cond, err := c.eval(s.Cond, sc)
			if err != nil {
				return nil, err
			}
			if !truthy(cond) {
				return object.None, nil
			}
			if err := c.execSuite(s.Body, sc); err != nil {
				return nil, err
			}
		}

	case *compile.DefStmt:
		sc.Set(s.Name, &Function{Name: s.Name, Params: s.Params, Body: s.Body, Defn: sc, Dir: c.dir})
		return object.None, nil

	case *compile.ReturnStmt:
		value := object.Object(object.None)
		if s.Value != nil {
			v, err := c.eval(s.Value, sc)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return nil, &returnControl{value: value}

	case *compile.PassStmt:
		return object.None, nil
	}
	return nil, pyerr.Raise("SystemError", "unknown statement %T", stmt)
}

func (c *execCtx) execSuite(stmts []compile.Stmt, sc *scope.Scope) error {
	for _, stmt := range stmts {
		if _, err := c.execStmt(stmt, sc); err != nil {
			return err
		}
	}
	return nil
}

func (c *execCtx) eval(expr compile.Expr, sc *scope.Scope) (object.Object, error) {
	switch e := expr.(type) {
	case *compile.IntLit:
		return &object.Integer{Value: e.Value}, nil
	case *compile.StrLit:
		return &object.String{Value: e.Value}, nil
	case *compile.BoolLit:
		return object.FromBool(e.Value), nil
	case *compile.NoneLit:
		return object.None, nil

	case *compile.ListLit:
		elems := make([]object.Object, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := c.eval(el, sc)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &object.List{Elements: elems}, nil

	case *compile.NameExpr:
		if val, ok := sc.Get(e.Name); ok {
			return val, nil
		}
		return nil, pyerr.Raise("NameError", "name '%s' is not defined", e.Name)

	case *compile.AttrExpr:
		x, err := c.eval(e.X, sc)
		if err != nil {
			return nil, err
		}
		return getAttr(x, e.Name)

	case *compile.CallExpr:
		fn, err := c.eval(e.Fn, sc)
		if err != nil {
			return nil, err
		}
		args := make([]object.Object, 0, len(e.Args))
		for _, arg := range e.Args {
			v, err := c.eval(arg, sc)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return c.engine.Call(fn, args)

	case *compile.UnaryExpr:
		x, err := c.eval(e.X, sc)
		if err != nil {
			return nil, err
		}
		if i, ok := x.(*object.Integer); ok {
			return &object.Integer{Value: -i.Value}, nil
		}
		return nil, pyerr.Raise("TypeError", "bad operand type for unary -: %s", x.Type())

	case *compile.BinaryExpr:
		l, err := c.eval(e.L, sc)
		if err != nil {
			return nil, err
		}
		r, err := c.eval(e.R, sc)
		if err != nil {
			return nil, err
		}
		return binaryOp(e.Op, l, r)
	}
	return nil, pyerr.Raise("SystemError", "unknown expression %T", expr)
}

// Call invokes a builtin or a user-defined function.
func (e *Engine) Call(fn object.Object, args []object.Object) (object.Object, error) {
	switch f := fn.(type) {
	case *object.Builtin:
		result, err := f.Fn(args...)
		if err != nil {
			// Typed errors (import failures, syntax errors from a nested
			// load) pass through unchanged.
			switch err.(type) {
			case *pyerr.RuntimeError, *pyerr.ImportError,
				*pyerr.ModuleNotFoundError, *pyerr.SyntaxError:
				return nil, err
			}
			return nil, pyerr.Raise("RuntimeError", "%s: %s", f.Name, err)
		}
		if result == nil {
			result = object.None
		}
		return result, nil

	case *Function:
		if len(args) != len(f.Params) {
			return nil, pyerr.Raise("TypeError",
				"%s() takes %d arguments (%d given)", f.Name, len(f.Params), len(args))
		}
		local := scope.NewEnclosed(f.Defn)
		for i, param := range f.Params {
			local.Set(param, args[i])
		}
		dir := f.Dir
		if dir == "" {
			dir = "."
		}
		ctx := &execCtx{engine: e, dir: dir}
		for _, stmt := range f.Body {
			if _, err := ctx.execStmt(stmt, local); err != nil {
				if ret, ok := err.(*returnControl); ok {
					return ret.value, nil
				}
				return nil, err
			}
		}
		return object.None, nil
	}
	return nil, pyerr.Raise("TypeError", "'%s' object is not callable", strings.ToLower(string(fn.Type())))
}

// Function is a user-defined function closed over its defining scope.
// Dir is the directory of the defining unit, used to resolve imports made
// inside the body.
type Function struct {
	Name   string
	Params []string
	Body   []compile.Stmt
	Defn   *scope.Scope
	Dir    string
}

func (f *Function) Type() object.ObjectType { return object.FUNCTION_OBJ }
func (f *Function) Inspect() string         { return fmt.Sprintf("<function %s>", f.Name) }

func getAttr(x object.Object, name string) (object.Object, error) {
	switch v := x.(type) {
	case *object.Module:
		if attr, ok := v.Attr(name); ok {
			return attr, nil
		}
		return nil, pyerr.Raise("AttributeError", "module '%s' has no attribute '%s'", v.Name, name)
	case *object.Dict:
		if attr, ok := v.Get(name); ok {
			return attr, nil
		}
	}
	return nil, pyerr.Raise("AttributeError",
		"'%s' object has no attribute '%s'", strings.ToLower(string(x.Type())), name)
}

func truthy(obj object.Object) bool {
	switch v := obj.(type) {
	case *object.Boolean:
		return v.Value
	case *object.NoneValue:
		return false
	case *object.Integer:
		return v.Value != 0
	case *object.String:
		return v.Value != ""
	case *object.List:
		return len(v.Elements) > 0
	case *object.Dict:
		return v.Len() > 0
	}
	return true
}

func binaryOp(op string, l, r object.Object) (object.Object, error) {
	if li, lok := l.(*object.Integer); lok {
		if ri, rok := r.(*object.Integer); rok {
			return intOp(op, li.Value, ri.Value)
		}
	}
	if ls, lok := l.(*object.String); lok {
		if rs, rok := r.(*object.String); rok {
			return strOp(op, ls.Value, rs.Value)
		}
	}
	if ll, lok := l.(*object.List); lok {
		if rl, rok := r.(*object.List); rok && op == "+" {
			elems := make([]object.Object, 0, len(ll.Elements)+len(rl.Elements))
			elems = append(elems, ll.Elements...)
			elems = append(elems, rl.Elements...)
			return &object.List{Elements: elems}, nil
		}
	}
	switch op {
	case "==":
		return object.FromBool(equal(l, r)), nil
	case "!=":
		return object.FromBool(!equal(l, r)), nil
	}
	return nil, pyerr.Raise("TypeError",
		"unsupported operand types for %s: %s and %s", op, l.Type(), r.Type())
}

func intOp(op string, a, b int64) (object.Object, error) {
	switch op {
	case "+":
		return &object.Integer{Value: a + b}, nil
	case "-":
		return &object.Integer{Value: a - b}, nil
	case "*":
		return &object.Integer{Value: a * b}, nil
	case "/":
		if b == 0 {
			return nil, pyerr.Raise("ZeroDivisionError", "division by zero")
		}
		return &object.Integer{Value: a / b}, nil
	case "%":
		if b == 0 {
			return nil, pyerr.Raise("ZeroDivisionError", "modulo by zero")
		}
		return &object.Integer{Value: a % b}, nil
	case "==":
		return object.FromBool(a == b), nil
	case "!=":
		return object.FromBool(a != b), nil
	case "<":
		return object.FromBool(a < b), nil
	case ">":
		return object.FromBool(a > b), nil
	case "<=":
		return object.FromBool(a <= b), nil
	case ">=":
		return object.FromBool(a >= b), nil
	}
	return nil, pyerr.Raise("TypeError", "unsupported int operation %s", op)
}

func strOp(op string, a, b string) (object.Object, error) {
	switch op {
	case "+":
		return &object.String{Value: a + b}, nil
	case "==":
		return object.FromBool(a == b), nil
	case "!=":
		return object.FromBool(a != b), nil
	case "<":
		return object.FromBool(a < b), nil
	case ">":
		return object.FromBool(a > b), nil
	case "<=":
		return object.FromBool(a <= b), nil
	case ">=":
		return object.FromBool(a >= b), nil
	}
	return nil, pyerr.Raise("TypeError", "unsupported string operation %s", op)
}

func equal(l, r object.Object) bool {
	switch lv := l.(type) {
	case *object.Integer:
		rv, ok := r.(*object.Integer)
		return ok && lv.Value == rv.Value
	case *object.String:
		rv, ok := r.(*object.String)
		return ok && lv.Value == rv.Value
	case *object.Boolean:
		rv, ok := r.(*object.Boolean)
		return ok && lv.Value == rv.Value
	case *object.NoneValue:
		_, ok := r.(*object.NoneValue)
		return ok
	}
	return l == r
}
