// Package stdlib provides the prelude builtins, the sys module and the
// native (builtin-factory) modules shipped with the runtime.
package stdlib

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// Prelude returns the builtin functions available in every scope chain.
// out receives print output.
func Prelude(out io.Writer) map[string]object.Object {
	return map[string]object.Object{
		"print": &object.Builtin{Name: "print", Fn: func(args ...object.Object) (object.Object, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, Str(arg))
			}
			fmt.Fprintln(out, strings.Join(parts, " "))
			return object.None, nil
		}},

		"len": &object.Builtin{Name: "len", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, pyerr.Raise("TypeError", "len() takes exactly one argument (%d given)", len(args))
			}
			switch v := args[0].(type) {
			case *object.String:
				return &object.Integer{Value: int64(len(v.Value))}, nil
			case *object.List:
				return &object.Integer{Value: int64(len(v.Elements))}, nil
			case *object.Dict:
				return &object.Integer{Value: int64(v.Len())}, nil
			}
			return nil, pyerr.Raise("TypeError", "object of type '%s' has no len()", args[0].Type())
		}},

		"str": &object.Builtin{Name: "str", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, pyerr.Raise("TypeError", "str() takes exactly one argument (%d given)", len(args))
			}
			return &object.String{Value: Str(args[0])}, nil
		}},

		"repr": &object.Builtin{Name: "repr", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, pyerr.Raise("TypeError", "repr() takes exactly one argument (%d given)", len(args))
			}
			return &object.String{Value: args[0].Inspect()}, nil
		}},

		"int": &object.Builtin{Name: "int", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, pyerr.Raise("TypeError", "int() takes exactly one argument (%d given)", len(args))
			}
			switch v := args[0].(type) {
			case *object.Integer:
				return v, nil
			case *object.Boolean:
				if v.Value {
					return &object.Integer{Value: 1}, nil
				}
				return &object.Integer{Value: 0}, nil
			case *object.String:
				n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
				if err != nil {
					return nil, pyerr.Raise("ValueError", "invalid literal for int(): '%s'", v.Value)
				}
				return &object.Integer{Value: n}, nil
			}
			return nil, pyerr.Raise("TypeError", "int() argument must be a string or a number")
		}},

		"type": &object.Builtin{Name: "type", Fn: func(args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, pyerr.Raise("TypeError", "type() takes exactly one argument (%d given)", len(args))
			}
			return &object.String{Value: string(args[0].Type())}, nil
		}},
	}
}

// Str renders an object the way print does: strings without quotes,
// everything else via Inspect.
func Str(obj object.Object) string {
	if s, ok := obj.(*object.String); ok {
		return s.Value
	}
	return obj.Inspect()
}
