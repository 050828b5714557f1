package stdlib

import (
	"github.com/google/uuid"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// NewUUIDModule builds the native uuid module.
func NewUUIDModule() (*object.Module, error) {
	mod := object.NewModule("uuid")
	mod.SetAttr("__name__", &object.String{Value: "uuid"})

	mod.SetAttr("uuid4", &object.Builtin{Name: "uuid4", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 0 {
			return nil, pyerr.Raise("TypeError", "uuid4() takes no arguments (%d given)", len(args))
		}
		return &object.String{Value: uuid.NewString()}, nil
	}})

	mod.SetAttr("parse", &object.Builtin{Name: "parse", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "parse() takes exactly one argument (%d given)", len(args))
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, pyerr.Raise("TypeError", "parse() argument must be a string")
		}
		id, err := uuid.Parse(s.Value)
		if err != nil {
			return nil, pyerr.Raise("ValueError", "badly formed UUID string: '%s'", s.Value)
		}
		return &object.String{Value: id.String()}, nil
	}})

	return mod, nil
}
