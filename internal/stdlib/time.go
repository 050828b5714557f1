package stdlib

import (
	"time"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// NewTimeModule builds the native time module.
func NewTimeModule() (*object.Module, error) {
	mod := object.NewModule("time")
	mod.SetAttr("__name__", &object.String{Value: "time"})

	mod.SetAttr("time", &object.Builtin{Name: "time", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 0 {
			return nil, pyerr.Raise("TypeError", "time() takes no arguments (%d given)", len(args))
		}
		return &object.Integer{Value: time.Now().Unix()}, nil
	}})

	mod.SetAttr("sleep", &object.Builtin{Name: "sleep", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "sleep() takes exactly one argument (%d given)", len(args))
		}
		secs, ok := args[0].(*object.Integer)
		if !ok {
			return nil, pyerr.Raise("TypeError", "sleep() argument must be an integer")
		}
		if secs.Value < 0 {
			return nil, pyerr.Raise("ValueError", "sleep length must be non-negative")
		}
		time.Sleep(time.Duration(secs.Value) * time.Second)
		return object.None, nil
	}})

	return mod, nil
}
