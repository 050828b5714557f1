package runtime

import (
	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// nativeImport is the fallback hook active before bootstrap: it calls the
// loader directly.
type nativeImport struct {
	rt *Runtime
}

func (h *nativeImport) Import(currentPath, name string) (object.Object, error) {
	mod, err := h.rt.Loader.ImportModule(currentPath, name)
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// hostedImport invokes the __import__ callable captured from the frozen
// importlib module.
type hostedImport struct {
	rt *Runtime
	fn object.Object
}

func (h *hostedImport) Import(currentPath, name string) (object.Object, error) {
	args := []object.Object{
		&object.String{Value: name},
		&object.String{Value: currentPath},
	}
	return h.rt.Engine.Call(h.fn, args)
}

// newImpModule builds the native import-support module the frozen
// importlib re-exports from.
func (rt *Runtime) newImpModule() (*object.Module, error) {
	mod := object.NewModule(config.ImpModuleName)
	mod.SetAttr(config.NameAttr, &object.String{Value: config.ImpModuleName})

	mod.SetAttr("install", &object.Builtin{Name: "install", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 2 {
			return nil, pyerr.Raise("TypeError", "install() takes exactly two arguments (%d given)", len(args))
		}
		if _, ok := args[0].(*object.Module); !ok {
			return nil, pyerr.Raise("TypeError", "install() first argument must be the sys module")
		}
		if _, ok := args[1].(*object.Module); !ok {
			return nil, pyerr.Raise("TypeError", "install() second argument must be the _imp module")
		}
		return object.None, nil
	}})

	mod.SetAttr("install_external", &object.Builtin{Name: "install_external", Fn: func(args ...object.Object) (object.Object, error) {
		rt.Loader.EnableExternalImports()
		return object.None, nil
	}})

	mod.SetAttr("default_import", &object.Builtin{Name: "default_import", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, pyerr.Raise("TypeError", "default_import() takes one or two arguments (%d given)", len(args))
		}
		name, ok := args[0].(*object.String)
		if !ok {
			return nil, pyerr.Raise("TypeError", "module name must be a string")
		}
		currentPath := "."
		if len(args) == 2 {
			if p, ok := args[1].(*object.String); ok {
				currentPath = p.Value
			}
		}
		mod, err := rt.Loader.ImportModule(currentPath, name.Value)
		if err != nil {
			return nil, err
		}
		return mod, nil
	}})

	return mod, nil
}
