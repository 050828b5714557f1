// Package pylite provides a high-level API for embedding the interpreter
// in Go programs.
package pylite

import (
	"fmt"
	"io"

	"github.com/pylite-lang/pylite/internal/compile"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/runtime"
	"github.com/pylite-lang/pylite/internal/scope"
)

// VM wraps a runtime instance with one persistent evaluation scope.
type VM struct {
	rt    *runtime.Runtime
	scope *scope.Scope
}

// Option configures the embedded runtime.
type Option func(*options)

type options struct {
	stdout io.Writer
}

// WithStdout redirects print output of embedded code.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// New builds an initialized VM: the import system is bootstrapped and
// filesystem imports are enabled.
func New(opts ...Option) (*VM, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var rtOpts []runtime.Option
	if o.stdout != nil {
		rtOpts = append(rtOpts, runtime.WithStdout(o.stdout))
	}
	rt := runtime.New(rtOpts...)
	if err := rt.InitImportlib(); err != nil {
		return nil, err
	}
	return &VM{rt: rt, scope: rt.NewScopeWithBuiltins()}, nil
}

// Eval compiles and runs source against the VM's persistent scope and
// returns the last expression's value converted to a Go value (nil when
// the source ends in a non-expression statement).
func (v *VM) Eval(source string) (interface{}, error) {
	unit, err := v.rt.Compiler.Compile(source+"\n", compile.Single, "<embed>")
	if err != nil {
		return nil, err
	}
	result, err := v.rt.Engine.Execute(unit, v.scope)
	if err != nil {
		return nil, err
	}
	return toGo(result)
}

// Get reads a variable from the VM's scope as a Go value.
func (v *VM) Get(name string) (interface{}, bool) {
	obj, ok := v.scope.Get(name)
	if !ok {
		return nil, false
	}
	val, err := toGo(obj)
	if err != nil {
		return nil, false
	}
	return val, true
}

// Import loads a module by name through the VM's import system.
func (v *VM) Import(name string) error {
	_, err := v.rt.Import(".", name)
	return err
}

func toGo(obj object.Object) (interface{}, error) {
	switch val := obj.(type) {
	case *object.NoneValue:
		return nil, nil
	case *object.Integer:
		return val.Value, nil
	case *object.String:
		return val.Value, nil
	case *object.Boolean:
		return val.Value, nil
	case *object.List:
		out := make([]interface{}, 0, len(val.Elements))
		for _, el := range val.Elements {
			conv, err := toGo(el)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	case *object.Dict:
		out := make(map[string]interface{}, val.Len())
		for _, key := range val.Keys() {
			item, _ := val.Get(key)
			conv, err := toGo(item)
			if err != nil {
				return nil, err
			}
			out[key] = conv
		}
		return out, nil
	case *object.Module:
		return val, nil
	}
	return nil, fmt.Errorf("cannot convert %s value to Go", obj.Type())
}
