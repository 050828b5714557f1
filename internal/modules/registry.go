// Package modules implements the module registry and the resolver/loader.
//
// The registry is an explicit object owned by the runtime instance and
// passed by reference, never an ambient global, so separate runtimes stay
// isolated. It assumes single-threaded use (see the loader docs).
package modules

import (
	"github.com/pylite-lang/pylite/internal/object"
)

// Factory constructs a native module without any source compilation.
type Factory func() (*object.Module, error)

// Registry is the module cache plus the three lookup tables consulted
// during resolution: frozen sources, builtin factories and the filesystem
// search path.
//
// The cache and the search path are backed by live objects (a Dict and a
// List) so the sys module can expose them as sys.modules and sys.path
// without copying.
type Registry struct {
	modules  *object.Dict
	frozen   map[string]string
	builtins map[string]Factory
	path     *object.List
}

func NewRegistry() *Registry {
	return &Registry{
		modules:  object.NewDict(),
		frozen:   make(map[string]string),
		builtins: make(map[string]Factory),
		path:     &object.List{},
	}
}

// Lookup returns the cached module for name. A module is present from the
// moment it is published, even while its body is still executing.
func (r *Registry) Lookup(name string) (*object.Module, bool) {
	obj, ok := r.modules.Get(name)
	if !ok {
		return nil, false
	}
	mod, ok := obj.(*object.Module)
	return mod, ok
}

// Register publishes a module under name, overwriting unconditionally.
// The loader relies on this to publish a not-yet-executed module before
// running its body.
func (r *Registry) Register(name string, mod *object.Module) {
	r.modules.Set(name, mod)
}

// Modules exposes the cache dict itself (sys.modules).
func (r *Registry) Modules() *object.Dict {
	return r.modules
}

// RegisterFrozen records embedded source text for name. Frozen modules
// shadow same-named files on the search path.
func (r *Registry) RegisterFrozen(name, source string) {
	r.frozen[name] = source
}

func (r *Registry) FrozenSource(name string) (string, bool) {
	src, ok := r.frozen[name]
	return src, ok
}

// RegisterBuiltin records a native module factory for name.
func (r *Registry) RegisterBuiltin(name string, f Factory) {
	r.builtins[name] = f
}

func (r *Registry) builtinFactory(name string) (Factory, bool) {
	f, ok := r.builtins[name]
	return f, ok
}

// HasBuiltin reports whether name has a registered native factory.
func (r *Registry) HasBuiltin(name string) bool {
	_, ok := r.builtins[name]
	return ok
}

// PathList exposes the search path list itself (sys.path). The current
// directory of the importing unit is prepended at resolve time, never
// stored here.
func (r *Registry) PathList() *object.List {
	return r.path
}

// SearchPath snapshots the string entries of the path list, skipping any
// non-string elements a script may have inserted.
func (r *Registry) SearchPath() []string {
	dirs := make([]string, 0, len(r.path.Elements))
	for _, el := range r.path.Elements {
		if s, ok := el.(*object.String); ok {
			dirs = append(dirs, s.Value)
		}
	}
	return dirs
}

// AppendPath adds a directory to the end of the search path.
func (r *Registry) AppendPath(dir string) {
	r.path.Elements = append(r.path.Elements, &object.String{Value: dir})
}

// PrependPath inserts a directory at the front of the search path.
func (r *Registry) PrependPath(dir string) {
	r.path.Elements = append([]object.Object{&object.String{Value: dir}}, r.path.Elements...)
}
