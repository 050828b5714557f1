package scope

import "github.com/pylite-lang/pylite/internal/object"

// Scope is a name-to-value mapping optionally chained to an enclosing
// scope. The store is an object.Dict so a module's namespace and the scope
// its body executes in can be the same mutable mapping.
type Scope struct {
	store *object.Dict
	outer *Scope
}

// New creates a scope over the given store. A nil store gets a fresh dict.
func New(store *object.Dict) *Scope {
	if store == nil {
		store = object.NewDict()
	}
	return &Scope{store: store}
}

// NewEnclosed creates an empty scope chained to outer.
func NewEnclosed(outer *Scope) *Scope {
	return &Scope{store: object.NewDict(), outer: outer}
}

// NewOver creates a scope whose bindings live in store, with lookups
// falling back to outer. Module bodies run in one of these: the store is
// the module's attribute dict, the outer scope holds the builtins.
func NewOver(store *object.Dict, outer *Scope) *Scope {
	if store == nil {
		store = object.NewDict()
	}
	return &Scope{store: store, outer: outer}
}

// Get resolves a name in this scope, then in enclosing scopes.
func (s *Scope) Get(name string) (object.Object, bool) {
	obj, ok := s.store.Get(name)
	if !ok && s.outer != nil {
		return s.outer.Get(name)
	}
	return obj, ok
}

// Set binds a name in this scope, shadowing any outer binding.
func (s *Scope) Set(name string, val object.Object) object.Object {
	s.store.Set(name, val)
	return val
}

// Globals returns the store of the outermost scope below the builtin
// scope boundary — for a flat scope, its own store.
func (s *Scope) Globals() *object.Dict {
	return s.store
}
