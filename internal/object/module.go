package object

// Module is a named namespace of attributes plus metadata. Attrs is the
// same Dict the execution engine uses as the module body's global scope,
// so attributes become visible to other importers as soon as the body sets
// them — not only after the body finishes.
type Module struct {
	Name  string
	File  string // empty for frozen and builtin modules
	Attrs *Dict
}

// NewModule creates an empty module namespace.
func NewModule(name string) *Module {
	return &Module{Name: name, Attrs: NewDict()}
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string {
	if m.File != "" {
		return "<module '" + m.Name + "' from '" + m.File + "'>"
	}
	return "<module '" + m.Name + "'>"
}

// Attr reads a module attribute.
func (m *Module) Attr(name string) (Object, bool) {
	return m.Attrs.Get(name)
}

// SetAttr writes a module attribute.
func (m *Module) SetAttr(name string, val Object) {
	m.Attrs.Set(name, val)
}
