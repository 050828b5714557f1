package object

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	STRING_OBJ  = "STRING"
	BOOLEAN_OBJ = "BOOLEAN"
	NONE_OBJ    = "NONE"
	LIST_OBJ    = "LIST"
	DICT_OBJ    = "DICT"
	BUILTIN_OBJ  = "BUILTIN"
	FUNCTION_OBJ = "FUNCTION"
	MODULE_OBJ   = "MODULE"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

// None is the singleton no-value sentinel. Execution of a unit that ends in
// anything but an expression statement yields None; the interactive loop
// skips the `_` binding when it sees it.
var None Object = &NoneValue{}

type NoneValue struct{}

func (n *NoneValue) Type() ObjectType { return NONE_OBJ }
func (n *NoneValue) Inspect() string  { return "None" }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return "'" + s.Value + "'" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// Interned booleans; comparisons may rely on pointer identity.
var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

func FromBool(v bool) *Boolean {
	if v {
		return True
	}
	return False
}

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, 0, len(l.Elements))
	for _, el := range l.Elements {
		parts = append(parts, el.Inspect())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dict is a string-keyed mapping. It backs module namespaces and scope
// stores, so mutation through any alias is visible everywhere — that
// sharing is what lets a partially executed module be observed mid-import.
type Dict struct {
	mu    sync.RWMutex
	items map[string]Object
}

func NewDict() *Dict {
	return &Dict{items: make(map[string]Object)}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }

func (d *Dict) Inspect() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	parts := make([]string, 0, len(d.items))
	for k, v := range d.items {
		parts = append(parts, fmt.Sprintf("'%s': %s", k, v.Inspect()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Get(key string) (Object, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	obj, ok := d.items[key]
	return obj, ok
}

func (d *Dict) Set(key string, val Object) {
	d.mu.Lock()
	d.items[key] = val
	d.mu.Unlock()
}

func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

// Keys returns a copied key list (unordered).
func (d *Dict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.items))
	for k := range d.items {
		keys = append(keys, k)
	}
	return keys
}

// BuiltinFunc is the signature of native functions exposed to programs.
type BuiltinFunc func(args ...Object) (Object, error)

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<built-in function " + b.Name + ">" }
