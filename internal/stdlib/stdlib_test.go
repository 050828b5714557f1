package stdlib_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pylite-lang/pylite/internal/modules"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/stdlib"
)

// call invokes a builtin attribute of mod and fails the test on error.
func call(t *testing.T, mod *object.Module, name string, args ...object.Object) object.Object {
	t.Helper()
	fn, ok := mod.Attr(name)
	if !ok {
		t.Fatalf("module %s has no %q", mod.Name, name)
	}
	builtin, ok := fn.(*object.Builtin)
	if !ok {
		t.Fatalf("%s.%s is %T, want *object.Builtin", mod.Name, name, fn)
	}
	result, err := builtin.Fn(args...)
	if err != nil {
		t.Fatalf("%s.%s failed: %v", mod.Name, name, err)
	}
	return result
}

// callErr invokes a builtin attribute and returns its error.
func callErr(t *testing.T, mod *object.Module, name string, args ...object.Object) error {
	t.Helper()
	fn, _ := mod.Attr(name)
	_, err := fn.(*object.Builtin).Fn(args...)
	if err == nil {
		t.Fatalf("%s.%s succeeded, expected an error", mod.Name, name)
	}
	return err
}

func str(v string) *object.String { return &object.String{Value: v} }
func num(v int64) *object.Integer { return &object.Integer{Value: v} }

// ---------------------------------------------------------------------------
// Prelude
// ---------------------------------------------------------------------------

func TestPreludePrint(t *testing.T) {
	var buf bytes.Buffer
	prelude := stdlib.Prelude(&buf)
	print := prelude["print"].(*object.Builtin)

	if _, err := print.Fn(str("a"), num(1), object.None); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "a 1 None\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPreludeStrVsRepr(t *testing.T) {
	prelude := stdlib.Prelude(&bytes.Buffer{})
	strFn := prelude["str"].(*object.Builtin)
	reprFn := prelude["repr"].(*object.Builtin)

	s, _ := strFn.Fn(str("hi"))
	if s.(*object.String).Value != "hi" {
		t.Errorf("str = %q, want unquoted", s.(*object.String).Value)
	}
	r, _ := reprFn.Fn(str("hi"))
	if r.(*object.String).Value != "'hi'" {
		t.Errorf("repr = %q, want quoted", r.(*object.String).Value)
	}
}

func TestPreludeLen(t *testing.T) {
	prelude := stdlib.Prelude(&bytes.Buffer{})
	lenFn := prelude["len"].(*object.Builtin)

	n, err := lenFn.Fn(str("abcd"))
	if err != nil {
		t.Fatal(err)
	}
	if n.(*object.Integer).Value != 4 {
		t.Errorf("len = %s", n.Inspect())
	}
	if _, err := lenFn.Fn(num(1)); err == nil {
		t.Error("len(int) should fail")
	}
}

func TestPreludeInt(t *testing.T) {
	prelude := stdlib.Prelude(&bytes.Buffer{})
	intFn := prelude["int"].(*object.Builtin)

	n, err := intFn.Fn(str(" 42 "))
	if err != nil {
		t.Fatal(err)
	}
	if n.(*object.Integer).Value != 42 {
		t.Errorf("int = %s", n.Inspect())
	}
	_, err = intFn.Fn(str("not a number"))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "ValueError" {
		t.Errorf("expected ValueError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// sys
// ---------------------------------------------------------------------------

func TestSysModule(t *testing.T) {
	reg := modules.NewRegistry()
	reg.AppendPath("lib")
	sys := stdlib.NewSysModule(reg, []string{"prog", "arg"})

	path, _ := sys.Attr("path")
	if path.(*object.List) != reg.PathList() {
		t.Error("sys.path must be the registry's list object")
	}
	argv, _ := sys.Attr("argv")
	elems := argv.(*object.List).Elements
	if len(elems) != 2 || elems[0].(*object.String).Value != "prog" {
		t.Errorf("argv = %v", elems)
	}
	if _, ok := sys.Attr("platform"); !ok {
		t.Error("sys.platform missing")
	}
	ps1, _ := sys.Attr("ps1")
	if ps1.(*object.String).Value != ">>> " {
		t.Errorf("ps1 = %q", ps1.(*object.String).Value)
	}
}

// ---------------------------------------------------------------------------
// uuid
// ---------------------------------------------------------------------------

func TestUUIDModule(t *testing.T) {
	mod, err := stdlib.NewUUIDModule()
	if err != nil {
		t.Fatal(err)
	}

	id := call(t, mod, "uuid4")
	text := id.(*object.String).Value
	if len(text) != 36 {
		t.Errorf("uuid4 = %q", text)
	}

	parsed := call(t, mod, "parse", str(strings.ToUpper(text)))
	if parsed.(*object.String).Value != text {
		t.Errorf("parse(%q) = %q", strings.ToUpper(text), parsed.(*object.String).Value)
	}

	err = callErr(t, mod, "parse", str("not-a-uuid"))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "ValueError" {
		t.Errorf("expected ValueError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// yaml
// ---------------------------------------------------------------------------

func TestYamlParse(t *testing.T) {
	mod, err := stdlib.NewYamlModule()
	if err != nil {
		t.Fatal(err)
	}

	result := call(t, mod, "parse", str("name: demo\ncount: 3\nitems:\n  - a\n  - b\n"))
	dict, ok := result.(*object.Dict)
	if !ok {
		t.Fatalf("parse returned %T", result)
	}
	name, _ := dict.Get("name")
	if name.(*object.String).Value != "demo" {
		t.Errorf("name = %s", name.Inspect())
	}
	count, _ := dict.Get("count")
	if count.(*object.Integer).Value != 3 {
		t.Errorf("count = %s", count.Inspect())
	}
	items, _ := dict.Get("items")
	if len(items.(*object.List).Elements) != 2 {
		t.Errorf("items = %s", items.Inspect())
	}
}

func TestYamlDumpRoundTrip(t *testing.T) {
	mod, err := stdlib.NewYamlModule()
	if err != nil {
		t.Fatal(err)
	}
	dict := object.NewDict()
	dict.Set("n", num(7))

	text := call(t, mod, "dump", dict)
	back := call(t, mod, "parse", text)
	n, _ := back.(*object.Dict).Get("n")
	if n.(*object.Integer).Value != 7 {
		t.Errorf("round trip n = %s", n.Inspect())
	}
}

func TestYamlParseInvalid(t *testing.T) {
	mod, _ := stdlib.NewYamlModule()
	err := callErr(t, mod, "parse", str("a: [unclosed"))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "ValueError" {
		t.Errorf("expected ValueError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// _sqlite
// ---------------------------------------------------------------------------

func TestSqliteRoundTrip(t *testing.T) {
	mod, err := stdlib.NewSqliteModule()
	if err != nil {
		t.Fatal(err)
	}

	conn := call(t, mod, "connect", str(":memory:"))
	call(t, mod, "execute", conn, str("CREATE TABLE kv (k TEXT, v TEXT)"))
	affected := call(t, mod, "execute", conn, str("INSERT INTO kv VALUES ('a', '1'), ('b', '2')"))
	if affected.(*object.Integer).Value != 2 {
		t.Errorf("affected = %s", affected.Inspect())
	}

	rows := call(t, mod, "query", conn, str("SELECT k, v FROM kv ORDER BY k"))
	list := rows.(*object.List)
	if len(list.Elements) != 2 {
		t.Fatalf("rows = %s", rows.Inspect())
	}
	first := list.Elements[0].(*object.List)
	if first.Elements[0].(*object.String).Value != "a" {
		t.Errorf("first row = %s", first.Inspect())
	}

	call(t, mod, "close", conn)
}

func TestSqliteBadQuery(t *testing.T) {
	mod, _ := stdlib.NewSqliteModule()
	conn := call(t, mod, "connect", str(":memory:"))
	err := callErr(t, mod, "query", conn, str("SELECT nope FROM nothing"))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "OperationalError" {
		t.Errorf("expected OperationalError, got %v", err)
	}
	call(t, mod, "close", conn)
}

func TestSqliteTypeChecks(t *testing.T) {
	mod, _ := stdlib.NewSqliteModule()
	err := callErr(t, mod, "execute", str("not a conn"), str("SELECT 1"))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "TypeError" {
		t.Errorf("expected TypeError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// time
// ---------------------------------------------------------------------------

func TestTimeModule(t *testing.T) {
	mod, err := stdlib.NewTimeModule()
	if err != nil {
		t.Fatal(err)
	}
	now := call(t, mod, "time")
	if now.(*object.Integer).Value <= 0 {
		t.Errorf("time = %s", now.Inspect())
	}

	err = callErr(t, mod, "sleep", num(-1))
	rerr, ok := err.(*pyerr.RuntimeError)
	if !ok || rerr.Type != "ValueError" {
		t.Errorf("expected ValueError, got %v", err)
	}
}
