package runtime_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/runtime"
)

// newRuntime builds a fully bootstrapped runtime printing into buf.
func newRuntime(t *testing.T, buf *bytes.Buffer) *runtime.Runtime {
	t.Helper()
	rt := runtime.New(runtime.WithStdout(buf), runtime.WithArgv(nil))
	if err := rt.InitImportlib(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return rt
}

// writeFile drops source under dir at the given relative path.
func writeFile(t *testing.T, dir, rel, source string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestBootstrapRegistersCoreModules(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	for _, name := range []string{config.FrozenImportlibName, config.ImpModuleName, config.SysModuleName} {
		if _, ok := rt.Registry.Lookup(name); !ok {
			t.Errorf("module %q not registered after bootstrap", name)
		}
	}
}

func TestBootstrapEnablesExternalImports(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	dir := t.TempDir()
	writeFile(t, dir, "m.py", "x = 1\n")

	mod, err := rt.Import(dir, "m")
	if err != nil {
		t.Fatalf("filesystem import after bootstrap failed: %v", err)
	}
	if mod.(*object.Module).Name != "m" {
		t.Errorf("unexpected module %v", mod)
	}
}

func TestExternalImportsOffBeforeBootstrap(t *testing.T) {
	rt := runtime.New(runtime.WithArgv(nil))
	dir := t.TempDir()
	writeFile(t, dir, "m.py", "x = 1\n")

	_, err := rt.Import(dir, "m")
	var merr *pyerr.ModuleNotFoundError
	if !errors.As(err, &merr) {
		t.Fatalf("expected not-found before bootstrap, got %T: %v", err, err)
	}
}

func TestSysExposesLiveModulesAndPath(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	sys := rt.Sys()

	mods, ok := sys.Attr("modules")
	if !ok {
		t.Fatal("sys.modules missing")
	}
	if mods.(*object.Dict) != rt.Registry.Modules() {
		t.Error("sys.modules is not the registry's live dict")
	}

	path, ok := sys.Attr("path")
	if !ok {
		t.Fatal("sys.path missing")
	}
	if path.(*object.List) != rt.Registry.PathList() {
		t.Error("sys.path is not the registry's live list")
	}
}

func TestPromptFallsBackOnNonString(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	if got := rt.Prompt("ps1"); got != config.DefaultPS1 {
		t.Errorf("ps1 = %q", got)
	}
	rt.Sys().SetAttr("ps1", &object.Integer{Value: 3})
	if got := rt.Prompt("ps1"); got != config.DefaultPS1 {
		t.Errorf("ps1 after non-string assignment = %q", got)
	}
	rt.Sys().SetAttr("ps2", &object.String{Value: ".. "})
	if got := rt.Prompt("ps2"); got != ".. " {
		t.Errorf("ps2 = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

func TestRunCommand(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	if err := rt.RunCommand("print(6 * 7)"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunModule(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	dir := t.TempDir()
	writeFile(t, dir, "tool.py", "print('tool ran')\n")
	rt.Registry.AppendPath(dir)

	if err := rt.RunModule("tool"); err != nil {
		t.Fatalf("module run failed: %v", err)
	}
	if buf.String() != "tool ran\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunModuleNotFound(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	err := rt.RunModule("ghost")
	var merr *pyerr.ModuleNotFoundError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *pyerr.ModuleNotFoundError, got %T: %v", err, err)
	}
}

func TestRunScript(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	dir := t.TempDir()
	script := writeFile(t, dir, "app.py", "import helper\nprint(helper.msg)\n")
	writeFile(t, dir, "helper.py", "msg = 'from helper'\n")

	if err := rt.RunScript(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if buf.String() != "from helper\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunScriptPrependsDirToPath(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	dir := t.TempDir()
	script := writeFile(t, dir, "app.py", "pass\n")

	if err := rt.RunScript(script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	search := rt.Registry.SearchPath()
	if len(search) == 0 || search[0] != dir {
		t.Errorf("search path = %v, want %q first", search, dir)
	}
}

func TestRunScriptDirectory(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)
	dir := t.TempDir()
	writeFile(t, dir, "__main__.py", "print('main pkg')\n")

	if err := rt.RunScript(dir); err != nil {
		t.Fatalf("directory run failed: %v", err)
	}
	if buf.String() != "main pkg\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRunScriptDirectoryWithoutMain(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	err := rt.RunScript(t.TempDir())
	var ierr *pyerr.ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *pyerr.ImportError, got %T: %v", err, err)
	}
}

func TestRunScriptMissingFile(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	err := rt.RunScript(filepath.Join(t.TempDir(), "nope.py"))
	var ierr *pyerr.ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *pyerr.ImportError, got %T: %v", err, err)
	}
}

// ---------------------------------------------------------------------------
// Isolation
// ---------------------------------------------------------------------------

func TestRuntimesAreIsolated(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	rt1 := newRuntime(t, &buf1)
	rt2 := newRuntime(t, &buf2)
	dir := t.TempDir()
	writeFile(t, dir, "m.py", "x = 1\n")

	if _, err := rt1.Import(dir, "m"); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, ok := rt1.Registry.Lookup("m"); !ok {
		t.Fatal("module missing from first runtime")
	}
	if _, ok := rt2.Registry.Lookup("m"); ok {
		t.Fatal("module leaked into second runtime's cache")
	}
}

func TestBuiltinModuleImport(t *testing.T) {
	var buf bytes.Buffer
	rt := newRuntime(t, &buf)

	if err := rt.RunCommand("import uuid\nprint(len(str(uuid.uuid4())))"); err != nil {
		t.Fatalf("uuid import failed: %v", err)
	}
	if buf.String() != "36\n" {
		t.Errorf("output = %q", buf.String())
	}
}
