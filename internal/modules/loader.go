package modules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pylite-lang/pylite/internal/compile"
	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/scope"
)

// Executor is the execution-engine boundary the loader needs: run a
// compiled unit against a scope.
type Executor interface {
	Execute(unit *compile.Unit, sc *scope.Scope) (object.Object, error)
}

// Loader resolves module names to sources and loads them into the
// registry. It is single-threaded by design: every load runs to
// completion before returning, and the registry carries no lock. Callers
// that want concurrent imports must add per-name mutual exclusion on top
// without reordering the publish-before-execute steps.
type Loader struct {
	reg      *Registry
	compiler compile.Service
	exec     Executor
	log      *log.Logger

	// Builtins is the enclosing scope for every module body (print, len,
	// ...). Set once by the runtime before any load.
	Builtins *scope.Scope

	// filesystem imports stay disabled until the bootstrap sequence calls
	// EnableExternalImports.
	externalEnabled bool
}

func NewLoader(reg *Registry, compiler compile.Service, exec Executor) *Loader {
	return &Loader{
		reg:      reg,
		compiler: compiler,
		exec:     exec,
		log:      log.Default(),
	}
}

// SetLogger replaces the loader's logger.
func (l *Loader) SetLogger(logger *log.Logger) {
	l.log = logger
}

// EnableExternalImports turns on filesystem resolution (step 4). Called by
// _imp.install_external during bootstrap.
func (l *Loader) EnableExternalImports() {
	l.externalEnabled = true
}

// ImportModule resolves and loads name, consulting in order: the cache,
// the frozen table, the builtin factory table, then the filesystem with
// currentPath prepended to the search path. The first source that matches
// wins.
//
// A cache hit returns the cached module even when its body has not
// finished executing — that is what breaks import cycles.
func (l *Loader) ImportModule(currentPath, name string) (*object.Module, error) {
	if mod, ok := l.reg.Lookup(name); ok {
		return mod, nil
	}
	if _, ok := l.reg.FrozenSource(name); ok {
		return l.ImportFrozen(name)
	}
	if l.reg.HasBuiltin(name) {
		return l.ImportBuiltin(name)
	}
	if !l.externalEnabled {
		return nil, &pyerr.ModuleNotFoundError{Name: name}
	}

	filePath, err := l.findSource(currentPath, name)
	if err != nil {
		return nil, err
	}
	l.log.Debug("resolved module source", "module", name, "path", filePath)
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &pyerr.ImportError{Msg: "cannot read module " + name, Err: err}
	}
	return l.ImportFile(name, filePath, string(source))
}

// ImportFrozen loads a module from the frozen source table under a
// synthetic "frozen <name>" label.
func (l *Loader) ImportFrozen(name string) (*object.Module, error) {
	source, ok := l.reg.FrozenSource(name)
	if !ok {
		return nil, &pyerr.ImportError{Msg: "cannot import frozen module " + name}
	}
	return l.ImportFile(name, config.FrozenLabelPrefix+name, source)
}

// ImportBuiltin constructs a native module from its factory and registers
// it. No compilation or body execution is involved.
func (l *Loader) ImportBuiltin(name string) (*object.Module, error) {
	factory, ok := l.reg.builtinFactory(name)
	if !ok {
		return nil, &pyerr.ImportError{Msg: "cannot import builtin module " + name}
	}
	mod, err := factory()
	if err != nil {
		return nil, &pyerr.ImportError{Msg: "builtin module " + name + " failed to initialize", Err: err}
	}
	l.reg.Register(name, mod)
	return mod, nil
}

// ImportFile compiles source and executes it as module name.
//
// The fresh module is registered BEFORE its body runs. Mutually importing
// modules then observe each other's partially populated namespaces
// instead of recursing forever; do not reorder these steps. If the body
// raises, the partially initialized module stays registered — a later
// import of the same name returns it as-is, with no retry.
func (l *Loader) ImportFile(name, filePath, source string) (*object.Module, error) {
	unit, err := l.compiler.Compile(source, compile.Exec, filePath)
	if err != nil {
		return nil, err
	}

	mod := object.NewModule(name)
	mod.SetAttr(config.NameAttr, &object.String{Value: name})
	if !strings.HasPrefix(filePath, config.FrozenLabelPrefix) {
		mod.File = filePath
		mod.SetAttr(config.FileAttr, &object.String{Value: filePath})
	}
	l.reg.Register(name, mod)

	sc := scope.NewOver(mod.Attrs, l.Builtins)
	if _, err := l.exec.Execute(unit, sc); err != nil {
		return nil, err
	}
	return mod, nil
}

// findSource walks [currentPath] + search path, trying "<name>.py" before
// "<name>/__init__.py" within each directory, with every '.' in the
// dotted name mapped to a path separator.
func (l *Loader) findSource(currentPath, name string) (string, error) {
	dirs := append([]string{currentPath}, l.reg.SearchPath()...)
	rel := strings.ReplaceAll(name, ".", string(os.PathSeparator))

	for _, dir := range dirs {
		candidates := []string{
			filepath.Join(dir, rel+config.SourceFileExt),
			filepath.Join(dir, rel, config.PackageEntryFile),
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", &pyerr.ModuleNotFoundError{Name: name}
}
