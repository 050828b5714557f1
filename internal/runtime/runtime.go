// Package runtime owns a single interpreter instance: the module
// registry, the loader, the compiler/engine services and the active
// import hook. One Runtime equals one isolated module cache; nothing here
// is process-global.
//
// A Runtime is single-threaded: resolve, load, compile and execute all
// run to completion on the caller's goroutine, and no locking guards the
// registry or the import hook.
package runtime

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pylite-lang/pylite/internal/compile"
	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/engine"
	"github.com/pylite-lang/pylite/internal/modules"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
	"github.com/pylite-lang/pylite/internal/scope"
	"github.com/pylite-lang/pylite/internal/stdlib"
)

// ImportHook is the callable all running code imports through. The native
// variant goes straight to the loader; the hosted variant invokes the
// __import__ captured from the frozen importlib module at bootstrap.
type ImportHook interface {
	Import(currentPath, name string) (object.Object, error)
}

type Runtime struct {
	Registry *modules.Registry
	Loader   *modules.Loader
	Compiler compile.Service
	Engine   *engine.Engine

	importHook ImportHook
	sys        *object.Module
	builtins   *scope.Scope
	log        *log.Logger
	argv       []string

	Stdout io.Writer
	Stderr io.Writer
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) { rt.Stdout = w }
}

// WithLogger replaces the runtime's logger.
func WithLogger(logger *log.Logger) Option {
	return func(rt *Runtime) { rt.log = logger }
}

// WithArgv sets sys.argv; defaults to os.Args[1:].
func WithArgv(argv []string) Option {
	return func(rt *Runtime) { rt.argv = argv }
}

// New builds a runtime with an empty module cache, the embedded frozen
// sources, the native module factories and a native import hook. Call
// InitImportlib before importing anything.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		log:    log.Default(),
		argv:   os.Args[1:],
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.Registry = modules.NewRegistry()
	rt.Compiler = compile.NewCompiler()
	rt.Engine = engine.New()
	rt.Engine.Hook = rt
	rt.Loader = modules.NewLoader(rt.Registry, rt.Compiler, rt.Engine)
	rt.Loader.SetLogger(rt.log)
	rt.importHook = &nativeImport{rt: rt}

	builtinDict := object.NewDict()
	for name, fn := range stdlib.Prelude(rt.Stdout) {
		builtinDict.Set(name, fn)
	}
	rt.builtins = scope.New(builtinDict)
	rt.Loader.Builtins = rt.builtins

	stdlib.RegisterFrozen(rt.Registry)
	stdlib.RegisterBuiltins(rt.Registry)
	rt.Registry.RegisterBuiltin(config.ImpModuleName, rt.newImpModule)

	// sys exists before bootstrap; the bootstrap passes it to _install.
	rt.sys = stdlib.NewSysModule(rt.Registry, rt.argv)
	rt.Registry.Register(config.SysModuleName, rt.sys)

	return rt
}

// InitImportlib runs the one-shot bootstrap sequence, in this exact
// order: load the frozen importlib, load the builtin _imp, invoke
// _install(sys, _imp), capture __import__ as the active import hook, then
// invoke _install_external_importers to enable filesystem imports. Any
// failure is fatal to startup; callers must not retry.
func (rt *Runtime) InitImportlib() error {
	importlib, err := rt.Loader.ImportFrozen(config.FrozenImportlibName)
	if err != nil {
		return err
	}
	impmod, err := rt.Loader.ImportBuiltin(config.ImpModuleName)
	if err != nil {
		return err
	}

	install, ok := importlib.Attr("_install")
	if !ok {
		return &pyerr.ImportError{Msg: "frozen importlib has no _install"}
	}
	if _, err := rt.Engine.Call(install, []object.Object{rt.sys, impmod}); err != nil {
		return err
	}

	hook, ok := importlib.Attr("__import__")
	if !ok {
		return &pyerr.ImportError{Msg: "frozen importlib has no __import__"}
	}
	rt.importHook = &hostedImport{rt: rt, fn: hook}

	installExternal, ok := importlib.Attr("_install_external_importers")
	if !ok {
		return &pyerr.ImportError{Msg: "frozen importlib has no _install_external_importers"}
	}
	if _, err := rt.Engine.Call(installExternal, nil); err != nil {
		return err
	}
	rt.log.Debug("import system initialized")
	return nil
}

// Import satisfies engine.ImportHook by delegating to the active hook.
func (rt *Runtime) Import(currentPath, name string) (object.Object, error) {
	return rt.importHook.Import(currentPath, name)
}

// Sys returns the runtime's sys module.
func (rt *Runtime) Sys() *object.Module {
	return rt.sys
}

// NewScopeWithBuiltins returns a fresh flat scope chained to the builtin
// scope, suitable as an interactive session's persistent namespace.
func (rt *Runtime) NewScopeWithBuiltins() *scope.Scope {
	return scope.NewOver(object.NewDict(), rt.builtins)
}

// Prompt reads sys.<name> (ps1 or ps2) as the prompt string; non-string
// or missing values fall back to the defaults.
func (rt *Runtime) Prompt(name string) string {
	if attr, ok := rt.sys.Attr(name); ok {
		if s, ok := attr.(*object.String); ok {
			return s.Value
		}
	}
	if name == "ps2" {
		return config.DefaultPS2
	}
	return config.DefaultPS1
}

// RunString compiles and executes source in Exec mode against a fresh
// scope whose namespace carries __file__ = label.
func (rt *Runtime) RunString(source, label string) error {
	unit, err := rt.Compiler.Compile(source, compile.Exec, label)
	if err != nil {
		return err
	}
	attrs := object.NewDict()
	attrs.Set(config.FileAttr, &object.String{Value: label})
	sc := scope.NewOver(attrs, rt.builtins)
	_, err = rt.Engine.Execute(unit, sc)
	return err
}

// RunCommand runs a -c program string. The trailing newline keeps a
// final suite-less statement parseable.
func (rt *Runtime) RunCommand(source string) error {
	rt.log.Debug("running command", "source", source)
	return rt.RunString(source+"\n", "<stdin>")
}

// RunModule imports a library module through the active import hook, as
// the -m flag does.
func (rt *Runtime) RunModule(name string) error {
	rt.log.Debug("running module", "module", name)
	_, err := rt.importHook.Import(".", name)
	return err
}

// RunScript executes a script file or a directory containing __main__.py.
// The script's directory is prepended to sys.path first, so the script's
// own imports resolve next to it.
func (rt *Runtime) RunScript(path string) error {
	rt.log.Debug("running file", "path", path)
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return &pyerr.ImportError{Msg: "can't open file '" + path + "'", Err: err}
	case info.IsDir():
		main := filepath.Join(path, config.ScriptEntryFile)
		if _, err := os.Stat(main); err != nil {
			return &pyerr.ImportError{Msg: "can't find '" + config.MainName + "' module in '" + path + "'"}
		}
		path = main
	}

	rt.Registry.PrependPath(filepath.Dir(path))

	source, err := os.ReadFile(path)
	if err != nil {
		return &pyerr.ImportError{Msg: "failed reading file '" + path + "'", Err: err}
	}
	return rt.RunString(string(source), path)
}
