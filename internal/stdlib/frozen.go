package stdlib

import (
	_ "embed"

	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/modules"
)

//go:embed frozen/_frozen_importlib.py
var frozenImportlibSource string

// RegisterFrozen fills the registry's frozen source table with the
// sources embedded at build time.
func RegisterFrozen(reg *modules.Registry) {
	reg.RegisterFrozen(config.FrozenImportlibName, frozenImportlibSource)
}

// RegisterBuiltins fills the registry's builtin factory table with the
// native modules that need no runtime wiring. sys and _imp are registered
// by the runtime itself.
func RegisterBuiltins(reg *modules.Registry) {
	reg.RegisterBuiltin("uuid", NewUUIDModule)
	reg.RegisterBuiltin("yaml", NewYamlModule)
	reg.RegisterBuiltin("_sqlite", NewSqliteModule)
	reg.RegisterBuiltin("time", NewTimeModule)
}
