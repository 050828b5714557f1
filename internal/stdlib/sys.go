package stdlib

import (
	"runtime"

	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/modules"
	"github.com/pylite-lang/pylite/internal/object"
)

// NewSysModule builds the sys module over the given registry. sys.path
// and sys.modules are the registry's own live objects: mutating sys.path
// from a script changes what the loader searches.
func NewSysModule(reg *modules.Registry, argv []string) *object.Module {
	mod := object.NewModule(config.SysModuleName)
	mod.SetAttr(config.NameAttr, &object.String{Value: config.SysModuleName})

	argvList := &object.List{}
	for _, arg := range argv {
		argvList.Elements = append(argvList.Elements, &object.String{Value: arg})
	}

	mod.SetAttr("path", reg.PathList())
	mod.SetAttr("modules", reg.Modules())
	mod.SetAttr("argv", argvList)
	mod.SetAttr("platform", &object.String{Value: runtime.GOOS})
	mod.SetAttr("version", &object.String{Value: config.Version})
	mod.SetAttr("ps1", &object.String{Value: config.DefaultPS1})
	mod.SetAttr("ps2", &object.String{Value: config.DefaultPS2})
	return mod
}
