package config

const SourceFileExt = ".py"

// PackageEntryFile is the file consulted when a module name resolves to a
// directory instead of a plain source file.
const PackageEntryFile = "__init__" + SourceFileExt

// ScriptEntryFile is the file executed when a directory is passed as the
// script argument.
const ScriptEntryFile = "__main__" + SourceFileExt

// FrozenLabelPrefix marks the synthetic source label of modules whose text
// is embedded in the binary. Modules labeled this way expose no __file__.
const FrozenLabelPrefix = "frozen "

// Bootstrap module names, fixed by convention.
const (
	FrozenImportlibName = "_frozen_importlib"
	ImpModuleName       = "_imp"
	SysModuleName       = "sys"
)

// Well-known namespace attribute names.
const (
	NameAttr = "__name__"
	FileAttr = "__file__"
	MainName = "__main__"
)

// Interactive session defaults. ps1/ps2 are read from the sys module each
// prompt; these are the fallbacks when a script has unset them.
const (
	DefaultPS1 = ">>> "
	DefaultPS2 = "... "
)

// HistoryDirName/HistoryFileName locate the REPL history file under the
// user cache directory.
const (
	HistoryDirName  = "pylite"
	HistoryFileName = "repl_history.txt"
)

// Version reported by the shell banner and sys.version.
const Version = "0.3.1"
