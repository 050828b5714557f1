package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pylite-lang/pylite/internal/config"
	"github.com/pylite-lang/pylite/internal/repl"
	"github.com/pylite-lang/pylite/internal/runtime"
)

var (
	flagCommand string
	flagModule  string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:     "pylite [script] [args...]",
	Short:   "A small Python-flavored interpreter",
	Version: config.Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    run,

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagCommand, "command", "c", "", "run the given string as a program")
	rootCmd.Flags().StringVarP(&flagModule, "module", "m", "", "run a library module as a script")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().SetInterspersed(false)
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	if flagDebug || os.Getenv("PYLITE_DEBUG") == "1" {
		logger.SetLevel(log.DebugLevel)
	}

	rt := runtime.New(
		runtime.WithLogger(logger),
		runtime.WithArgv(args),
	)
	if err := rt.InitImportlib(); err != nil {
		// A broken import system is fatal to startup.
		return fmt.Errorf("import system initialization failed: %w", err)
	}

	switch {
	case flagCommand != "":
		return rt.RunCommand(flagCommand)
	case flagModule != "":
		return rt.RunModule(flagModule)
	case len(args) > 0:
		return rt.RunScript(args[0])
	case isatty.IsTerminal(os.Stdin.Fd()):
		return repl.NewSession(rt).Run()
	default:
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return rt.RunString(string(source), "<stdin>")
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("PYLITE_DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
