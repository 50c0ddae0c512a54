package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/caffeineduck/scriptrun/executor"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scriptrun",
		Short: "Run Lua, Python and command scripts",
		Long: `scriptrun - find and run scripts by name.

The engine is chosen by extension: .cmd files are played as console
commands, .py files run in a WASI Python interpreter and everything else
runs as Lua. Scripts are searched next to the executable, in ~/.scriptrun
and in the shared data directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().String("config", "", "Config file (default: ~/.scriptrun/config.toml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.SetHelpCommand(newHelpCmd())
	root.AddCommand(
		newListCmd(),
		newRunCmd(),
		newConsoleCmd(),
		newConfigCmd(),
		newPythonCmd(),
	)
	return root
}

// statusError carries a non-success status out of a command.
type statusError struct {
	status executor.Status
}

func (e statusError) Error() string {
	return fmt.Sprintf("exit status %d (%s)", int(e.status), e.status)
}

func statusErr(s executor.Status) error {
	if s.OK() {
		return nil
	}
	return statusError{status: s}
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		var se statusError
		if !errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
