package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <name> [arguments...]",
		Short: "Run a script",
		Long: `Run a script by name.

Everything after the name is passed to the script verbatim, flags
included. Command files (.cmd) are played to the end before scriptrun
exits.

Examples:
  scriptrun run hello
  scriptrun run dump.py -v --keys default
  scriptrun run setup.cmd`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return statusErr(a.rt.Run(cmd.Context(), joinArgs(args)))
}
