package main

import (
	"fmt"
	"path/filepath"

	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/internal/download"
	"github.com/caffeineduck/scriptrun/language/python"
	"github.com/spf13/cobra"
)

func newPythonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "python",
		Short: "Manage the Python interpreter module",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "fetch <url> [output]",
		Short: "Download a WASI Python build",
		Long: `Download a WASI build of the Python interpreter. The output defaults to
python.wasm in the scriptrun cache directory. An existing output is kept.

Point python.module (or SCRIPTRUN_PYTHON_MODULE) at the printed path.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPythonFetch,
	})
	return cmd
}

func runPythonFetch(cmd *cobra.Command, args []string) error {
	if !executor.PythonEnabled {
		return fmt.Errorf("python support not compiled in")
	}

	output := filepath.Join(python.DefaultCacheDir(), "python.wasm")
	if len(args) == 2 {
		output = args[1]
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	fetched, err := download.Fetch(cmd.Context(), args[0], abs)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", args[0], err)
	}
	if !fetched {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists\n", abs)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "python.module = %q\n", abs)
	return nil
}
