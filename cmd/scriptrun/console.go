package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caffeineduck/scriptrun/scriptpath"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newConsoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive console",
		Long: `Start an interactive console reading commands such as
"script list" and "script run <name>".

Features:
  - Command history (up/down arrows)
  - Line editing (left/right, backspace, delete)
  - History search (Ctrl+R)

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
		Args: cobra.NoArgs,
		RunE: runConsole,
	}
	cmd.Flags().StringP("script", "s", "", "Command file to play at startup, then exit")
	cmd.Flags().BoolP("interactive", "i", false, "Stay in the console after the startup file")
	cmd.Flags().String("history", "", "History file path (default: ~/.scriptrun/history)")
	return cmd
}

func runConsole(cmd *cobra.Command, args []string) error {
	startup, _ := cmd.Flags().GetString("script")
	interactive, _ := cmd.Flags().GetBool("interactive")
	historyFile, _ := cmd.Flags().GetString("history")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()

	if startup != "" {
		if err := a.rt.Stack.Push(startup, interactive); err != nil {
			return err
		}
		a.rt.Console.Drain(ctx)
		if a.rt.Console.Done() {
			return nil
		}
	}

	if historyFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			historyFile = filepath.Join(home, scriptpath.UserDirName, "history")
			os.MkdirAll(filepath.Dir(historyFile), 0755)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "[scriptrun] > ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
		Stdin:             io.NopCloser(cmd.InOrStdin()),
		Stdout:            cmd.OutOrStdout(),
		Stderr:            cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	for !a.rt.Console.Done() {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}

		a.rt.Console.Execute(ctx, line)
		a.rt.Console.Drain(ctx)
	}
	return nil
}
