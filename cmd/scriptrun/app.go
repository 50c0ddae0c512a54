package main

import (
	"fmt"
	"strings"

	"github.com/caffeineduck/scriptrun"
	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/internal/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app is everything one CLI invocation needs.
type app struct {
	cfg *config.Config
	rt  *scriptrun.Runtime
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, resolved, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}
	return cfg, resolved, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dirs, err := cfg.Dirs()
	if err != nil {
		return nil, fmt.Errorf("search directories: %w", err)
	}

	logger := executor.NewLogger(cmd.ErrOrStderr())
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	rt, err := scriptrun.New(scriptrun.Options{
		Dirs:        dirs,
		MaxNested:   cfg.Scripts.MaxNested,
		MaxCmdDepth: cfg.CmdScript.MaxDepth,
		Python: scriptrun.PythonOptions{
			Module:           cfg.Python.Module,
			Encoding:         cfg.Python.Encoding,
			MemoryLimitPages: cfg.Python.MemoryLimitPages,
			DiskCache:        cfg.Python.DiskCache,
			CacheDir:         cfg.Python.CacheDir,
		},
		Logger: logger,
		Output: cmd.OutOrStdout(),
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, rt: rt}, nil
}

func (a *app) close() {
	a.rt.Close()
}

// joinArgs rebuilds a run line from CLI arguments.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
