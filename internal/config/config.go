// Package config loads scriptrun settings from defaults, an optional TOML
// file and SCRIPTRUN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caffeineduck/scriptrun/cmdsource"
	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/language/python"
	"github.com/caffeineduck/scriptrun/scriptpath"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the user script directory.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. SCRIPTRUN_LOG_LEVEL.
	EnvPrefix = "SCRIPTRUN"
)

// Config is the effective configuration.
type Config struct {
	Scripts   ScriptsConfig   `mapstructure:"scripts" toml:"scripts"`
	CmdScript CmdScriptConfig `mapstructure:"cmdscript" toml:"cmdscript"`
	Python    PythonConfig    `mapstructure:"python" toml:"python"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
}

// ScriptsConfig overrides the search roots. Empty roots are derived from the
// executable location and the home directory.
type ScriptsConfig struct {
	ExecDir   string `mapstructure:"exec_dir" toml:"exec_dir"`
	UserDir   string `mapstructure:"user_dir" toml:"user_dir"`
	ShareDir  string `mapstructure:"share_dir" toml:"share_dir"`
	MaxNested int    `mapstructure:"max_nested" toml:"max_nested"`
}

type CmdScriptConfig struct {
	MaxDepth int `mapstructure:"max_depth" toml:"max_depth"`
}

type PythonConfig struct {
	Module           string `mapstructure:"module" toml:"module"`
	Encoding         string `mapstructure:"encoding" toml:"encoding"`
	MemoryLimitPages uint32 `mapstructure:"memory_limit_pages" toml:"memory_limit_pages"`
	DiskCache        bool   `mapstructure:"disk_cache" toml:"disk_cache"`
	CacheDir         string `mapstructure:"cache_dir" toml:"cache_dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scripts:   ScriptsConfig{MaxNested: executor.DefaultMaxNested},
		CmdScript: CmdScriptConfig{MaxDepth: cmdsource.DefaultMaxDepth},
		Python:    PythonConfig{Encoding: "utf-8", DiskCache: true},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads the configuration. A non-empty path must name an existing file;
// otherwise config.toml in the user script directory is used when present.
// The second result is the file that was read, or "".
func Load(path string) (*Config, string, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("scripts.exec_dir", d.Scripts.ExecDir)
	v.SetDefault("scripts.user_dir", d.Scripts.UserDir)
	v.SetDefault("scripts.share_dir", d.Scripts.ShareDir)
	v.SetDefault("scripts.max_nested", d.Scripts.MaxNested)
	v.SetDefault("cmdscript.max_depth", d.CmdScript.MaxDepth)
	v.SetDefault("python.module", d.Python.Module)
	v.SetDefault("python.encoding", d.Python.Encoding)
	v.SetDefault("python.memory_limit_pages", d.Python.MemoryLimitPages)
	v.SetDefault("python.disk_cache", d.Python.DiskCache)
	v.SetDefault("python.cache_dir", d.Python.CacheDir)
	v.SetDefault("log.level", d.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := ""
	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, "", fmt.Errorf("config file not found: %w", err)
		}
		resolved = path
	default:
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, scriptpath.UserDirName, FileName)
			if _, err := os.Stat(candidate); err == nil {
				resolved = candidate
			}
		}
	}

	if resolved != "" {
		v.SetConfigFile(resolved)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Scripts.MaxNested < 1 {
		errs = append(errs, fmt.Errorf("scripts.max_nested must be at least 1, got %d", c.Scripts.MaxNested))
	}
	if c.CmdScript.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("cmdscript.max_depth must be at least 1, got %d", c.CmdScript.MaxDepth))
	}
	if c.Python.Encoding != "" {
		if _, err := python.LookupEncoding(c.Python.Encoding); err != nil {
			errs = append(errs, fmt.Errorf("python.encoding: %w", err))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Dirs returns the search roots, filling unset ones from
// scriptpath.DefaultDirs.
func (c *Config) Dirs() (scriptpath.Dirs, error) {
	dirs := scriptpath.Dirs{
		Exec:  c.Scripts.ExecDir,
		User:  c.Scripts.UserDir,
		Share: c.Scripts.ShareDir,
	}
	if dirs.Exec != "" && dirs.User != "" && dirs.Share != "" {
		return dirs, nil
	}

	defaults, err := scriptpath.DefaultDirs()
	if err != nil {
		return dirs, err
	}
	if dirs.Exec == "" {
		dirs.Exec = defaults.Exec
	}
	if dirs.User == "" {
		dirs.User = defaults.User
	}
	if dirs.Share == "" {
		dirs.Share = defaults.Share
	}
	return dirs, nil
}

// Show writes c as TOML.
func (c *Config) Show(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
