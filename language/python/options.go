// Package python runs .py scripts in a WASI build of the Python interpreter
// hosted by wazero. Each run compiles and instantiates the interpreter in a
// fresh runtime that is closed before Run returns.
//
// The script's directory is mounted read-only at /main, each existing search
// directory at /scripts/<class> and the scriptrun helper module at /lib.
// Host functions are reached through the helper module, which talks to the
// host over the guest's stderr and stdin.
package python

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/hostfunc"
)

var (
	// ErrBusy is reported when a Python script tries to start another one.
	ErrBusy = errors.New("python runtime already active")
	// ErrDecode is returned when the name or an argument cannot be decoded
	// from the host encoding.
	ErrDecode = errors.New("cannot decode")
	// ErrNoModule is reported when no interpreter module is configured.
	ErrNoModule = errors.New("python module not configured")
)

// DefaultEncoding is the host text encoding assumed for names and arguments.
const DefaultEncoding = "utf-8"

// DefaultCacheDir is where compiled interpreters are cached when no
// directory is configured.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "scriptrun")
	}
	return filepath.Join(os.TempDir(), "scriptrun-cache")
}

// Engine is the Python lifecycle manager.
type Engine struct {
	registry         *hostfunc.Registry
	modulePath       string
	encoding         string
	memoryLimitPages uint32
	diskCache        bool
	cacheDir         string
	active           bool
}

// Option configures an Engine.
type Option func(*Engine)

// New returns a Python engine.
func New(opts ...Option) *Engine {
	e := &Engine{encoding: DefaultEncoding}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = hostfunc.NewRegistry()
	}
	return e
}

// Kind returns executor.KindPython.
func (e *Engine) Kind() executor.Kind {
	return executor.KindPython
}

// WithRegistry exposes the host functions in r to scripts.
func WithRegistry(r *hostfunc.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithModule sets the path of the WASI Python interpreter.
func WithModule(path string) Option {
	return func(e *Engine) {
		e.modulePath = path
	}
}

// WithEncoding sets the IANA name of the host text encoding.
func WithEncoding(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.encoding = name
		}
	}
}

// WithMemoryLimitPages caps guest memory in 64KiB pages. Zero leaves the
// runtime default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(e *Engine) {
		e.memoryLimitPages = pages
	}
}

// WithDiskCache keeps compiled interpreter code in dir across runs. An empty
// dir uses the user cache directory.
func WithDiskCache(dir string) Option {
	return func(e *Engine) {
		e.diskCache = true
		e.cacheDir = dir
	}
}
