package scriptrun

import (
	"context"
	"io"

	"github.com/caffeineduck/scriptrun/cmdsource"
	"github.com/caffeineduck/scriptrun/console"
	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/hostfunc"
	"github.com/caffeineduck/scriptrun/language/cmdscript"
	"github.com/caffeineduck/scriptrun/language/lua"
	"github.com/caffeineduck/scriptrun/language/python"
	"github.com/caffeineduck/scriptrun/scriptpath"
	"github.com/charmbracelet/log"
)

// Options assembles a Runtime. Zero values pick the defaults.
type Options struct {
	Dirs        scriptpath.Dirs
	MaxNested   int
	MaxCmdDepth int
	Python      PythonOptions
	Logger      *log.Logger
	Output      io.Writer
	// Registry receives the core and key-value functions. Functions already
	// in it stay visible to scripts.
	Registry *hostfunc.Registry
	KVStore  *hostfunc.KVStore
	// KeyHit backs core.ukbhit.
	KeyHit func() bool
}

type PythonOptions struct {
	Module           string
	Encoding         string
	MemoryLimitPages uint32
	DiskCache        bool
	CacheDir         string
}

// Runtime is a dispatcher wired to all engines and a console.
type Runtime struct {
	Exec     *executor.Executor
	Console  *console.Console
	Stack    *cmdsource.Stack
	Registry *hostfunc.Registry
}

// New builds a Runtime.
func New(opts Options) (*Runtime, error) {
	rt := &Runtime{
		Stack:    cmdsource.New(opts.MaxCmdDepth),
		Registry: opts.Registry,
	}
	if rt.Registry == nil {
		rt.Registry = hostfunc.NewRegistry()
	}

	kv := opts.KVStore
	if kv == nil {
		kv = hostfunc.NewKVStore()
	}
	kv.Register(rt.Registry)

	resolver := scriptpath.New(opts.Dirs)
	hostfunc.RegisterCore(rt.Registry, hostfunc.CoreConfig{
		Console: func(ctx context.Context, line string) int {
			return int(rt.Exec.Console(ctx, line))
		},
		SearchFile: func(name, ext string) (string, error) {
			kind := executor.Select(name + ext)
			return resolver.Resolve(kind.Subdir(), name, ext)
		},
		ClearCommands: func() {
			rt.Console.ClearCommands()
		},
		KeyHit: opts.KeyHit,
	})

	pyOpts := []python.Option{
		python.WithRegistry(rt.Registry),
		python.WithModule(opts.Python.Module),
		python.WithEncoding(opts.Python.Encoding),
		python.WithMemoryLimitPages(opts.Python.MemoryLimitPages),
	}
	if opts.Python.DiskCache {
		pyOpts = append(pyOpts, python.WithDiskCache(opts.Python.CacheDir))
	}

	exec, err := executor.New(resolver,
		executor.WithEngine(lua.New(lua.WithRegistry(rt.Registry))),
		executor.WithEngine(cmdscript.New(rt.Stack)),
		executor.WithEngine(python.New(pyOpts...)),
		executor.WithMaxNested(opts.MaxNested),
		executor.WithLogger(opts.Logger),
		executor.WithOutput(opts.Output),
	)
	if err != nil {
		rt.Stack.Close()
		return nil, err
	}
	rt.Exec = exec
	rt.Console = console.New(exec, rt.Stack)
	return rt, nil
}

// Run dispatches a run line and plays any command files it queued.
// The status is that of the run itself.
func (rt *Runtime) Run(ctx context.Context, line string) executor.Status {
	status := rt.Exec.Run(ctx, line)
	rt.Console.Drain(ctx)
	return status
}

// Execute runs a console line and plays any command files it queued.
func (rt *Runtime) Execute(ctx context.Context, line string) executor.Status {
	status := rt.Console.Execute(ctx, line)
	rt.Console.Drain(ctx)
	return status
}

// List writes the available scripts.
func (rt *Runtime) List(ctx context.Context) executor.Status {
	return rt.Exec.List(ctx)
}

// Close releases queued command files.
func (rt *Runtime) Close() error {
	return rt.Stack.Close()
}
