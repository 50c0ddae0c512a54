package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caffeineduck/scriptrun/scriptpath"
	"github.com/charmbracelet/log"
)

// Executor resolves script names and dispatches them to the registered
// engines. It is driven from a single console thread; nested runs re-enter it
// through the console callback.
type Executor struct {
	resolver *scriptpath.Resolver
	engines  map[Kind]Engine
	guard    *Guard
	logger   *log.Logger
	out      io.Writer
	console  func(ctx context.Context, line string) Status
}

// New creates an Executor searching scripts with resolver.
func New(resolver *scriptpath.Resolver, opts ...Option) (*Executor, error) {
	if resolver == nil {
		return nil, errors.New("resolver required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Executor{
		resolver: resolver,
		engines:  make(map[Kind]Engine, len(cfg.engines)),
		guard:    NewGuard(cfg.maxNested),
		logger:   cfg.logger,
		out:      cfg.out,
		console:  cfg.console,
	}

	for _, engine := range cfg.engines {
		if engine == nil {
			return nil, errors.New("engine cannot be nil")
		}
		kind := engine.Kind()
		if _, exists := e.engines[kind]; exists {
			return nil, fmt.Errorf("duplicate engine for %s scripts", kind)
		}
		e.engines[kind] = engine
	}

	return e, nil
}

// SetConsole installs the callback scripts use to issue console commands.
func (e *Executor) SetConsole(fn func(ctx context.Context, line string) Status) {
	e.console = fn
}

// Console runs one console command line on behalf of a script.
func (e *Executor) Console(ctx context.Context, line string) Status {
	if e.console == nil {
		e.logger.Warn("no console attached, ignoring command", "line", line)
		return StatusSoft
	}
	return e.console(ctx, line)
}

// Run parses a run line ("<name> [arguments...]") and dispatches it.
func (e *Executor) Run(ctx context.Context, line string) Status {
	return e.RunRequest(ctx, ParseRequest(line))
}

// RunRequest selects the engine for req, resolves its file and hands it to
// the engine.
func (e *Executor) RunRequest(ctx context.Context, req Request) Status {
	kind := Select(req.Name)

	engine, ok := e.engines[kind]
	if !ok {
		e.logger.Error("no engine available", "kind", kind)
		return StatusSoft
	}

	script, err := e.Resolve(kind, req.Name)
	if err != nil {
		return e.reportResolveError(err)
	}

	e.logger.Debug("dispatching", "kind", kind, "path", script.Path, "depth", e.guard.Depth())

	return engine.Run(ctx, &Invocation{
		Name:   req.Name,
		Args:   req.Args,
		Script: script,
		Host:   e,
	})
}

// Resolve locates the file for a script of the given kind.
func (e *Executor) Resolve(kind Kind, name string) (Script, error) {
	path, err := e.resolver.Resolve(kind.Subdir(), name, kind.Extension())
	if err != nil {
		return Script{}, err
	}
	return Script{Path: path, Kind: kind}, nil
}

func (e *Executor) reportResolveError(err error) Status {
	var nf *scriptpath.NotFoundError
	switch {
	case errors.Is(err, scriptpath.ErrEmptyName):
		e.logger.Error("please specify a script name", "usage", "script run <name> [arguments...]")
		return StatusUndefined
	case errors.As(err, &nf):
		e.logger.Error("file not found", "name", Highlight(nf.Name), "searched", strings.Join(nf.Searched, ", "))
		return StatusUndefined
	default:
		e.logger.Error("cannot resolve script", "err", err)
		return StatusSoft
	}
}

// List writes the available scripts of every kind, grouped by search
// directory and sorted by name.
func (e *Executor) List(ctx context.Context) Status {
	for _, kind := range Kinds() {
		groups, err := e.resolver.List(kind.Subdir(), kind.Extension())
		if err != nil {
			e.logger.Error("cannot list scripts", "kind", kind, "err", err)
			return StatusSoft
		}
		for _, g := range groups {
			fmt.Fprintf(e.out, "--- %s scripts in %s\n", kind, Highlight(g.Dir))
			for _, f := range g.Files {
				fmt.Fprintf(e.out, "  %s\n", f)
			}
		}
	}
	return StatusSuccess
}

// Guard returns the recursion guard shared by nested Lua runs.
func (e *Executor) Guard() *Guard {
	return e.guard
}

// Logger returns the logger engines report through.
func (e *Executor) Logger() *log.Logger {
	return e.logger
}

// Output returns the writer script output goes to.
func (e *Executor) Output() io.Writer {
	return e.out
}

// Resolver returns the script resolver.
func (e *Executor) Resolver() *scriptpath.Resolver {
	return e.resolver
}

// NewLogger returns the logger used when none is configured.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{Prefix: "script"})
}
