// Package lua runs .lua scripts on a fresh gopher-lua state per invocation.
//
// Each run gets its own interpreter with the standard libraries plus the bin,
// bit and core capability modules. The raw argument string is exposed as the
// global args. Nested runs, issued through core.console, are admitted by the
// dispatcher's recursion guard.
package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/hostfunc"
	glua "github.com/yuin/gopher-lua"
)

// Engine is the Lua lifecycle manager.
type Engine struct {
	registry *hostfunc.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry exposes the host functions in r as the core module.
func WithRegistry(r *hostfunc.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New returns a Lua engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = hostfunc.NewRegistry()
	}
	return e
}

// Kind returns executor.KindLua.
func (e *Engine) Kind() executor.Kind {
	return executor.KindLua
}

// Run executes inv on a new Lua state. Script errors are printed and the run
// still succeeds. Only a file that cannot be read fails the run.
func (e *Engine) Run(ctx context.Context, inv *executor.Invocation) executor.Status {
	host := inv.Host
	logger := host.Logger()
	guard := host.Guard()
	path := inv.Script.Path

	if !guard.Enter() {
		logger.Errorf("too many nested scripts, skipping %s", path)
		return executor.StatusMalloc
	}
	defer guard.Leave()

	logger.Infof("executing lua %s", executor.Highlight(path))
	logger.Infof("args %s", executor.Highlight("'"+inv.Args+"'"))

	L := glua.NewState()
	defer L.Close()

	out := host.Output()
	e.openLibs(ctx, L, out)

	status := executor.StatusSuccess
	fn, err := L.LoadFile(path)
	if err == nil {
		L.SetGlobal("args", glua.LString(inv.Args))
		L.Push(fn)
		err = L.PCall(0, glua.MultRet, nil)
	}
	if err != nil {
		reportError(host, out, err)
		var apiErr *glua.ApiError
		if errors.As(err, &apiErr) && apiErr.Type == glua.ApiErrorFile {
			status = executor.StatusSoft
		}
	}

	logger.Infof("finished %s", executor.Highlight(inv.Name))
	return status
}

func (e *Engine) openLibs(ctx context.Context, L *glua.LState, out io.Writer) {
	L.SetGlobal("print", L.NewFunction(printTo(out)))
	redirectStdout(L, out)

	L.SetGlobal("core", newCoreModule(ctx, L, e.registry))
	L.SetGlobal("bin", newBinModule(L))
	L.SetGlobal("bit", newBitModule(L))

	for _, name := range []string{"core", "bin", "bit"} {
		mod := L.GetGlobal(name)
		L.PreloadModule(name, func(L *glua.LState) int {
			L.Push(mod)
			return 1
		})
	}
}

// reportError prints the error value left by a failed load or call.
func reportError(host *executor.Executor, out io.Writer, err error) {
	var apiErr *glua.ApiError
	if !errors.As(err, &apiErr) || apiErr.Object == nil {
		fmt.Fprintln(out, err.Error())
		return
	}
	if !glua.LVCanConvToString(apiErr.Object) {
		host.Logger().Error("error - but no error (?!)")
		return
	}
	fmt.Fprintln(out, glua.LVAsString(apiErr.Object))
}

func printTo(out io.Writer) glua.LGFunction {
	return func(L *glua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}
}

// redirectStdout points io.write and io.stdout at out. io.stdout keeps the
// write, flush and setvbuf methods only.
func redirectStdout(L *glua.LState, out io.Writer) {
	iolib, ok := L.GetGlobal("io").(*glua.LTable)
	if !ok {
		return
	}
	stdout := L.NewTable()
	write := func(first int) *glua.LFunction {
		return L.NewFunction(func(L *glua.LState) int {
			for i := first; i <= L.GetTop(); i++ {
				v := L.Get(i)
				if !glua.LVCanConvToString(v) {
					L.ArgError(i-first+1, "string expected, got "+v.Type().String())
				}
				io.WriteString(out, glua.LVAsString(v))
			}
			L.Push(stdout)
			return 1
		})
	}
	self := L.NewFunction(func(L *glua.LState) int {
		L.Push(stdout)
		return 1
	})
	L.SetField(stdout, "write", write(2))
	L.SetField(stdout, "flush", self)
	L.SetField(stdout, "setvbuf", self)
	L.SetField(iolib, "write", write(1))
	L.SetField(iolib, "stdout", stdout)
}
