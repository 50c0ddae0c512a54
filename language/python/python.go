//go:build !nopython

package python

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/caffeineduck/scriptrun/executor"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// Run executes inv in a new interpreter instance. Only one instance may be
// active: a Python script that starts another Python script through the
// console gets StatusSoft. A script that raises or exits non-zero is reported
// and the run still succeeds.
func (e *Engine) Run(ctx context.Context, inv *executor.Invocation) executor.Status {
	host := inv.Host
	logger := host.Logger()
	scriptPath := inv.Script.Path

	if e.active {
		logger.Error("cannot run python script", "name", executor.Highlight(inv.Name), "err", ErrBusy)
		return executor.StatusSoft
	}
	e.active = true
	defer func() { e.active = false }()

	logger.Infof("executing python %s", executor.Highlight(scriptPath))
	logger.Infof("args %s", executor.Highlight("'"+inv.Args+"'"))

	args, err := decodeArgs(e.encoding, inv.Name, inv.Tokens())
	if errors.Is(err, ErrUnknownEncoding) {
		logger.Error("invalid python.encoding setting", "err", err)
		return executor.StatusSoft
	}
	if err != nil {
		logger.Errorf("could not decode %s", executor.Highlight(inv.Name))
		logger.Debug("decode failed", "err", err)
		return executor.StatusSoft
	}

	// Readability check only: the guest reads the script through /main.
	f, err := os.Open(scriptPath)
	if err != nil {
		logger.Errorf("could open file %s", executor.Highlight(scriptPath))
		return executor.StatusSoft
	}
	f.Close()

	wasm, err := e.loadModule()
	if err != nil {
		logger.Error("cannot load python interpreter", "err", err)
		return executor.StatusSoft
	}

	libDir, err := os.MkdirTemp("", "scriptrun-py-")
	if err != nil {
		logger.Error("cannot create helper dir", "err", err)
		return executor.StatusSoft
	}
	defer os.RemoveAll(libDir)
	if err := os.WriteFile(filepath.Join(libDir, "scriptrun.py"), []byte(helperModule), 0644); err != nil {
		logger.Error("cannot write helper module", "err", err)
		return executor.StatusSoft
	}

	rt, closeRuntime, err := e.newRuntime(ctx)
	if err != nil {
		logger.Error("cannot start python runtime", "err", err)
		return executor.StatusSoft
	}
	defer closeRuntime()

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		logger.Error("cannot compile python interpreter", "module", e.modulePath, "err", err)
		return executor.StatusSoft
	}

	fsConfig := wazero.NewFSConfig().
		WithReadOnlyDirMount(filepath.Dir(scriptPath), guestMainDir).
		WithReadOnlyDirMount(libDir, guestLibDir)
	searchPath := []string{guestMainDir}
	for _, root := range host.Resolver().Roots(executor.KindPython.Subdir()) {
		if info, err := os.Stat(root.Path); err != nil || !info.IsDir() {
			continue
		}
		guest := guestScriptDir(root.Class)
		fsConfig = fsConfig.WithReadOnlyDirMount(root.Path, guest)
		searchPath = append(searchPath, guest)
	}
	searchPath = append(searchPath, guestLibDir)

	stdinReader, stdinWriter := io.Pipe()
	protocol := newProtocolHandler(ctx, e.registry, stdinWriter, host.Output())

	moduleConfig := wazero.NewModuleConfig().
		WithStdout(host.Output()).
		WithStderr(protocol).
		WithStdin(stdinReader).
		WithFSConfig(fsConfig).
		WithArgs(guestArgs(path.Join(guestMainDir, filepath.Base(scriptPath)), searchPath, args)...).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep().
		WithRandSource(rand.Reader).
		WithName("")

	errCh := make(chan error, 1)
	go func() {
		mod, err := rt.InstantiateModule(ctx, compiled, moduleConfig)
		if mod != nil {
			mod.Close(ctx)
		}
		stdinWriter.Close()
		errCh <- err
	}()
	err = <-errCh
	protocol.Flush()

	var exitErr *sys.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code != 0 {
			logger.Warnf("%s exited with status %d", executor.Highlight(inv.Name), code)
		}
	default:
		logger.Error("python script failed", "name", executor.Highlight(inv.Name), "err", err)
	}

	logger.Infof("finished %s", executor.Highlight(inv.Name))
	return executor.StatusSuccess
}

func (e *Engine) loadModule() ([]byte, error) {
	if e.modulePath == "" {
		return nil, fmt.Errorf("%w (set python.module)", ErrNoModule)
	}
	wasm, err := os.ReadFile(e.modulePath)
	if err != nil {
		return nil, fmt.Errorf("read python module: %w", err)
	}
	return wasm, nil
}

// newRuntime returns a runtime with WASI instantiated and a func releasing
// it along with its compilation cache.
func (e *Engine) newRuntime(ctx context.Context) (wazero.Runtime, func(), error) {
	rtConfig := wazero.NewRuntimeConfig()
	if e.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(e.memoryLimitPages)
	}

	var cache wazero.CompilationCache
	if e.diskCache {
		dir := e.cacheDir
		if dir == "" {
			dir = DefaultCacheDir()
		}
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("create disk cache: %w", err)
		}
		rtConfig = rtConfig.WithCompilationCache(cache)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	closeAll := func() {
		rt.Close(ctx)
		if cache != nil {
			cache.Close(ctx)
		}
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	return rt, closeAll, nil
}
