package executor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caffeineduck/scriptrun/scriptpath"
	"github.com/charmbracelet/log"
)

// TestEnv is a throwaway script tree with an Executor writing into buffers.
// Engine packages use it to exercise dispatch without touching the user's
// real search directories.
type TestEnv struct {
	Dirs scriptpath.Dirs
	Out  *bytes.Buffer
	Log  *bytes.Buffer
	Exec *Executor
}

// NewTestEnv lays out exec, user and share roots under root and builds an
// Executor over them. Log output is captured at debug level.
func NewTestEnv(root string, opts ...Option) (*TestEnv, error) {
	dirs := scriptpath.Dirs{
		Exec:  filepath.Join(root, "bin"),
		User:  filepath.Join(root, "home", scriptpath.UserDirName),
		Share: filepath.Join(root, "share", "scriptrun"),
	}

	env := &TestEnv{
		Dirs: dirs,
		Out:  new(bytes.Buffer),
		Log:  new(bytes.Buffer),
	}

	logger := log.NewWithOptions(env.Log, log.Options{Prefix: "script", Level: log.DebugLevel})
	base := []Option{WithLogger(logger), WithOutput(env.Out)}

	exec, err := New(scriptpath.New(dirs), append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	env.Exec = exec
	return env, nil
}

// WriteScript stores a script of the given kind under the exec root and
// returns its path. The kind's extension is added when name lacks it.
func (e *TestEnv) WriteScript(kind Kind, name, content string) (string, error) {
	if filepath.Ext(name) == "" {
		name += kind.Extension()
	}
	dir := filepath.Join(e.Dirs.Exec, kind.Subdir())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	return path, nil
}
