// Package cmdscript runs .cmd files by queueing them on the console's command
// source stack. Nothing is executed during Run: the console reads the file's
// lines as if they were typed once the current command returns.
package cmdscript

import (
	"context"
	"errors"

	"github.com/caffeineduck/scriptrun/cmdsource"
	"github.com/caffeineduck/scriptrun/executor"
)

// Engine is the line-macro lifecycle manager.
type Engine struct {
	stack *cmdsource.Stack
}

// New returns an engine pushing onto stack.
func New(stack *cmdsource.Stack) *Engine {
	return &Engine{stack: stack}
}

// Kind returns executor.KindCmd.
func (e *Engine) Kind() executor.Kind {
	return executor.KindCmd
}

// Run pushes the resolved file. The arguments are logged but not substituted.
func (e *Engine) Run(ctx context.Context, inv *executor.Invocation) executor.Status {
	logger := inv.Host.Logger()
	path := inv.Script.Path

	logger.Infof("executing Cmd %s", executor.Highlight(path))
	logger.Infof("args %s", executor.Highlight("'"+inv.Args+"'"))

	if err := e.stack.Push(path, true); err != nil {
		logger.Errorf("could not open %s...", executor.Highlight(path))
		logger.Debug("push failed", "err", err)
		if errors.Is(err, cmdsource.ErrTooDeep) {
			return executor.StatusMalloc
		}
		return executor.StatusSoft
	}
	return executor.StatusSuccess
}
