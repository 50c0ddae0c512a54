//go:build nopython

package python

import (
	"context"

	"github.com/caffeineduck/scriptrun/executor"
)

// Run reports that Python support was left out of this build.
func (e *Engine) Run(ctx context.Context, inv *executor.Invocation) executor.Status {
	inv.Host.Logger().Error("python support not compiled in", "name", executor.Highlight(inv.Name))
	return executor.StatusSoft
}
