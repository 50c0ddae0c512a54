package executor

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Option configures an Executor.
type Option func(*config)

type config struct {
	engines   []Engine
	maxNested int
	logger    *log.Logger
	out       io.Writer
	console   func(ctx context.Context, line string) Status
}

func defaultConfig() config {
	return config{
		maxNested: DefaultMaxNested,
		logger:    NewLogger(os.Stderr),
		out:       os.Stdout,
	}
}

// WithEngine registers an engine. At most one engine per Kind.
func WithEngine(engine Engine) Option {
	return func(c *config) {
		c.engines = append(c.engines, engine)
	}
}

// WithMaxNested sets the recursion ceiling for nested Lua scripts.
func WithMaxNested(n int) Option {
	return func(c *config) {
		c.maxNested = n
	}
}

// WithLogger sets the logger for dispatch and engine messages.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOutput sets where script output is written.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithConsole sets the callback scripts use to issue console commands.
func WithConsole(fn func(ctx context.Context, line string) Status) Option {
	return func(c *config) {
		c.console = fn
	}
}
