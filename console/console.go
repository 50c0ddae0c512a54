// Package console is the command table scripts and users drive: top-level
// help and quit plus the script sub-commands. Lines queued on the command
// source stack are played through the same table.
package console

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/caffeineduck/scriptrun/cmdsource"
	"github.com/caffeineduck/scriptrun/executor"
	"github.com/charmbracelet/glamour"
)

//go:embed help.md
var scriptHelp string

type command struct {
	name string
	help string
	run  func(ctx context.Context, args string) executor.Status
}

// Console executes console lines.
type Console struct {
	exec   *executor.Executor
	stack  *cmdsource.Stack
	out    io.Writer
	top    []command
	script []command
	quit   bool
}

// New returns a console over exec and stack and installs it as exec's
// console callback.
func New(exec *executor.Executor, stack *cmdsource.Stack) *Console {
	c := &Console{
		exec:  exec,
		stack: stack,
		out:   exec.Output(),
	}
	c.top = []command{
		{"help", "This help", c.cmdHelp},
		{"script", "{ Scripting commands }", c.cmdScript},
		{"quit", "Exit the console", c.cmdQuit},
		{"exit", "Exit the console", c.cmdQuit},
	}
	c.script = []command{
		{"help", "This help", c.cmdScriptHelp},
		{"list", "List available scripts", c.cmdScriptList},
		{"run", "<name> -- execute a script", c.cmdScriptRun},
	}
	exec.SetConsole(c.Execute)
	return c
}

// Execute runs one console line.
func (c *Console) Execute(ctx context.Context, line string) executor.Status {
	return c.dispatch(ctx, c.top, "", line)
}

func (c *Console) dispatch(ctx context.Context, table []command, prefix, line string) executor.Status {
	line = strings.TrimSpace(line)
	if line == "" {
		return executor.StatusSuccess
	}
	name, args := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i != -1 {
		name, args = line[:i], line[i:]
	}
	name = strings.ToLower(name)

	for _, cmd := range table {
		if cmd.name == name {
			return cmd.run(ctx, strings.TrimSpace(args))
		}
	}

	c.exec.Logger().Error("unknown command", "cmd", executor.Highlight(strings.TrimSpace(prefix+" "+name)))
	c.printTable(table, prefix)
	return executor.StatusUndefined
}

func (c *Console) printTable(table []command, prefix string) {
	for _, cmd := range table {
		name := cmd.name
		if prefix != "" {
			name = prefix + " " + name
		}
		fmt.Fprintf(c.out, "%-16s %s\n", name, cmd.help)
	}
}

func (c *Console) cmdHelp(ctx context.Context, args string) executor.Status {
	c.printTable(c.top, "")
	return executor.StatusSuccess
}

func (c *Console) cmdQuit(ctx context.Context, args string) executor.Status {
	c.quit = true
	return executor.StatusSuccess
}

func (c *Console) cmdScript(ctx context.Context, args string) executor.Status {
	if args == "" {
		c.printTable(c.script, "script")
		return executor.StatusSuccess
	}
	return c.dispatch(ctx, c.script, "script", args)
}

func (c *Console) cmdScriptHelp(ctx context.Context, args string) executor.Status {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		fmt.Fprint(c.out, scriptHelp)
		return executor.StatusSuccess
	}
	rendered, err := renderer.Render(scriptHelp)
	if err != nil {
		rendered = scriptHelp
	}
	fmt.Fprint(c.out, rendered)
	return executor.StatusSuccess
}

func (c *Console) cmdScriptList(ctx context.Context, args string) executor.Status {
	return c.exec.List(ctx)
}

func (c *Console) cmdScriptRun(ctx context.Context, args string) executor.Status {
	return c.exec.Run(ctx, args)
}

// Drain plays every line queued on the command source stack. It stops early
// once a line asks to quit.
func (c *Console) Drain(ctx context.Context) executor.Status {
	status := executor.StatusSuccess
	for !c.quit {
		line, ok := c.stack.Next()
		if err := c.stack.Err(); err != nil {
			c.exec.Logger().Error("command file truncated", "err", err)
			status = executor.StatusSoft
		}
		if !ok {
			break
		}
		fmt.Fprintf(c.out, "%s %s\n", executor.Highlight("[cmd]"), line.Text)
		status = c.Execute(ctx, line.Text)
	}
	if c.stack.ExitRequested() {
		c.quit = true
	}
	return status
}

// ClearCommands drops every queued command file.
func (c *Console) ClearCommands() {
	c.stack.Close()
}

// Done reports whether quit or exit has been executed.
func (c *Console) Done() bool {
	return c.quit
}
