package console_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caffeineduck/scriptrun/cmdsource"
	"github.com/caffeineduck/scriptrun/console"
	"github.com/caffeineduck/scriptrun/executor"
	"github.com/caffeineduck/scriptrun/hostfunc"
	"github.com/caffeineduck/scriptrun/language/cmdscript"
	"github.com/caffeineduck/scriptrun/language/lua"
)

type fixture struct {
	env     *executor.TestEnv
	stack   *cmdsource.Stack
	console *console.Console
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{stack: cmdsource.New(0)}
	t.Cleanup(func() { f.stack.Close() })

	reg := hostfunc.NewRegistry()
	hostfunc.RegisterCore(reg, hostfunc.CoreConfig{
		Console: func(ctx context.Context, line string) int {
			return int(f.env.Exec.Console(ctx, line))
		},
	})

	env, err := executor.NewTestEnv(t.TempDir(),
		executor.WithEngine(lua.New(lua.WithRegistry(reg))),
		executor.WithEngine(cmdscript.New(f.stack)),
	)
	if err != nil {
		t.Fatalf("NewTestEnv: %v", err)
	}
	f.env = env
	f.console = console.New(env.Exec, f.stack)
	return f
}

func (f *fixture) write(t *testing.T, kind executor.Kind, name, content string) {
	t.Helper()
	if _, err := f.env.WriteScript(kind, name, content); err != nil {
		t.Fatal(err)
	}
}

func TestHelp(t *testing.T) {
	f := newFixture(t)
	if got := f.console.Execute(context.Background(), "help"); got != executor.StatusSuccess {
		t.Fatalf("status = %v", got)
	}
	out := f.env.Out.String()
	for _, want := range []string{"help", "script", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestScriptWithoutSubcommandListsTable(t *testing.T) {
	f := newFixture(t)
	f.console.Execute(context.Background(), "script")
	out := f.env.Out.String()
	for _, want := range []string{"script help", "script list", "script run"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t)
	if got := f.console.Execute(context.Background(), "hf search"); got != executor.StatusUndefined {
		t.Errorf("status = %v, want undefined", got)
	}
	if got := f.console.Execute(context.Background(), "script frobnicate"); got != executor.StatusUndefined {
		t.Errorf("status = %v, want undefined", got)
	}
	if !strings.Contains(f.env.Log.String(), "unknown command") {
		t.Errorf("log = %s", f.env.Log.String())
	}
}

func TestEmptyLine(t *testing.T) {
	f := newFixture(t)
	if got := f.console.Execute(context.Background(), "   "); got != executor.StatusSuccess {
		t.Errorf("status = %v", got)
	}
}

func TestScriptRunAndList(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindLua, "hello", `print("hi " .. args)`)
	f.write(t, executor.KindCmd, "setup", "help\n")

	if got := f.console.Execute(context.Background(), "SCRIPT Run hello there"); got != executor.StatusSuccess {
		t.Fatalf("status = %v", got)
	}
	if !strings.Contains(f.env.Out.String(), "hi there\n") {
		t.Errorf("output = %q", f.env.Out.String())
	}

	f.env.Out.Reset()
	f.console.Execute(context.Background(), "script list")
	out := f.env.Out.String()
	if !strings.Contains(out, "hello.lua") || !strings.Contains(out, "setup.cmd") {
		t.Errorf("list output = %q", out)
	}
}

func TestScriptRunMissing(t *testing.T) {
	f := newFixture(t)
	if got := f.console.Execute(context.Background(), "script run nothere"); got != executor.StatusUndefined {
		t.Fatalf("status = %v, want undefined", got)
	}
	if n := strings.Count(f.env.Log.String(), "file not found"); n != 1 {
		t.Errorf("got %d not-found messages:\n%s", n, f.env.Log.String())
	}
}

func TestScriptHelp(t *testing.T) {
	f := newFixture(t)
	if got := f.console.Execute(context.Background(), "script help"); got != executor.StatusSuccess {
		t.Fatalf("status = %v", got)
	}
	if !strings.Contains(f.env.Out.String(), "luascripts") {
		t.Errorf("help page not rendered:\n%s", f.env.Out.String())
	}
}

func TestDrainPlaysNestedCommandFiles(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindLua, "say", `print("say " .. args)`)
	f.write(t, executor.KindCmd, "outer", "# outer file\nscript run say one\nscript run inner.cmd\nscript run say three\n")
	f.write(t, executor.KindCmd, "inner", "script run say two\n")

	f.console.Execute(context.Background(), "script run outer.cmd")
	if got := f.console.Drain(context.Background()); got != executor.StatusSuccess {
		t.Fatalf("drain status = %v", got)
	}

	var said []string
	for _, line := range strings.Split(f.env.Out.String(), "\n") {
		if strings.HasPrefix(line, "say ") {
			said = append(said, strings.TrimPrefix(line, "say "))
		}
	}
	if strings.Join(said, ",") != "one,two,three" {
		t.Errorf("order = %v\n%s", said, f.env.Out.String())
	}
	if f.console.Done() {
		t.Error("console should keep running after command files")
	}
}

func TestDrainStopsOnQuit(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindLua, "say", `print("said")`)
	f.write(t, executor.KindCmd, "bye", "quit\nscript run say\n")

	f.console.Execute(context.Background(), "script run bye.cmd")
	f.console.Drain(context.Background())

	if !f.console.Done() {
		t.Error("quit not honoured")
	}
	if strings.Contains(f.env.Out.String(), "said") {
		t.Error("line after quit was executed")
	}
}

func TestDrainReportsTruncatedFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindLua, "say", `print("said " .. args)`)
	f.write(t, executor.KindCmd, "huge", "script run say first\n"+strings.Repeat("x", cmdsource.MaxLineSize+1)+"\nscript run say last\n")

	f.console.Execute(context.Background(), "script run huge.cmd")
	if got := f.console.Drain(context.Background()); got != executor.StatusSoft {
		t.Fatalf("drain status = %v, want soft", got)
	}
	if !strings.Contains(f.env.Out.String(), "said first") {
		t.Errorf("output = %q", f.env.Out.String())
	}
	if !strings.Contains(f.env.Log.String(), "command file truncated") {
		t.Errorf("truncation not reported:\n%s", f.env.Log.String())
	}
}

func TestDrainExitsAfterStartupFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "startup.cmd")
	if err := os.WriteFile(path, []byte("help\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := f.stack.Push(path, false); err != nil {
		t.Fatal(err)
	}

	f.console.Drain(context.Background())
	if !f.console.Done() {
		t.Error("console should exit after a non-staying startup file")
	}
}

func TestLuaQueuesCommandFile(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindLua, "say", `print("from cmd")`)
	f.write(t, executor.KindCmd, "later", "script run say\n")
	f.write(t, executor.KindLua, "queue", `print("status " .. core.console("script run later.cmd"))`)

	f.console.Execute(context.Background(), "script run queue")
	if strings.Contains(f.env.Out.String(), "from cmd") {
		t.Fatal("command file played before the current command returned")
	}
	if !strings.Contains(f.env.Out.String(), "status 0") {
		t.Errorf("output = %q", f.env.Out.String())
	}

	f.console.Drain(context.Background())
	if !strings.Contains(f.env.Out.String(), "from cmd") {
		t.Errorf("queued file not played:\n%s", f.env.Out.String())
	}
}

func TestClearCommands(t *testing.T) {
	f := newFixture(t)
	f.write(t, executor.KindCmd, "queued", "help\n")
	f.console.Execute(context.Background(), "script run queued.cmd")
	f.console.ClearCommands()
	if f.stack.Depth() != 0 {
		t.Errorf("depth = %d after clear", f.stack.Depth())
	}
}
