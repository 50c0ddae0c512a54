// Package scriptrun finds scripts by name and runs them on the engine their
// extension selects: Lua for .lua (and anything unrecognised), the console
// command player for .cmd, and a WASI Python interpreter for .py.
//
// # Overview
//
// Scripts are searched in three roots: next to the executable, in the user's
// ~/.scriptrun directory and in the shared data directory. Each engine creates
// its interpreter for a single run and tears it down before returning. Nested
// Lua runs are bounded by a recursion ceiling.
//
// # Basic Usage
//
//	rt, _ := scriptrun.New(scriptrun.Options{Dirs: dirs})
//	defer rt.Close()
//
//	rt.Run(ctx, "hello world")        // luascripts/hello.lua, args = "world"
//	rt.Run(ctx, "setup.cmd")          // plays cmdscripts/setup.cmd
//	rt.Execute(ctx, "script list")    // any console line
//
// # Python
//
// Python scripts need a WASI build of the interpreter:
//
//	rt, _ := scriptrun.New(scriptrun.Options{
//	    Dirs:   dirs,
//	    Python: scriptrun.PythonOptions{Module: "/opt/python.wasm"},
//	})
//
// See the [executor], [hostfunc], [console], [language/lua],
// [language/cmdscript] and [language/python] packages for details.
package scriptrun
