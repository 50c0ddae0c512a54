// Package executor dispatches script run requests to embedded engines.
//
// # Overview
//
// A run line such as "hello.lua one two" is parsed into a [Request], the
// engine is picked from the name's extension with [Select], the file is
// located by a [scriptpath.Resolver], and the matching [Engine] runs it:
//
//	exec, err := executor.New(scriptpath.New(dirs),
//	    executor.WithEngine(lua.New(lua.WithRegistry(registry))),
//	    executor.WithEngine(cmdscript.New(stack)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	status := exec.Run(ctx, "hello.lua one two")
//
// # Engines
//
// .cmd files go to the line-macro player, .py files to the Python engine when
// it is compiled in, everything else to Lua. Each engine creates its
// interpreter, runs the script and destroys the interpreter within one
// [Engine.Run] call.
//
// # Nesting
//
// Scripts may issue console commands, including further script runs, through
// [Executor.Console]. Nested Lua runs share one [Guard]; once its ceiling is
// reached further Lua runs are refused with [StatusMalloc] until outer runs
// return.
//
// # Status Codes
//
// Every run returns a [Status]. A script that fails internally is reported and
// still yields [StatusSuccess]; missing scripts yield [StatusUndefined].
package executor
