// Package hostfunc provides the host functions scripts can call.
//
// Host functions are Go functions registered in a [Registry] under a name.
// The Lua engine exposes the registry as its core module; the Python engine
// exposes it through the scriptrun helper module over a stderr/stdin protocol.
//
// # Registry
//
//	registry := hostfunc.NewRegistry()
//	registry.Register("greet", func(ctx context.Context, args map[string]any) (any, error) {
//	    return "hello " + args["name"].(string), nil
//	}, "name")
//
// The trailing parameter names let scripts pass arguments positionally:
// core.greet("bob") in Lua, scriptrun.call("greet", "bob") in Python.
//
// # Built-in Functions
//
// Core: console command dispatch, script lookup, key polling and timing via
// [RegisterCore] and [CoreConfig].
//
//	hostfunc.RegisterCore(registry, hostfunc.CoreConfig{
//	    Console: func(ctx context.Context, line string) int {
//	        return int(exec.Console(ctx, line))
//	    },
//	})
//
// Key-Value Store: process-wide string storage via [KVStore].
//
//	hostfunc.NewKVStore().Register(registry)
package hostfunc
