package hostfunc

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Func is a host function callable from scripts. Arguments arrive by name.
type Func func(ctx context.Context, args map[string]any) (any, error)

type entry struct {
	fn     Func
	params []string
}

// Registry maps function names to host functions. The Lua engine exposes it as
// the core module, the Python engine through the scriptrun helper module.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]entry)}
}

// Register adds fn under name. params names the positional arguments, in
// order, so callers that pass arguments positionally can be mapped onto args.
func (r *Registry) Register(name string, fn Func, params ...string) {
	r.mu.Lock()
	r.funcs[name] = entry{fn: fn, params: params}
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	e, ok := r.funcs[name]
	r.mu.RUnlock()
	return e.fn, ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call invokes name with positional arguments argv mapped onto the declared
// parameter names, merged with named. Named arguments win.
func (r *Registry) Call(ctx context.Context, name string, argv []any, named map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown function: %s", name)
	}

	if len(argv) > len(e.params) {
		return nil, fmt.Errorf("%s: too many arguments (want at most %d, got %d)", name, len(e.params), len(argv))
	}

	args := make(map[string]any, len(argv)+len(named))
	for i, v := range argv {
		args[e.params[i]] = v
	}
	for k, v := range named {
		args[k] = v
	}

	return e.fn(ctx, args)
}
