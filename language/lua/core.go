package lua

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/caffeineduck/scriptrun/hostfunc"
	glua "github.com/yuin/gopher-lua"
)

// newCoreModule builds the core table: one Lua function per registered host
// function. A host error comes back as nil plus the message.
func newCoreModule(ctx context.Context, L *glua.LState, r *hostfunc.Registry) *glua.LTable {
	mod := L.NewTable()
	for _, name := range r.List() {
		L.SetField(mod, name, L.NewFunction(func(L *glua.LState) int {
			argv := make([]any, 0, L.GetTop())
			for i := 1; i <= L.GetTop(); i++ {
				argv = append(argv, fromLua(L.Get(i)))
			}
			result, err := r.Call(ctx, name, argv, nil)
			if err != nil {
				L.Push(glua.LNil)
				L.Push(glua.LString(err.Error()))
				return 2
			}
			L.Push(toLua(L, result))
			return 1
		}))
	}
	return mod
}

// fromLua converts a Lua value for a host function. Tables with a non-empty
// array part become []any, other tables map[string]any.
func fromLua(v glua.LValue) any {
	switch v := v.(type) {
	case glua.LString:
		return string(v)
	case glua.LNumber:
		return float64(v)
	case glua.LBool:
		return bool(v)
	case *glua.LTable:
		if n := v.Len(); n > 0 {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLua(v.RawGetInt(i)))
			}
			return list
		}
		m := make(map[string]any)
		v.ForEach(func(k, val glua.LValue) {
			m[k.String()] = fromLua(val)
		})
		return m
	default:
		return nil
	}
}

func toLua(L *glua.LState, v any) glua.LValue {
	switch v := v.(type) {
	case nil:
		return glua.LNil
	case string:
		return glua.LString(v)
	case bool:
		return glua.LBool(v)
	case int:
		return glua.LNumber(v)
	case int64:
		return glua.LNumber(v)
	case float64:
		return glua.LNumber(v)
	case []string:
		t := L.CreateTable(len(v), 0)
		for _, s := range v {
			t.Append(glua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			t.RawSetString(k, toLua(L, v[k]))
		}
		return t
	default:
		return glua.LString(fmt.Sprint(v))
	}
}
