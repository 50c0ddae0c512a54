package hostfunc

import (
	"context"
	"sync"
	"testing"
)

func TestKVSetGet(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	_, err := kv.Set(ctx, map[string]any{"key": "foo", "value": "bar"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := kv.Get(ctx, map[string]any{"key": "foo"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "bar" {
		t.Errorf("expected bar, got %v", val)
	}
}

func TestKVGetDefault(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	val, err := kv.Get(ctx, map[string]any{"key": "missing", "default": "fallback"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "fallback" {
		t.Errorf("expected fallback, got %v", val)
	}

	val, _ = kv.Get(ctx, map[string]any{"key": "missing"})
	if val != nil {
		t.Errorf("expected nil, got %v", val)
	}
}

func TestKVDelete(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	kv.Set(ctx, map[string]any{"key": "foo", "value": "bar"})
	kv.Delete(ctx, map[string]any{"key": "foo"})

	val, _ := kv.Get(ctx, map[string]any{"key": "foo"})
	if val != nil {
		t.Errorf("expected nil after delete, got %v", val)
	}
}

func TestKVKeysSorted(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	for _, k := range []string{"c", "a", "b"} {
		kv.Set(ctx, map[string]any{"key": k, "value": k})
	}

	result, err := kv.Keys(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	keys := result.([]string)
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestKVValidation(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	if _, err := kv.Get(ctx, map[string]any{}); err == nil {
		t.Error("Get without key should fail")
	}
	if _, err := kv.Set(ctx, map[string]any{"key": "k"}); err == nil {
		t.Error("Set without value should fail")
	}
	if _, err := kv.Set(ctx, map[string]any{"key": "k", "value": []any{"a"}}); err == nil {
		t.Error("Set with table value should fail")
	}
}

func TestKVRegisterPositional(t *testing.T) {
	kv := NewKVStore()
	r := NewRegistry()
	kv.Register(r)
	ctx := context.Background()

	if _, err := r.Call(ctx, "kv_set", []any{"k", "v"}, nil); err != nil {
		t.Fatalf("kv_set: %v", err)
	}
	got, err := r.Call(ctx, "kv_get", []any{"k"}, nil)
	if err != nil {
		t.Fatalf("kv_get: %v", err)
	}
	if got != "v" {
		t.Errorf("expected v, got %v", got)
	}
}

func TestKVConcurrentAccess(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kv.Set(ctx, map[string]any{"key": "shared", "value": "x"})
			kv.Get(ctx, map[string]any{"key": "shared"})
		}()
	}
	wg.Wait()
}

func TestKVScalarValues(t *testing.T) {
	kv := NewKVStore()
	ctx := context.Background()

	tests := []struct {
		value any
		want  string
	}{
		{3.0, "3"},
		{-42.0, "-42"},
		{0.5, "0.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if _, err := kv.Set(ctx, map[string]any{"key": "k", "value": tt.value}); err != nil {
			t.Fatalf("Set(%v): %v", tt.value, err)
		}
		got, _ := kv.Get(ctx, map[string]any{"key": "k"})
		if got != tt.want {
			t.Errorf("Set(%v) stored %v, want %q", tt.value, got, tt.want)
		}
	}
}
