package hostfunc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"
)

// KVStore is an in-memory string store shared by every script run in the
// process. Nested scripts and the command files they queue read each other's
// values through it.
type KVStore struct {
	data map[string]string
	mu   sync.RWMutex
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

// Register adds kv_get, kv_set, kv_delete and kv_keys to r.
func (s *KVStore) Register(r *Registry) {
	r.Register("kv_get", s.Get, "key", "default")
	r.Register("kv_set", s.Set, "key", "value")
	r.Register("kv_delete", s.Delete, "key")
	r.Register("kv_keys", s.Keys)
}

func (s *KVStore) Get(ctx context.Context, args map[string]any) (any, error) {
	key, err := keyArg(args)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	val, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return args["default"], nil
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, args map[string]any) (any, error) {
	key, err := keyArg(args)
	if err != nil {
		return nil, err
	}
	val, err := valueArg(args["value"])
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.data[key] = val
	s.mu.Unlock()

	return "ok", nil
}

func (s *KVStore) Delete(ctx context.Context, args map[string]any) (any, error) {
	key, err := keyArg(args)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	return "ok", nil
}

func (s *KVStore) Keys(ctx context.Context, args map[string]any) (any, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	return keys, nil
}

func keyArg(args map[string]any) (string, error) {
	key, ok := args["key"].(string)
	if !ok || key == "" {
		return "", errors.New("key required")
	}
	return key, nil
}

// valueArg stores numbers and booleans the way Lua's tostring prints them.
func valueArg(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'g', 14, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", errors.New("value required")
	default:
		return "", fmt.Errorf("value must be a string, number or boolean, got %T", v)
	}
}
