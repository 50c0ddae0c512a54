package hostfunc

import (
	"context"
	"errors"
	"time"
)

// CoreConfig wires the core functions to the host.
type CoreConfig struct {
	// Console runs one console command line and returns its status code.
	Console func(ctx context.Context, line string) int
	// SearchFile resolves a script name the way the dispatcher does.
	SearchFile func(name, ext string) (string, error)
	// KeyHit reports whether the user pressed a key since the last call.
	// Nil means never.
	KeyHit func() bool
	// ClearCommands drops pending command-file lines. Nil registers a no-op.
	ClearCommands func()
	// Sleep pauses the calling script. Nil means time.Sleep.
	Sleep func(ctx context.Context, d time.Duration)
}

// RegisterCore adds the core host functions to r: console, search_file,
// clearCommandBuffer, ukbhit, msleep and time_now.
func RegisterCore(r *Registry, cfg CoreConfig) {
	if cfg.Console != nil {
		r.Register("console", func(ctx context.Context, args map[string]any) (any, error) {
			line, ok := args["line"].(string)
			if !ok {
				return nil, errors.New("line required")
			}
			return cfg.Console(ctx, line), nil
		}, "line")
	}

	if cfg.SearchFile != nil {
		r.Register("search_file", func(ctx context.Context, args map[string]any) (any, error) {
			name, ok := args["name"].(string)
			if !ok {
				return nil, errors.New("name required")
			}
			ext, _ := args["ext"].(string)
			path, err := cfg.SearchFile(name, ext)
			if err != nil {
				return nil, err
			}
			return path, nil
		}, "name", "ext")
	}

	r.Register("clearCommandBuffer", func(ctx context.Context, args map[string]any) (any, error) {
		if cfg.ClearCommands != nil {
			cfg.ClearCommands()
		}
		return nil, nil
	})

	r.Register("ukbhit", func(ctx context.Context, args map[string]any) (any, error) {
		if cfg.KeyHit == nil {
			return false, nil
		}
		return cfg.KeyHit(), nil
	})

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		}
	}
	r.Register("msleep", func(ctx context.Context, args map[string]any) (any, error) {
		ms, ok := toFloat(args["ms"])
		if !ok || ms < 0 {
			return nil, errors.New("ms required")
		}
		sleep(ctx, time.Duration(ms*float64(time.Millisecond)))
		return nil, nil
	}, "ms")

	r.Register("time_now", func(ctx context.Context, args map[string]any) (any, error) {
		return float64(time.Now().UnixNano()) / 1e9, nil
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
