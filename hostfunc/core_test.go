package hostfunc

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCoreConsole(t *testing.T) {
	r := NewRegistry()
	var lines []string
	RegisterCore(r, CoreConfig{
		Console: func(ctx context.Context, line string) int {
			lines = append(lines, line)
			return -1
		},
	})

	got, err := r.Call(context.Background(), "console", []any{"script run x"}, nil)
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	if got != -1 {
		t.Errorf("expected status -1, got %v", got)
	}
	if len(lines) != 1 || lines[0] != "script run x" {
		t.Errorf("unexpected console lines: %v", lines)
	}

	if _, err := r.Call(context.Background(), "console", nil, nil); err == nil {
		t.Error("console without line should fail")
	}
}

func TestCoreSearchFile(t *testing.T) {
	r := NewRegistry()
	RegisterCore(r, CoreConfig{
		SearchFile: func(name, ext string) (string, error) {
			if name == "found" {
				return "/scripts/found" + ext, nil
			}
			return "", errors.New("file not found")
		},
	})

	got, err := r.Call(context.Background(), "search_file", []any{"found", ".lua"}, nil)
	if err != nil {
		t.Fatalf("search_file: %v", err)
	}
	if got != "/scripts/found.lua" {
		t.Errorf("got %v", got)
	}

	if _, err := r.Call(context.Background(), "search_file", []any{"nope", ".lua"}, nil); err == nil {
		t.Error("expected not found error")
	}
}

func TestCoreOptionalFunctionsAbsent(t *testing.T) {
	r := NewRegistry()
	RegisterCore(r, CoreConfig{})

	if _, ok := r.Get("console"); ok {
		t.Error("console should not be registered without a callback")
	}
	if _, ok := r.Get("search_file"); ok {
		t.Error("search_file should not be registered without a callback")
	}

	hit, err := r.Call(context.Background(), "ukbhit", nil, nil)
	if err != nil || hit != false {
		t.Errorf("ukbhit = %v, %v", hit, err)
	}
}

func TestCoreMsleep(t *testing.T) {
	r := NewRegistry()
	var slept time.Duration
	RegisterCore(r, CoreConfig{
		Sleep: func(ctx context.Context, d time.Duration) { slept = d },
	})

	if _, err := r.Call(context.Background(), "msleep", []any{250.0}, nil); err != nil {
		t.Fatalf("msleep: %v", err)
	}
	if slept != 250*time.Millisecond {
		t.Errorf("slept %v", slept)
	}

	if _, err := r.Call(context.Background(), "msleep", []any{"soon"}, nil); err == nil {
		t.Error("msleep with non-number should fail")
	}
}

func TestCoreTimeNow(t *testing.T) {
	r := NewRegistry()
	RegisterCore(r, CoreConfig{})

	got, err := r.Call(context.Background(), "time_now", nil, nil)
	if err != nil {
		t.Fatalf("time_now: %v", err)
	}
	if ts, ok := got.(float64); !ok || ts <= 0 {
		t.Errorf("unexpected timestamp %v", got)
	}
}

func TestCoreClearCommandBuffer(t *testing.T) {
	r := NewRegistry()
	cleared := 0
	RegisterCore(r, CoreConfig{ClearCommands: func() { cleared++ }})

	if _, err := r.Call(context.Background(), "clearCommandBuffer", nil, nil); err != nil {
		t.Fatalf("clearCommandBuffer: %v", err)
	}
	if cleared != 1 {
		t.Errorf("cleared %d times", cleared)
	}
}
