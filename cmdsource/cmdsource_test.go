package cmdsource

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCmd(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func drain(s *Stack) []string {
	var lines []string
	for {
		l, ok := s.Next()
		if !ok {
			return lines
		}
		lines = append(lines, l.Text)
	}
}

func TestNextSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := writeCmd(t, dir, "a.cmd", "# header\n\nhw version\r\n   \n  hf search  \n#done\n")

	s := New(0)
	if err := s.Push(path, true); err != nil {
		t.Fatalf("Push: %v", err)
	}

	l, ok := s.Next()
	if !ok || l.Text != "hw version" || l.LineNo != 3 || l.Path != path {
		t.Fatalf("unexpected first line: %+v ok=%v", l, ok)
	}
	l, ok = s.Next()
	if !ok || l.Text != "hf search" {
		t.Fatalf("unexpected second line: %+v", l)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("expected stack to be drained")
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d after drain", s.Depth())
	}
}

func TestNestedPushResumesOuter(t *testing.T) {
	dir := t.TempDir()
	outer := writeCmd(t, dir, "outer.cmd", "one\ntwo\nthree\n")
	inner := writeCmd(t, dir, "inner.cmd", "inner-a\ninner-b\n")

	s := New(0)
	if err := s.Push(outer, true); err != nil {
		t.Fatal(err)
	}
	if l, _ := s.Next(); l.Text != "one" {
		t.Fatalf("got %q", l.Text)
	}
	if err := s.Push(inner, true); err != nil {
		t.Fatal(err)
	}

	got := drain(s)
	want := []string{"inner-a", "inner-b", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPushDepthLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeCmd(t, dir, "self.cmd", "x\n")

	s := New(2)
	defer s.Close()
	if err := s.Push(path, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(path, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Push(path, true); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %v", err)
	}
	if s.Depth() != 2 {
		t.Errorf("failed push changed depth to %d", s.Depth())
	}
}

func TestPushMissingFile(t *testing.T) {
	s := New(0)
	err := s.Push(filepath.Join(t.TempDir(), "nope.cmd"), true)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestExitRequested(t *testing.T) {
	dir := t.TempDir()
	path := writeCmd(t, dir, "once.cmd", "x\n")

	s := New(0)
	if err := s.Push(path, true); err != nil {
		t.Fatal(err)
	}
	drain(s)
	if s.ExitRequested() {
		t.Error("stayAfter file should not request exit")
	}

	if err := s.Push(path, false); err != nil {
		t.Fatal(err)
	}
	drain(s)
	if !s.ExitRequested() {
		t.Error("expected exit request after non-staying file")
	}
	if s.ExitRequested() {
		t.Error("ExitRequested should clear the flag")
	}
}

func TestCloseEmptiesStack(t *testing.T) {
	dir := t.TempDir()
	path := writeCmd(t, dir, "a.cmd", "x\ny\n")

	s := New(0)
	s.Push(path, true)
	s.Push(path, true)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d after Close", s.Depth())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next after Close should report empty")
	}
}

func TestLongLinesAreRead(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("x", 70000)
	path := writeCmd(t, dir, "long.cmd", "first\n"+long+"\nlast\n")

	s := New(0)
	if err := s.Push(path, true); err != nil {
		t.Fatalf("Push: %v", err)
	}
	got := drain(s)
	if len(got) != 3 || got[0] != "first" || got[1] != long || got[2] != "last" {
		t.Errorf("read %d lines, want first, the long line and last", len(got))
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestOversizedLineIsReported(t *testing.T) {
	dir := t.TempDir()
	path := writeCmd(t, dir, "huge.cmd", "first\n"+strings.Repeat("x", MaxLineSize+1)+"\nlast\n")

	s := New(0)
	if err := s.Push(path, true); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := drain(s); len(got) != 1 || got[0] != "first" {
		t.Errorf("lines = %d, want only the first", len(got))
	}
	err := s.Err()
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("Err = %v, want bufio.ErrTooLong", err)
	}
	if !strings.Contains(err.Error(), "after line 1") {
		t.Errorf("error lacks position: %v", err)
	}
	if s.Err() != nil {
		t.Error("Err should clear after being read")
	}
	if s.Depth() != 0 {
		t.Errorf("Depth = %d", s.Depth())
	}
}
