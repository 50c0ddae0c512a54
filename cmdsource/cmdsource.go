// Package cmdsource holds the stack of command files the console reads from
// before it falls back to interactive input. Pushing a file while another is
// being read nests it: the new file is read to the end first, then reading
// resumes where the outer file left off.
package cmdsource

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// DefaultMaxDepth is the default limit on nested command files.
const DefaultMaxDepth = 10

// MaxLineSize is the longest line a command file may hold.
const MaxLineSize = 1 << 20

// ErrTooDeep is returned by Push when the stack is full.
var ErrTooDeep = errors.New("too many nested command files")

// Line is one command read from a file.
type Line struct {
	Text   string
	Path   string
	LineNo int
}

type frame struct {
	path      string
	file      *os.File
	scanner   *bufio.Scanner
	lineNo    int
	stayAfter bool
}

// Stack is a LIFO of open command files.
type Stack struct {
	mu     sync.Mutex
	frames []*frame
	max    int
	exit   bool
	errs   []error
}

// New returns an empty stack holding at most max files.
// A non-positive max falls back to DefaultMaxDepth.
func New(max int) *Stack {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	return &Stack{max: max}
}

// Push opens path and makes it the next source of commands. stayAfter marks
// whether the console should keep running once this file is exhausted; files
// pushed from a running console pass true.
func (s *Stack) Push(path string, stayAfter bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) >= s.max {
		return fmt.Errorf("push %s: %w (max %d)", path, ErrTooDeep, s.max)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("push %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)
	s.frames = append(s.frames, &frame{
		path:      path,
		file:      f,
		scanner:   scanner,
		stayAfter: stayAfter,
	})
	return nil
}

// Next returns the next command, skipping blank lines and lines starting with
// '#'. Exhausted files are closed and popped. A file that fails to read is
// popped too and the failure is kept for Err. ok is false once the stack is
// empty.
func (s *Stack) Next() (line Line, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		for top.scanner.Scan() {
			top.lineNo++
			text := strings.TrimSpace(top.scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			return Line{Text: text, Path: top.path, LineNo: top.lineNo}, true
		}
		if err := top.scanner.Err(); err != nil {
			s.errs = append(s.errs, fmt.Errorf("read %s after line %d: %w", top.path, top.lineNo, err))
		}
		s.pop()
	}
	return Line{}, false
}

// pop closes and removes the top frame. Callers hold s.mu.
func (s *Stack) pop() {
	top := s.frames[len(s.frames)-1]
	top.file.Close()
	s.frames = s.frames[:len(s.frames)-1]
	if !top.stayAfter {
		s.exit = true
	}
}

// Err returns the read failures seen by Next since the last call, and clears
// them.
func (s *Stack) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := errors.Join(s.errs...)
	s.errs = nil
	return err
}

// Depth returns the number of open files.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// ExitRequested reports whether a file pushed with stayAfter false has been
// fully read, and clears the flag.
func (s *Stack) ExitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exit := s.exit
	s.exit = false
	return exit
}

// Close closes every open file and empties the stack.
func (s *Stack) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, fr := range s.frames {
		if err := fr.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.frames = nil
	return errors.Join(errs...)
}
