package executor

import "strings"

const (
	// MaxNameLen is the longest script name accepted on a run line.
	MaxNameLen = 127
	// MaxArgsLen is the longest argument string accepted on a run line.
	MaxArgsLen = 255
)

// Request is a parsed run line.
type Request struct {
	Name string
	Args string
}

// ParseRequest splits a run line into the script name (the first
// whitespace-delimited token) and the argument string (the rest of the line up
// to the first line break, taken verbatim). Both are truncated to their maximum
// lengths.
func ParseRequest(line string) Request {
	rest := strings.TrimLeftFunc(line, isSpace)
	end := strings.IndexFunc(rest, isSpace)
	if end == -1 {
		end = len(rest)
	}
	name := rest[:end]
	rest = strings.TrimLeftFunc(rest[end:], isSpace)

	if i := strings.IndexAny(rest, "\r\n"); i != -1 {
		rest = rest[:i]
	}

	return Request{
		Name: truncate(name, MaxNameLen),
		Args: truncate(rest, MaxArgsLen),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
