package executor

import "strings"

// Tokenize splits raw on runs of whitespace. There is no quoting or escaping:
// every space separates tokens. Blank input yields an empty slice.
func Tokenize(raw string) []string {
	fields := strings.FieldsFunc(raw, isSpace)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.Clone(f))
	}
	return tokens
}

// isSpace matches the C locale isspace set.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
