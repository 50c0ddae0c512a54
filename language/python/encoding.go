package python

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding is returned for a host encoding name that neither the
// IANA nor the WHATWG index knows.
var ErrUnknownEncoding = errors.New("unknown encoding")

// LookupEncoding resolves a host encoding name. IANA names and aliases are
// tried first, then WHATWG labels such as "utf8" or "latin1".
func LookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
}

// decodeArgs converts the script name and its tokens from the named host
// encoding to UTF-8. Strings with NUL bytes never decode.
func decodeArgs(encodingName string, name string, tokens []string) ([]string, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	isUTF8 := enc == unicode.UTF8

	out := make([]string, 0, len(tokens)+1)
	for _, s := range append([]string{name}, tokens...) {
		if strings.IndexByte(s, 0) >= 0 {
			return nil, fmt.Errorf("%w %q: embedded NUL", ErrDecode, s)
		}
		if isUTF8 {
			if !utf8.ValidString(s) {
				return nil, fmt.Errorf("%w %q: invalid UTF-8", ErrDecode, s)
			}
			out = append(out, s)
			continue
		}
		decoded, err := enc.NewDecoder().String(s)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrDecode, s, err)
		}
		out = append(out, decoded)
	}
	return out, nil
}
