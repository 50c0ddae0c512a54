package executor

import (
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		line string
		want Request
	}{
		{"", Request{}},
		{"hello", Request{Name: "hello"}},
		{"foo.lua hello world", Request{Name: "foo.lua", Args: "hello world"}},
		{"  foo.lua   a   b  ", Request{Name: "foo.lua", Args: "a   b  "}},
		{"foo.lua\targs", Request{Name: "foo.lua", Args: "args"}},
		{"foo.lua a b\r\nignored", Request{Name: "foo.lua", Args: "a b"}},
		{"foo.lua\nnext", Request{Name: "foo.lua", Args: "next"}},
	}

	for _, tt := range tests {
		if got := ParseRequest(tt.line); got != tt.want {
			t.Errorf("ParseRequest(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseRequestLimits(t *testing.T) {
	name := strings.Repeat("n", 200)
	args := strings.Repeat("a", 300)

	got := ParseRequest(name + " " + args)
	if len(got.Name) != MaxNameLen {
		t.Errorf("name length = %d, want %d", len(got.Name), MaxNameLen)
	}
	if len(got.Args) != MaxArgsLen {
		t.Errorf("args length = %d, want %d", len(got.Args), MaxArgsLen)
	}
}
