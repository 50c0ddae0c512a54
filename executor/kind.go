package executor

import "strings"

// Kind identifies which embedded engine runs a script.
type Kind int

const (
	// KindLua is the re-entrant Lua scripting engine. It is the default.
	KindLua Kind = iota
	// KindCmd is the line-macro player fed from the command-source stack.
	KindCmd
	// KindPython is the WASI Python interpreter. Only selected when a Python
	// engine was compiled in (see PythonEnabled).
	KindPython
)

// Kinds returns the kinds available in this build, in listing order.
func Kinds() []Kind {
	if PythonEnabled {
		return []Kind{KindLua, KindCmd, KindPython}
	}
	return []Kind{KindLua, KindCmd}
}

func (k Kind) String() string {
	switch k {
	case KindLua:
		return "lua"
	case KindCmd:
		return "cmd"
	case KindPython:
		return "python"
	default:
		return "unknown"
	}
}

// Extension returns the file suffix, including the dot, of scripts of this kind.
func (k Kind) Extension() string {
	switch k {
	case KindCmd:
		return ".cmd"
	case KindPython:
		return ".py"
	default:
		return ".lua"
	}
}

// Subdir returns the directory, relative to each search root, that holds
// scripts of this kind.
func (k Kind) Subdir() string {
	switch k {
	case KindCmd:
		return "cmdscripts"
	case KindPython:
		return "pyscripts"
	default:
		return "luascripts"
	}
}

// Select picks the engine for a script name by its extension, ignoring case.
// Names without a recognised extension run on the Lua engine.
func Select(name string) Kind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, KindCmd.Extension()):
		return KindCmd
	case PythonEnabled && strings.HasSuffix(lower, KindPython.Extension()):
		return KindPython
	default:
		return KindLua
	}
}
