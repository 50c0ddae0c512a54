package python

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path"
)

//go:embed scriptrun.py
var helperModule string

const (
	guestMainDir    = "/main"
	guestLibDir     = "/lib"
	guestScriptsDir = "/scripts"
)

const bootstrapTemplate = `import sys
sys.argv = sys.argv[1:]
sys.path[0:0] = %s
__file__ = %s
with open(__file__) as _f:
    _code = compile(_f.read(), __file__, "exec")
exec(_code, {"__name__": "__main__", "__file__": __file__, "__builtins__": __builtins__})
`

// bootstrap returns the -c program that runs file as __main__ with
// searchPath prepended to sys.path. Strings are embedded as JSON literals,
// which Python reads as string literals too.
func bootstrap(file string, searchPath []string) string {
	p, _ := json.Marshal(searchPath)
	f, _ := json.Marshal(file)
	return fmt.Sprintf(bootstrapTemplate, p, f)
}

// guestArgs builds the interpreter argv. args holds the decoded script name
// followed by its tokens.
func guestArgs(file string, searchPath []string, args []string) []string {
	argv := []string{"python", "-c", bootstrap(file, searchPath)}
	return append(argv, args...)
}

func guestScriptDir(class string) string {
	return path.Join(guestScriptsDir, class)
}
