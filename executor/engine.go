package executor

import "context"

// Engine runs resolved scripts of one Kind. Implementations own the whole
// lifecycle of their interpreter for the duration of a single Run call: the
// instance is created, used and released before Run returns, on every path.
type Engine interface {
	// Kind returns the kind of script this engine runs.
	Kind() Kind

	// Run executes the script described by inv. Failures inside the script
	// are reported to the user and do not turn into a failing status; only
	// problems of the dispatcher itself do.
	Run(ctx context.Context, inv *Invocation) Status
}

// Script is a script file located by the resolver.
type Script struct {
	Path string
	Kind Kind
}

// Invocation is one dispatched run request.
type Invocation struct {
	// Name is the script name as typed by the user.
	Name string
	// Args is the raw argument string, unsplit.
	Args string
	// Script is the resolved file.
	Script Script
	// Host is the dispatcher that issued the invocation.
	Host *Executor
}

// Tokens returns the argument string split on whitespace.
func (inv *Invocation) Tokens() []string {
	return Tokenize(inv.Args)
}
