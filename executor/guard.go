package executor

// DefaultMaxNested is the default recursion ceiling for Lua scripts.
const DefaultMaxNested = 10

// Guard counts nested Lua invocations and refuses new ones past a fixed
// ceiling. It is not a lock: all dispatch happens on one logical thread.
type Guard struct {
	depth int
	max   int
}

// NewGuard returns a guard admitting at most max nested entries.
// A non-positive max falls back to DefaultMaxNested.
func NewGuard(max int) *Guard {
	if max <= 0 {
		max = DefaultMaxNested
	}
	return &Guard{max: max}
}

// Enter admits one more nested invocation. It returns false, leaving the
// depth unchanged, when the ceiling has been reached.
func (g *Guard) Enter() bool {
	if g.depth >= g.max {
		return false
	}
	g.depth++
	return true
}

// Leave releases an admission obtained from Enter.
func (g *Guard) Leave() {
	if g.depth > 0 {
		g.depth--
	}
}

// Depth returns the number of invocations currently admitted.
func (g *Guard) Depth() int {
	return g.depth
}

// Max returns the ceiling.
func (g *Guard) Max() int {
	return g.max
}
