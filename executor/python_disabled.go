//go:build nopython

package executor

// PythonEnabled reports whether scripts ending in .py are routed to the
// Python engine.
const PythonEnabled = false
