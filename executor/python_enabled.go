//go:build !nopython

package executor

// PythonEnabled reports whether scripts ending in .py are routed to the
// Python engine. Build with -tags nopython to leave it out.
const PythonEnabled = true
