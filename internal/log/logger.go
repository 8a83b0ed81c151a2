package log

import (
	"fmt"
	"io"
)

// Logger writes verbose diagnostic messages when Enabled is true.
// Output goes to the configured writer (typically stderr).
type Logger struct {
	Enabled bool
	W       io.Writer
}

// New returns a logger writing to w, gated by enabled.
func New(w io.Writer, enabled bool) *Logger {
	return &Logger{Enabled: enabled, W: w}
}

// Printf writes a formatted message to W when Enabled is true.
// It is a no-op when Enabled is false, and safe on a nil receiver.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	_, _ = fmt.Fprintf(l.W, format+"\n", args...)
}
