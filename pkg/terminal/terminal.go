// Package terminal renders progress, notices and summaries on the diagnostic
// stream.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Config holds terminal rendering configuration.
type Config struct {
	NoColor bool
}

// NewConfig creates a Config from the environment.
func NewConfig() Config {
	return Config{NoColor: os.Getenv("NO_COLOR") != ""}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
