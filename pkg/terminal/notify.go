package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Notifier prints notices as plain lines and warnings in yellow.
type Notifier struct {
	w       io.Writer
	warning *color.Color
}

// NewNotifier creates a Notifier writing to w.
func NewNotifier(w io.Writer, cfg Config) *Notifier {
	warning := color.New(color.FgYellow)
	if cfg.NoColor || !IsTerminal(w) {
		warning.DisableColor()
	}

	return &Notifier{w: w, warning: warning}
}

// Notice implements trend.Notifier.
func (n *Notifier) Notice(msg string) {
	fmt.Fprintln(n.w, msg)
}

// Warning implements trend.Notifier.
func (n *Notifier) Warning(msg string) {
	n.warning.Fprintln(n.w, msg)
}

// Error prints an error in red.
func Error(w io.Writer, cfg Config, err error) {
	c := color.New(color.FgRed)
	if cfg.NoColor || !IsTerminal(w) {
		c.DisableColor()
	}

	c.Fprintf(w, "Error: %v\n", err)
}
