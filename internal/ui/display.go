package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is assumed when stdout is not a terminal or size
// detection fails (piped output, CI logs).
const DefaultTermWidth = 120

// maxDocWidth caps markdown wrap width; prose wider than this is hard to scan.
const maxDocWidth = 100

// DisplayContext captures the terminal facts rendering decisions hang off:
// whether stdout is a TTY and how wide it is.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext probes stdout once and returns the result.
func NewDisplayContext() *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}

	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return d
	}
	d.IsTTY = true
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// DocWidth returns the wrap width for rendered markdown: the terminal
// width, clamped to maxDocWidth.
func (d *DisplayContext) DocWidth() int {
	if d.TermWidth > maxDocWidth {
		return maxDocWidth
	}
	return d.TermWidth
}
