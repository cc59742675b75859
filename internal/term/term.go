// Package term controls the line discipline of the real controlling
// terminal: cooked for the live display, raw while an interactive prompt or
// embedded shell owns the screen.
package term

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Controller saves the terminal's discipline once and restores it on demand.
// Restore is safe to call any number of times on any exit path; the terminal
// is never left raw.
type Controller struct {
	fd    int
	saved *term.State
	raw   bool
}

// NewController returns a controller for the terminal behind f,
// conventionally os.Stdin.
func NewController(f *os.File) *Controller {
	return &Controller{fd: int(f.Fd())}
}

// Capture records the current discipline. It must be called before the first
// EnterRaw and is a no-op when called again.
func (c *Controller) Capture() error {
	if c.saved != nil {
		return nil
	}
	st, err := term.GetState(c.fd)
	if err != nil {
		return fmt.Errorf("capture terminal state: %w", err)
	}
	c.saved = st
	return nil
}

// EnterRaw switches the terminal to character-at-a-time unechoed mode.
func (c *Controller) EnterRaw() error {
	if c.saved == nil {
		if err := c.Capture(); err != nil {
			return err
		}
	}
	if c.raw {
		return nil
	}
	if _, err := term.MakeRaw(c.fd); err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	c.raw = true
	return nil
}

// Restore returns the terminal to the captured discipline.
func (c *Controller) Restore() error {
	if c.saved == nil {
		return nil
	}
	if err := term.Restore(c.fd, c.saved); err != nil {
		return fmt.Errorf("restore terminal state: %w", err)
	}
	c.raw = false
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
