package child

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// Relay propagates controlling-terminal resizes to the child pty. The child
// receives its own resize notification from the kernel when the pty geometry
// changes, so curses-style programs repaint correctly.
type Relay struct {
	ch   chan os.Signal
	done chan struct{}
}

// WatchResize installs the relay and applies the terminal's current geometry
// once so the child starts in sync. tty is the real controlling terminal,
// conventionally os.Stdin.
func WatchResize(tty *os.File, p *Proc) *Relay {
	r := &Relay{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(r.ch, syscall.SIGWINCH)
	go func() {
		defer close(r.done)
		for range r.ch {
			if !p.Alive() {
				continue
			}
			// Geometry read and apply only; anything heavier does
			// not belong on the signal path.
			_ = pty.InheritSize(tty, p.Master())
		}
	}()
	r.ch <- syscall.SIGWINCH
	return r
}

// Stop uninstalls the relay. It must run before the child is reaped; a relay
// resizing a dead pty is a bug.
func (r *Relay) Stop() {
	signal.Stop(r.ch)
	close(r.ch)
	<-r.done
}
