// Package mux is the interactive output multiplexer: it supervises the
// package-manager child behind a pseudo-terminal, reformats its status lines
// into the live display, and hands the real terminal over whenever the child
// starts an interactive prompt, shell or pager.
package mux

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pranshuparmar/ptymux/internal/child"
	"github.com/pranshuparmar/ptymux/internal/config"
	"github.com/pranshuparmar/ptymux/internal/logging"
	"github.com/pranshuparmar/ptymux/internal/tui"
)

// Mode says how child output is currently treated.
type Mode int

const (
	// ModeFormatted classifies and reformats lines into the live display.
	ModeFormatted Mode = iota
	// ModeRaw passes bytes through untouched; the child owns the screen.
	ModeRaw
)

// Display receives what the multiplexer decides to show. One concrete
// implementation (the tui scroll region) covers the normal case; verbose and
// passthrough runs use NopDisplay.
type Display interface {
	Start()
	SetStatus(status string)
	LineClassified(line string)
	ModeChanged(raw bool)
	ChildExit()
}

// Terminal owns the real terminal's line discipline.
type Terminal interface {
	Capture() error
	EnterRaw() error
	Restore() error
}

// NopTerminal stands in when there is no controlling terminal to manage,
// such as piped verbose runs.
type NopTerminal struct{}

func (NopTerminal) Capture() error  { return nil }
func (NopTerminal) EnterRaw() error { return nil }
func (NopTerminal) Restore() error  { return nil }

// NopDisplay discards every display event.
type NopDisplay struct{}

func (NopDisplay) Start()                {}
func (NopDisplay) SetStatus(string)      {}
func (NopDisplay) LineClassified(string) {}
func (NopDisplay) ModeChanged(bool)      {}
func (NopDisplay) ChildExit()            {}

// Mux multiplexes one child process's terminal I/O. It is single-threaded:
// every chunk is handled synchronously on the pump loop, so no state here
// needs locking.
type Mux struct {
	opts    config.Options
	log     *logging.Logger
	display Display
	term    Terminal
	stdin   io.Reader
	stdout  io.Writer
	tty     *os.File

	mode        Mode
	last        []byte
	notices     map[string]struct{}
	noticeOrder []string
}

// New builds a multiplexer. tty is the real controlling terminal used for
// resize propagation; it may be nil when there is none.
func New(opts config.Options, log *logging.Logger, d Display, t Terminal, stdin io.Reader, stdout io.Writer, tty *os.File) *Mux {
	if log == nil {
		log = logging.Nop()
	}
	if d == nil {
		d = NopDisplay{}
	}
	return &Mux{
		opts:    opts,
		log:     log,
		display: d,
		term:    t,
		stdin:   stdin,
		stdout:  stdout,
		tty:     tty,
	}
}

// Run supervises the runner's command until it exits and returns its
// OS-style exit code. The terminal is restored to its captured discipline on
// every path out of here.
func (m *Mux) Run(r child.Runner) (int, error) {
	m.reset()

	proc, err := child.Start(r)
	if err != nil {
		// Nothing to unwind: the terminal is captured only after a
		// successful start.
		return 1, err
	}

	if err := m.term.Capture(); err != nil {
		_ = proc.Signal(os.Kill)
		proc.Wait()
		return 1, err
	}
	defer func() {
		// Best effort, but always attempted: never leave the user's
		// shell raw.
		_ = m.term.Restore()
	}()

	var relay *child.Relay
	if m.tty != nil {
		relay = child.WatchResize(m.tty, proc)
	}

	// A terminating signal must not bypass the deferred restore; forward
	// it to the child and let the pty reach end-of-stream naturally.
	intc := make(chan os.Signal, 1)
	signal.Notify(intc, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range intc {
			_ = proc.Signal(sig)
		}
	}()
	defer func() {
		signal.Stop(intc)
		close(intc)
	}()

	if m.opts.Raw {
		m.mode = ModeRaw
		_ = m.term.EnterRaw()
	} else {
		m.display.SetStatus("Running dpkg...")
		m.display.Start()
	}

	go m.forwardStdin(proc.Master())

	pumpErr := m.pump(proc.Master())

	if relay != nil {
		relay.Stop()
	}
	status := proc.Wait()
	m.display.ChildExit()
	if err := m.term.Restore(); err != nil {
		m.log.Warn("terminal restore failed: " + err.Error())
	}
	m.summarize(status)
	return status.Code(), pumpErr
}

// Mode returns the current treatment of child output.
func (m *Mux) Mode() Mode { return m.mode }

func (m *Mux) reset() {
	m.mode = ModeFormatted
	m.last = nil
	m.notices = make(map[string]struct{})
	m.noticeOrder = nil
}

func (m *Mux) summarize(status child.ExitStatus) {
	if len(m.noticeOrder) > 0 {
		fmt.Fprintf(m.stdout, "\n%s\n", tui.Heading("Notices:"))
		for _, n := range m.noticeOrder {
			fmt.Fprintln(m.stdout, n)
		}
	}
	switch {
	case status.Code() == 0:
		fmt.Fprintln(m.stdout, tui.Success("Finished Successfully"))
	case status.Signaled():
		fmt.Fprintln(m.stdout, tui.Failure(fmt.Sprintf("Terminated by signal %s", status.Sig)))
	default:
		fmt.Fprintln(m.stdout, tui.Failure(fmt.Sprintf("Exited with status %d", status.Exit)))
	}
}
