// Package child supervises the package-manager process: it starts the
// command attached to a fresh pseudo-terminal, owns the pty master, and
// reports how the child exited.
package child

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"
)

// Runner yields the command to supervise. It stands in for the resolution
// and installation engine, which alone decides what gets run.
type Runner interface {
	Command() *exec.Cmd
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func() *exec.Cmd

func (f RunnerFunc) Command() *exec.Cmd { return f() }

// Proc is a live child attached to a pseudo-terminal. At most one Proc
// exists per multiplexer run; it is created by Start and consumed by Wait.
type Proc struct {
	cmd  *exec.Cmd
	ptmx *os.File
	done atomic.Bool
}

// Start asks the runner for its command and runs it under a new pty sized
// to the controlling terminal. A start failure is fatal to the whole
// operation; the terminal has not been touched yet, so there is nothing to
// unwind. A failure inside the running child surfaces later through Wait as
// a non-zero status.
func Start(r Runner) (*Proc, error) {
	cmd := r.Command()
	ensureTerm(cmd)

	var (
		ptmx *os.File
		err  error
	)
	if ws, werr := pty.GetsizeFull(os.Stdin); werr == nil {
		ptmx, err = pty.StartWithSize(cmd, ws)
	} else {
		// No controlling terminal to inherit from; the pty library
		// falls back to its own default geometry.
		ptmx, err = pty.Start(cmd)
	}
	if err != nil {
		return nil, fmt.Errorf("start %s under pty: %w", cmd.Path, err)
	}
	return &Proc{cmd: cmd, ptmx: ptmx}, nil
}

// ensureTerm pins TERM to an xterm flavor. Package maintainer scripts behave
// well under xterm; anything more exotic is not worth supporting.
func ensureTerm(cmd *exec.Cmd) {
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	for i, kv := range env {
		if strings.HasPrefix(kv, "TERM=") {
			if !strings.Contains(kv, "xterm") {
				env[i] = "TERM=xterm"
			}
			cmd.Env = env
			return
		}
	}
	cmd.Env = append(env, "TERM=xterm")
}

// Master returns the pty master. Reading it yields everything the child
// writes to its terminal; writing it feeds the child's stdin.
func (p *Proc) Master() *os.File { return p.ptmx }

// Pid returns the child's process id.
func (p *Proc) Pid() int { return p.cmd.Process.Pid }

// Alive reports whether the child has not yet been reaped.
func (p *Proc) Alive() bool { return !p.done.Load() }

// Signal forwards sig to the child.
func (p *Proc) Signal(sig os.Signal) error {
	if !p.Alive() {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

// Wait reaps the child and closes the pty master. Call it exactly once,
// after the pty has reached end-of-stream.
func (p *Proc) Wait() ExitStatus {
	err := p.cmd.Wait()
	p.done.Store(true)
	p.ptmx.Close()

	if state := p.cmd.ProcessState; state != nil {
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ExitStatus{Sig: ws.Signal()}
		}
		return ExitStatus{Exit: state.ExitCode()}
	}
	// Wait failed before the child ran; report a generic failure.
	_ = err
	return ExitStatus{Exit: 1}
}
