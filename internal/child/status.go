package child

import "syscall"

// ExitStatus records how the child ended: a normal exit code, or the signal
// that killed it.
type ExitStatus struct {
	Exit int
	Sig  syscall.Signal
}

// Code maps the status to an OS-style exit code. Signal deaths become
// 128+signal so shell scripts observe the same code they would from running
// the child directly.
func (s ExitStatus) Code() int {
	if s.Sig != 0 {
		return 128 + int(s.Sig)
	}
	return s.Exit
}

// Signaled reports whether the child was killed by a signal.
func (s ExitStatus) Signaled() bool { return s.Sig != 0 }
