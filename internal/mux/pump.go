package mux

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/sys/unix"
)

// chunkSize bounds one pty read. dpkg output is line-buffered, so chunks
// arrive roughly one line at a time.
const chunkSize = 4096

// pump is the event loop: it drains the child pty chunk by chunk until the
// child hangs up. A zero-length read and an EIO are the two EOF signatures
// pseudo-terminals produce; both end the loop cleanly. Anything else is a
// real error.
func (m *Mux) pump(r io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m.handleChunk(buf[:n])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || deviceGone(err) {
			return nil
		}
		if interrupted(err) {
			continue
		}
		return fmt.Errorf("read child pty: %w", err)
	}
}

// forwardStdin moves user input to the child pty, flushing partial writes.
// It runs until either end hangs up.
func (m *Mux) forwardStdin(w io.Writer) {
	buf := make([]byte, chunkSize)
	for {
		n, err := m.stdin.Read(buf)
		if n > 0 {
			if werr := writeAll(w, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// deviceGone recognizes the EIO a Linux pty returns once the child side is
// closed. It is an EOF signature, not an error.
func deviceGone(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == unix.EIO
}

func interrupted(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == unix.EINTR
}
