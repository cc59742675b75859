// Package ansi holds the small set of terminal control sequences ptymux
// recognizes on child output or emits while repainting the live region.
package ansi

import "bytes"

var (
	CursorUp  = []byte("\x1b[1A")
	ClearLine = []byte("\x1b[2K")

	ShowCursor = []byte("\x1b[?25h")
	HideCursor = []byte("\x1b[?25l")

	// Emitted by programs that take over the terminal (editors, pagers,
	// debconf shells). Seeing one of these on the pty means the child wants
	// a real terminal, not a reformatted one.
	SaveTerm    = []byte("\x1b[22;0;0t")
	RestoreTerm = []byte("\x1b[23;0;0t")

	EnableBracketedPaste  = []byte("\x1b[?2004h")
	DisableBracketedPaste = []byte("\x1b[?2004l")

	EnableAltScreen  = []byte("\x1b[?1049h")
	DisableAltScreen = []byte("\x1b[?1049l")
)

const (
	Backspace = 0x08
	CR        = '\r'
	LF        = '\n'
)

var CRLF = []byte("\r\n")

// ContainsAny reports whether chunk contains at least one of the sequences.
func ContainsAny(chunk []byte, seqs ...[]byte) bool {
	for _, seq := range seqs {
		if bytes.Contains(chunk, seq) {
			return true
		}
	}
	return false
}
