package mux

import (
	"bytes"

	"github.com/pranshuparmar/ptymux/internal/ansi"
	"github.com/pranshuparmar/ptymux/internal/dpkg"
)

// handleChunk routes one chunk of child output. Every chunk reaches the
// transcript log regardless of what the screen shows.
func (m *Mux) handleChunk(chunk []byte) {
	m.log.RawChunk(chunk)

	if dpkg.IsChangelog(chunk) {
		m.writeOut(chunk)
		return
	}
	if m.opts.Raw {
		m.writeOut(chunk)
		return
	}
	if m.opts.Verbose && dpkg.IsVerbosePassthrough(chunk) {
		m.writeOut(chunk)
		return
	}

	if fwd, ok := dpkg.ConfPromptForward(chunk); ok {
		chunk = fwd
		m.enterRaw()
	}
	if ansi.ContainsAny(chunk, ansi.SaveTerm, ansi.EnableBracketedPaste, ansi.EnableAltScreen) {
		m.enterRaw()
	}

	if m.mode == ModeRaw {
		m.rawChunk(chunk)
		return
	}
	m.formattedChunk(chunk)
}

// rawChunk forwards bytes untouched and watches for the way back: the
// restore-terminal or bracketed-paste-disable sequence, or the CRLF closing
// a conffile prompt. Alt-screen disable is deliberately not an exit token:
// dialog-based debconf frontends toggle the alt screen mid-session.
func (m *Mux) rawChunk(chunk []byte) {
	m.writeOut(chunk)
	if ansi.ContainsAny(chunk, ansi.RestoreTerm, ansi.DisableBracketedPaste) || dpkg.IsConfPromptEnd(chunk, m.last) {
		m.exitRaw()
	}
	m.setLast(chunk)
}

// formattedChunk splits the chunk into lines, classifies each and feeds the
// survivors to the display. Terminators stay attached so the classifier can
// tell a finished line from an in-place repaint fragment.
func (m *Mux) formattedChunk(chunk []byte) {
	for rest := chunk; len(rest) > 0; {
		var raw []byte
		if i := bytes.IndexByte(rest, ansi.LF); i >= 0 {
			raw, rest = rest[:i+1], rest[i+1:]
		} else {
			raw, rest = rest, nil
		}
		c := dpkg.Classify(raw, m.last)
		if c.Notice {
			m.addNotice(c.Line)
		}
		switch c.Tag {
		case dpkg.Spam:
			// Logged already, never displayed.
		case dpkg.Notice, dpkg.Normal:
			m.emitLine(dpkg.Format(c.Line, m.color()))
		default:
			// Prompt transitions are chunk-level and handled before
			// the line split.
		}
	}
	m.setLast(chunk)
}

func (m *Mux) emitLine(msg string) {
	if m.opts.Verbose {
		m.writeOut(append([]byte(msg), ansi.CRLF...))
		return
	}
	m.display.LineClassified(msg)
}

// enterRaw hands the terminal over to the child: the display is suspended
// and the real terminal switched to character-at-a-time mode.
func (m *Mux) enterRaw() {
	if m.mode == ModeRaw {
		return
	}
	m.mode = ModeRaw
	m.display.ModeChanged(true)
	if err := m.term.EnterRaw(); err != nil {
		m.log.Warn("enter raw mode: " + err.Error())
	}
}

// exitRaw takes the terminal back: cooked discipline first, then the display
// resumes. Exactly one restore per handover.
func (m *Mux) exitRaw() {
	if m.mode == ModeFormatted {
		return
	}
	m.mode = ModeFormatted
	if err := m.term.Restore(); err != nil {
		m.log.Warn("restore cooked mode: " + err.Error())
	}
	m.display.ModeChanged(false)
}

func (m *Mux) setLast(chunk []byte) {
	if !dpkg.KeepsLast(chunk) {
		return
	}
	m.last = append(m.last[:0:0], chunk...)
}

func (m *Mux) addNotice(line string) {
	if _, ok := m.notices[line]; ok {
		return
	}
	m.notices[line] = struct{}{}
	m.noticeOrder = append(m.noticeOrder, line)
}

func (m *Mux) writeOut(p []byte) {
	_, _ = m.stdout.Write(p)
}

func (m *Mux) color() bool { return !m.opts.NoColor }
