// Package tui renders the live region: a rolling window of the most recent
// formatted status lines with a persistent spinner row underneath, repainted
// in place on every update.
package tui

import (
	"bytes"
	"io"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/pranshuparmar/ptymux/internal/ansi"
)

// DefaultHeight bounds the live region, spinner row included.
const DefaultHeight = 10

// Scroll is the bounded live region. It is driven synchronously by the
// multiplexer's event loop; there is no ticker and no second goroutine, the
// spinner advances one frame per repaint.
type Scroll struct {
	out    io.Writer
	max    int
	rows   []string
	spin   spinner.Spinner
	frame  int
	status string
	drawn  int
	active bool
}

// NewScroll returns a display writing to out, holding at most max rows
// including the spinner row. The floor is one line plus the spinner; callers
// wanting an error instead of the clamp validate before construction.
func NewScroll(out io.Writer, max int) *Scroll {
	if max < 2 {
		max = 2
	}
	return &Scroll{
		out:    out,
		max:    max,
		spin:   spinner.MiniDot,
		status: "Working...",
	}
}

// Start hides the cursor and paints the initial region.
func (s *Scroll) Start() {
	if s.active {
		return
	}
	s.active = true
	s.out.Write(ansi.HideCursor)
	s.render()
}

// SetStatus replaces the spinner row's text.
func (s *Scroll) SetStatus(text string) {
	s.status = text
	if s.active {
		s.render()
	}
}

// Rows returns the current window contents, oldest first, spinner excluded.
func (s *Scroll) Rows() []string { return s.rows }

// LineClassified appends a formatted line, evicting the oldest once the
// window is full. The spinner row always stays last.
func (s *Scroll) LineClassified(line string) {
	s.rows = append(s.rows, line)
	if len(s.rows) > s.max-1 {
		s.rows = s.rows[1:]
	}
	if s.active {
		s.render()
	}
}

// ModeChanged suspends the region when the terminal is handed over raw and
// resumes it when formatted output returns.
func (s *Scroll) ModeChanged(raw bool) {
	if raw {
		s.suspend()
	} else {
		s.resume()
	}
}

// ChildExit erases the spinner row, leaves the scroll content in place and
// gives the cursor back.
func (s *Scroll) ChildExit() {
	if !s.active {
		s.out.Write(ansi.ShowCursor)
		return
	}
	var b bytes.Buffer
	b.Write(ansi.CursorUp)
	b.Write(ansi.ClearLine)
	b.WriteByte(ansi.CR)
	b.Write(ansi.ShowCursor)
	s.out.Write(b.Bytes())
	s.drawn = 0
	s.active = false
}

func (s *Scroll) render() {
	var b bytes.Buffer
	for i := 0; i < s.drawn; i++ {
		b.Write(ansi.CursorUp)
		b.Write(ansi.ClearLine)
	}
	b.WriteByte(ansi.CR)
	for _, row := range s.rows {
		b.WriteString(row)
		b.Write(ansi.CRLF)
	}
	frame := s.spin.Frames[s.frame%len(s.spin.Frames)]
	s.frame++
	b.WriteString(spinnerStyle.Render(frame))
	b.WriteByte(' ')
	b.WriteString(statusStyle.Render(s.status))
	b.Write(ansi.CRLF)
	s.out.Write(b.Bytes())
	s.drawn = len(s.rows) + 1
}

// suspend repaints once, then erases the spinner row: raw passthrough takes
// over the screen from exactly that position.
func (s *Scroll) suspend() {
	if !s.active {
		return
	}
	s.render()
	var b bytes.Buffer
	b.Write(ansi.CursorUp)
	b.Write(ansi.ClearLine)
	b.WriteByte(ansi.CR)
	b.Write(ansi.ShowCursor)
	s.out.Write(b.Bytes())
	s.drawn = 0
	s.active = false
}

// resume takes the screen back after raw passthrough. Whatever the child
// drew stays above; the region restarts below it.
func (s *Scroll) resume() {
	if s.active {
		return
	}
	s.active = true
	s.out.Write(ansi.HideCursor)
	s.render()
}
