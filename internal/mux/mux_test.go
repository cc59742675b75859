package mux

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"
	"syscall"
	"testing"

	"github.com/pranshuparmar/ptymux/internal/config"
	"github.com/pranshuparmar/ptymux/internal/tui"
)

// fakeTerm counts discipline transitions.
type fakeTerm struct {
	captured int
	raws     int
	restores int
}

func (f *fakeTerm) Capture() error  { f.captured++; return nil }
func (f *fakeTerm) EnterRaw() error { f.raws++; return nil }
func (f *fakeTerm) Restore() error  { f.restores++; return nil }

// fakeDisplay records everything the multiplexer shows.
type fakeDisplay struct {
	lines []string
	modes []bool
	exits int
}

func (f *fakeDisplay) Start()                  {}
func (f *fakeDisplay) SetStatus(string)        {}
func (f *fakeDisplay) LineClassified(l string) { f.lines = append(f.lines, l) }
func (f *fakeDisplay) ModeChanged(raw bool)    { f.modes = append(f.modes, raw) }
func (f *fakeDisplay) ChildExit()              { f.exits++ }

func newTestMux(opts config.Options, d Display, t Terminal, out io.Writer) *Mux {
	m := New(opts, nil, d, t, strings.NewReader(""), out, nil)
	m.reset()
	return m
}

// The full prompt block as dpkg emits it, ending mid-line at the answer
// cursor.
const confBlock = "Configuration file '/etc/php/config.inc.php'\r\n" +
	"==> Modified (by you or by a script) since installation.\r\n" +
	" ==> Package distributor has shipped an updated version.\r\n" +
	"   What would you like to do about it ?  Your options are:\r\n" +
	"    Y or I  : install the package maintainer's version\r\n" +
	"    N or O  : keep your currently-installed version\r\n" +
	"      D     : show the differences between the versions\r\n" +
	"      Z     : start a shell to examine the situation\r\n" +
	" The default action is to keep your current version.\r\n" +
	"*** config.inc.php (Y/I/N/O/D/Z) [default=N] ?"

func TestSpamNeverDisplayed(t *testing.T) {
	d := &fakeDisplay{}
	m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &bytes.Buffer{})

	m.handleChunk([]byte("(Reading database ... 247588 files and directories currently installed.)\r\n"))
	m.handleChunk([]byte("Preparing to unpack .../chafa_1.8.0-1_amd64.deb ...\r\n"))

	if len(d.lines) != 0 {
		t.Errorf("spam reached the display: %v", d.lines)
	}
}

// needrestart repaints its progress line in place with bare-CR fragments;
// only the LF-terminated final state may land in the scroll window.
func TestRepaintFragmentsDoNotFloodDisplay(t *testing.T) {
	d := &fakeDisplay{}
	m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &bytes.Buffer{})

	m.handleChunk([]byte("Scanning processes... [ 12%]\r"))
	m.handleChunk([]byte("Scanning processes... [ 45%]\r"))
	m.handleChunk([]byte("Scanning processes... [ 81%]\r"))
	if len(d.lines) != 0 {
		t.Fatalf("repaint fragments reached the display: %v", d.lines)
	}

	m.handleChunk([]byte("Scanning processes...\r\n"))
	if len(d.lines) != 1 {
		t.Errorf("finished line displayed %d times, want 1", len(d.lines))
	}
}

func TestNoticeOnSpamLineReachesSummaryOnly(t *testing.T) {
	d := &fakeDisplay{}
	m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &bytes.Buffer{})

	m.handleChunk([]byte("Warning: Extracting templates from packages: 50%\r\n"))
	if len(d.lines) != 0 {
		t.Errorf("suppressed line reached the display: %v", d.lines)
	}
	if len(m.noticeOrder) != 1 || !strings.HasPrefix(m.noticeOrder[0], "Warning:") {
		t.Errorf("notice set = %v, want the warning recorded", m.noticeOrder)
	}
}

func TestNoticeDeduplicated(t *testing.T) {
	d := &fakeDisplay{}
	m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &bytes.Buffer{})

	notice := "Please reboot the system when convenient.\r\n"
	m.handleChunk([]byte(notice))
	m.handleChunk([]byte(notice))
	m.handleChunk([]byte(notice))

	if len(m.noticeOrder) != 1 {
		t.Fatalf("notice set holds %d entries, want 1", len(m.noticeOrder))
	}
	if m.noticeOrder[0] != "Please reboot the system when convenient." {
		t.Errorf("notice = %q, want the literal line", m.noticeOrder[0])
	}
	// Shown inline as well, every time.
	if len(d.lines) != 3 {
		t.Errorf("notice displayed %d times, want 3", len(d.lines))
	}
}

func TestConfPromptRoundTrip(t *testing.T) {
	d := &fakeDisplay{}
	term := &fakeTerm{}
	var out bytes.Buffer
	m := newTestMux(config.Options{NoColor: true}, d, term, &out)

	m.handleChunk([]byte(confBlock))
	if m.Mode() != ModeRaw {
		t.Fatal("conf prompt should switch to raw mode")
	}
	if !strings.HasPrefix(out.String(), "\r") {
		t.Error("forwarded prompt must carry the injected leading CR")
	}
	if !strings.Contains(out.String(), "(Y/I/N/O/D/Z)") {
		t.Error("prompt bytes should pass through to the terminal")
	}

	m.handleChunk([]byte("y"))
	m.handleChunk([]byte("\r\n"))
	if m.Mode() != ModeFormatted {
		t.Fatal("answer plus CRLF should return to formatted mode")
	}

	if term.raws != 1 {
		t.Errorf("EnterRaw called %d times, want exactly 1", term.raws)
	}
	if term.restores != 1 {
		t.Errorf("Restore called %d times, want exactly 1", term.restores)
	}
	wantModes := []bool{true, false}
	if len(d.modes) != 2 || d.modes[0] != wantModes[0] || d.modes[1] != wantModes[1] {
		t.Errorf("display mode events = %v, want %v", d.modes, wantModes)
	}
}

func TestConfPromptBackspacedAnswer(t *testing.T) {
	m := newTestMux(config.Options{NoColor: true}, &fakeDisplay{}, &fakeTerm{}, &bytes.Buffer{})

	m.handleChunk([]byte(confBlock))
	m.handleChunk([]byte("y"))
	m.handleChunk([]byte{0x08})
	m.handleChunk([]byte("\r\n"))

	if m.Mode() != ModeFormatted {
		t.Error("backspace before the CRLF must not break prompt termination")
	}
}

func TestBracketedPastePassthrough(t *testing.T) {
	var out bytes.Buffer
	m := newTestMux(config.Options{NoColor: true}, &fakeDisplay{}, &fakeTerm{}, &out)

	m.handleChunk([]byte("\x1b[?2004h"))
	if m.Mode() != ModeRaw {
		t.Fatal("bracketed-paste enable should switch to raw mode")
	}

	out.Reset()
	payload := []byte("pasted \x1b[31mbytes\x1b[0m exactly\r\n")
	m.handleChunk(payload)
	if !bytes.Equal(out.Bytes(), payload) {
		t.Errorf("raw bytes altered: got %q, want %q", out.Bytes(), payload)
	}

	m.handleChunk([]byte("\x1b[?2004l"))
	if m.Mode() != ModeFormatted {
		t.Error("bracketed-paste disable should return to formatted mode")
	}
}

func TestSaveTermEntersRaw(t *testing.T) {
	var out bytes.Buffer
	m := newTestMux(config.Options{NoColor: true}, &fakeDisplay{}, &fakeTerm{}, &out)

	m.handleChunk([]byte("\x1b[22;0;0t"))
	if m.Mode() != ModeRaw {
		t.Fatal("save-term should switch to raw mode")
	}
	m.handleChunk([]byte("\x1b[23;0;0t"))
	if m.Mode() != ModeFormatted {
		t.Error("restore-term should return to formatted mode")
	}
}

func TestEndToEndScenario(t *testing.T) {
	var out bytes.Buffer
	scroll := tui.NewScroll(io.Discard, 10)
	m := newTestMux(config.Options{}, scroll, &fakeTerm{}, &out)

	m.handleChunk([]byte("Unpacking foo (1.2.3) ...\r\n"))
	m.handleChunk([]byte("(Reading database ... 100 files)\r\n"))
	m.handleChunk([]byte("Setting up foo (1.2.3) ...\r\n"))

	rows := scroll.Rows()
	if len(rows) != 2 {
		t.Fatalf("scroll holds %d rows, want 2: %v", len(rows), rows)
	}
	if !strings.Contains(rows[0], "Unpacking:") || !strings.Contains(rows[0], "1.2.3") {
		t.Errorf("first row = %q, want colorized verb label and version", rows[0])
	}
	if !strings.Contains(rows[1], "Setting up:") || !strings.Contains(rows[1], "1.2.3") {
		t.Errorf("second row = %q, want colorized verb label and version", rows[1])
	}
	if !strings.Contains(rows[0], "\033[") {
		t.Errorf("rows should carry color codes by default: %q", rows[0])
	}
}

func TestChangelogAlwaysPassesThrough(t *testing.T) {
	var out bytes.Buffer
	d := &fakeDisplay{}
	m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &out)

	chunk := []byte("Reading changelogs... 50%\r")
	m.handleChunk(chunk)
	if !bytes.Equal(out.Bytes(), chunk) {
		t.Errorf("changelog bytes altered: %q", out.Bytes())
	}
	if len(d.lines) != 0 {
		t.Error("changelog output must bypass the display")
	}
}

func TestRawPassthroughMode(t *testing.T) {
	var out bytes.Buffer
	d := &fakeDisplay{}
	m := newTestMux(config.Options{Raw: true}, d, &fakeTerm{}, &out)

	chunk := []byte("Unpacking foo (1.2.3) ...\r\n")
	m.handleChunk(chunk)
	if !bytes.Equal(out.Bytes(), chunk) {
		t.Errorf("passthrough bytes altered: %q", out.Bytes())
	}
	if len(d.lines) != 0 {
		t.Error("passthrough mode must not classify lines")
	}
}

func TestVerboseEmitsPlainLines(t *testing.T) {
	var out bytes.Buffer
	d := &fakeDisplay{}
	m := newTestMux(config.Options{Verbose: true, NoColor: true}, d, &fakeTerm{}, &out)

	m.handleChunk([]byte("Unpacking foo (1.2.3) ...\r\n"))
	if got := out.String(); got != "Unpacking:  foo (1.2.3)\r\n" {
		t.Errorf("verbose output = %q", got)
	}
	if len(d.lines) != 0 {
		t.Error("verbose mode bypasses the live display")
	}

	out.Reset()
	needrestart := []byte("Scanning processes...\r")
	m.handleChunk(needrestart)
	if !bytes.Equal(out.Bytes(), needrestart) {
		t.Errorf("verbose passthrough altered: %q", out.Bytes())
	}
}

// eofReader yields data once, then the given terminal condition.
type eofReader struct {
	data []byte
	err  error
	done bool
}

func (r *eofReader) Read(p []byte) (int, error) {
	if !r.done && len(r.data) > 0 {
		n := copy(p, r.data)
		r.done = true
		return n, nil
	}
	return 0, r.err
}

func TestPumpEOFSignatures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"zero-length read", io.EOF},
		{"device gone", &fs.PathError{Op: "read", Path: "/dev/ptmx", Err: syscall.EIO}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDisplay{}
			m := newTestMux(config.Options{NoColor: true}, d, &fakeTerm{}, &bytes.Buffer{})
			r := &eofReader{data: []byte("Unpacking foo (1.2.3) ...\r\n"), err: tt.err}
			if err := m.pump(r); err != nil {
				t.Fatalf("pump returned %v, want clean termination", err)
			}
			if len(d.lines) != 1 {
				t.Errorf("displayed %d lines before EOF, want 1", len(d.lines))
			}
		})
	}
}

func TestPumpRealErrorPropagates(t *testing.T) {
	m := newTestMux(config.Options{NoColor: true}, &fakeDisplay{}, &fakeTerm{}, &bytes.Buffer{})
	bad := &fs.PathError{Op: "read", Path: "/dev/ptmx", Err: syscall.EBADF}
	if err := m.pump(&eofReader{err: bad}); !errors.Is(err, syscall.EBADF) {
		t.Errorf("pump error = %v, want wrapped EBADF", err)
	}
}

func TestWriteAllFlushesPartialWrites(t *testing.T) {
	w := &chokeWriter{limit: 3}
	if err := writeAll(w, []byte("abcdefghij")); err != nil {
		t.Fatalf("writeAll error: %v", err)
	}
	if w.buf.String() != "abcdefghij" {
		t.Errorf("wrote %q", w.buf.String())
	}
}

// chokeWriter accepts at most limit bytes per call.
type chokeWriter struct {
	buf   bytes.Buffer
	limit int
}

func (w *chokeWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.buf.Write(p)
}
