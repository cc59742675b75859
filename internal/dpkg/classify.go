package dpkg

import (
	"bytes"
	"strings"

	"github.com/pranshuparmar/ptymux/internal/ansi"
)

// Tag labels one line of child output.
type Tag int

const (
	// Normal lines are reformatted and shown in the live display.
	Normal Tag = iota
	// Spam lines are suppressed from the display entirely.
	Spam
	// Notice lines are shown inline and repeated in the end-of-run summary.
	Notice
	// ConfPromptStart marks the opening of a conffile conflict prompt; the
	// multiplexer must hand the terminal over before forwarding it.
	ConfPromptStart
	// ConfPromptEnd marks the CRLF that closes a conffile prompt.
	ConfPromptEnd
)

// Classified is the result of classifying one raw line.
type Classified struct {
	Tag Tag
	// Line is the decoded, trimmed text, set for Normal and Notice.
	Line string
	// Notice is set whenever the line matches the notice list, even when
	// the Tag suppresses it from the display: the end-of-run summary still
	// wants it.
	Notice bool
	// Forward carries the bytes to write through for ConfPromptStart. A
	// leading carriage return is injected because the live-region repaint
	// can otherwise swallow the prompt's first line.
	Forward []byte
}

// Classify tags one raw line from the child, terminator included. last is
// the most recent raw line retained by KeepsLast, used to recognize the end
// of a conffile prompt.
func Classify(raw, last []byte) Classified {
	if IsConfPromptEnd(raw, last) {
		return Classified{Tag: ConfPromptEnd}
	}
	if fwd, ok := ConfPromptForward(raw); ok {
		return Classified{Tag: ConfPromptStart, Forward: fwd}
	}
	// A trailing CR with no newline is an in-place repaint fragment; the
	// line's final state arrives later with a real terminator.
	if bytes.HasSuffix(raw, []byte{ansi.CR}) {
		return Classified{Tag: Spam}
	}

	line := Decode(raw)
	c := Classified{Line: line, Notice: IsNotice(raw)}
	switch {
	case IsSpam(line):
		c.Tag = Spam
	case c.Notice:
		c.Tag = Notice
	default:
		c.Tag = Normal
	}
	return c
}

// ConfPromptForward reports whether raw opens a conffile prompt and, if so,
// returns the bytes to forward in its place.
func ConfPromptForward(raw []byte) ([]byte, bool) {
	for _, tmpl := range confPrompt {
		if !bytes.Contains(raw, tmpl) {
			continue
		}
		// dpkg sometimes prints status lines that merely quote the
		// prompt text; those end in a period or a full CRLF and must
		// not trip the handover.
		if bytes.HasSuffix(raw, []byte(".")) || bytes.HasSuffix(raw, ansi.CRLF) {
			return nil, false
		}
		return append([]byte{ansi.CR}, raw...), true
	}
	return nil, false
}

// IsConfPromptEnd reports whether raw is the bare CRLF that terminates a
// conffile prompt: the previous line must be the prompt's final line or one
// of the single-byte answers.
func IsConfPromptEnd(raw, last []byte) bool {
	if !bytes.Equal(raw, ansi.CRLF) {
		return false
	}
	if bytes.Contains(last, confPrompt[len(confPrompt)-1]) && bytes.Contains(last, confFinalPrefix) {
		return true
	}
	return len(last) == 1 && bytes.IndexByte(confAnswers, last[0]) >= 0
}

// KeepsLast reports whether raw may overwrite the retained last line. A
// literal backspace means the user is editing a prompt answer; recording it
// would corrupt the comparison IsConfPromptEnd depends on.
func KeepsLast(raw []byte) bool {
	return bytes.IndexByte(raw, ansi.Backspace) < 0
}

// IsNotice reports whether raw matches the notice list.
func IsNotice(raw []byte) bool {
	for _, n := range notices {
		if bytes.Contains(raw, n) {
			return true
		}
	}
	return false
}

// IsSpam reports whether the decoded line should be suppressed.
func IsSpam(line string) bool {
	if line == "" {
		return true
	}
	// Progress fragments like "35%" repaint in place and are useless as
	// scroll entries.
	if len(line) >= 3 && line[2] == '%' {
		return true
	}
	for _, s := range spam {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// IsVerbosePassthrough reports whether raw should bypass formatting in
// verbose mode.
func IsVerbosePassthrough(raw []byte) bool {
	for _, v := range verbosePassthrough {
		if bytes.Contains(raw, v) {
			return true
		}
	}
	return false
}

// IsChangelog reports whether raw belongs to a changelog pager and must pass
// straight through in every mode.
func IsChangelog(raw []byte) bool {
	return bytes.Contains(raw, changelogs)
}

// Decode converts raw bytes to trimmed text, replacing invalid UTF-8 rather
// than dropping it.
func Decode(raw []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
}
