package dpkg

import (
	"regexp"
	"strings"
)

var (
	colorReset = "\033[0m"
	colorRed   = "\033[1;31m"
	colorGreen = "\033[1;32m"
	colorBlue  = "\033[1;34m"
	colorBold  = "\033[1m"
)

var versionToken = regexp.MustCompile(`^\(.+\)$`)

// verbLabels rewrites the leading verb of a status line into a fixed,
// padded label so the scroll entries line up.
var verbLabels = []struct {
	verb  string
	label string
	color string
}{
	{"Removing", "Removing:   ", colorRed},
	{"Unpacking", "Unpacking:  ", colorGreen},
	{"Setting up", "Setting up: ", colorGreen},
	{"Processing", "Processing: ", colorGreen},
}

// Format rewrites one status line for the live display: the leading verb
// becomes a colorized label, parenthesized version tokens are colorized, and
// the trailing ellipsis dpkg loves is dropped. Every other word is kept in
// its original order.
func Format(line string, color bool) string {
	var b strings.Builder

	rest := line
	for _, v := range verbLabels {
		if !strings.HasPrefix(line, v.verb+" ") {
			continue
		}
		if color {
			b.WriteString(v.color + v.label + colorReset)
		} else {
			b.WriteString(v.label)
		}
		rest = strings.TrimPrefix(line, v.verb+" ")
		break
	}

	first := true
	for _, word := range strings.Fields(rest) {
		switch {
		case word == "...":
			continue
		case versionToken.MatchString(word):
			if !first {
				b.WriteByte(' ')
			}
			inner := strings.Trim(word, "()")
			if color {
				b.WriteString(colorBold + "(" + colorReset)
				b.WriteString(colorBlue + inner + colorReset)
				b.WriteString(colorBold + ")" + colorReset)
			} else {
				b.WriteString("(" + inner + ")")
			}
		default:
			if !first {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
		first = false
	}
	return b.String()
}
