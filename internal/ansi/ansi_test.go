package ansi

import "testing"

func TestContainsAny(t *testing.T) {
	chunk := []byte("before\x1b[?2004hafter")
	if !ContainsAny(chunk, SaveTerm, EnableBracketedPaste) {
		t.Error("embedded sequence not found")
	}
	if ContainsAny(chunk, RestoreTerm, DisableBracketedPaste) {
		t.Error("absent sequences reported present")
	}
	if ContainsAny(nil, SaveTerm) {
		t.Error("empty chunk cannot contain anything")
	}
}
