package dice

import (
	"errors"
	"testing"
)

func syntaxOffset(t *testing.T, err error) int {
	t.Helper()
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	return syntaxErr.Offset
}

// TestCursorNextAdvances ensures Next returns the rune and a new cursor.
func TestCursorNextAdvances(t *testing.T) {
	start := NewCursor("d6")
	ch, next, err := start.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if ch != 'd' {
		t.Fatalf("expected 'd', got %q", ch)
	}
	if next.Offset() != 1 {
		t.Fatalf("expected offset 1, got %d", next.Offset())
	}
	if start.Offset() != 0 {
		t.Fatalf("original cursor moved to %d", start.Offset())
	}
}

// TestCursorNextAtEndFails ensures reading past the input reports the end offset.
func TestCursorNextAtEndFails(t *testing.T) {
	c := NewCursor("1")
	_, c, err := c.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	_, _, err = c.Next()
	if got := syntaxOffset(t, err); got != 1 {
		t.Fatalf("expected failure at 1, got %d", got)
	}
}

// TestCursorExpectMismatch ensures Expect fails at the pre-advance offset.
func TestCursorExpectMismatch(t *testing.T) {
	c := NewCursor("2x")
	_, c, _ = c.Next()
	_, err := c.Expect('d')
	if got := syntaxOffset(t, err); got != 1 {
		t.Fatalf("expected failure at 1, got %d", got)
	}

	next, err := NewCursor("d").Expect('d')
	if err != nil {
		t.Fatalf("Expect returned error: %v", err)
	}
	if !next.AtEnd() {
		t.Fatalf("expected cursor at end, offset %d", next.Offset())
	}
}

// TestCursorFlushWhitespace ensures whitespace runs of any length are skipped.
func TestCursorFlushWhitespace(t *testing.T) {
	tcs := []struct {
		input string
		want  int
	}{
		{input: "", want: 0},
		{input: "+", want: 0},
		{input: " \t\n+", want: 3},
		{input: "   ", want: 3},
		{input: " +", want: 1},
	}
	for _, tc := range tcs {
		got := NewCursor(tc.input).FlushWhitespace().Offset()
		if got != tc.want {
			t.Fatalf("FlushWhitespace(%q) offset = %d, want %d", tc.input, got, tc.want)
		}
	}
}

// TestCursorOffsetsCountRunes ensures offsets index runes rather than bytes.
func TestCursorOffsetsCountRunes(t *testing.T) {
	c := NewCursor("é1")
	_, c, _ = c.Next()
	ch, _, err := c.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if ch != '1' || c.Offset() != 1 {
		t.Fatalf("expected '1' at offset 1, got %q at %d", ch, c.Offset())
	}
}
