package dice

import (
	"fmt"
	"unicode"
)

// SyntaxError reports the rune offset at which parsing failed.
type SyntaxError struct {
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d", e.Offset)
}

// Cursor is an immutable position in source text. Advancing returns a new
// Cursor; the underlying text is shared and never written.
type Cursor struct {
	text   []rune
	offset int
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) Cursor {
	return Cursor{text: []rune(text)}
}

// Offset returns the current rune offset.
func (c Cursor) Offset() int {
	return c.offset
}

// AtEnd reports whether no runes remain.
func (c Cursor) AtEnd() bool {
	return c.offset >= len(c.text)
}

// Next returns the rune at the current offset and a cursor past it.
func (c Cursor) Next() (rune, Cursor, error) {
	if c.AtEnd() {
		return 0, c, c.fail()
	}
	return c.text[c.offset], Cursor{text: c.text, offset: c.offset + 1}, nil
}

// Expect consumes ch or fails at the current offset.
func (c Cursor) Expect(ch rune) (Cursor, error) {
	got, next, err := c.Next()
	if err != nil {
		return c, err
	}
	if got != ch {
		return c, c.fail()
	}
	return next, nil
}

// FlushWhitespace skips a run of whitespace, possibly empty.
func (c Cursor) FlushWhitespace() Cursor {
	offset := c.offset
	for offset < len(c.text) && unicode.IsSpace(c.text[offset]) {
		offset++
	}
	return Cursor{text: c.text, offset: offset}
}

func (c Cursor) fail() error {
	return &SyntaxError{Offset: c.offset}
}
