package app

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPrefixes are the command keywords stripped from incoming text.
var DefaultPrefixes = []string{"!roll", "/roll", "roll", "dnd"}

// StripPrefix removes the first matching keyword from the start of text. A
// keyword only matches as a whole word, so "d20" is never mistaken for the
// "dnd" keyword. Surrounding whitespace is trimmed either way.
func StripPrefix(text string, prefixes []string) string {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" || len(trimmed) < len(prefix) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(prefix)], prefix) {
			continue
		}
		rest := trimmed[len(prefix):]
		if rest == "" {
			return ""
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(r) {
			return strings.TrimSpace(rest)
		}
	}
	return trimmed
}
