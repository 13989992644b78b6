package app

import (
	"strings"

	"golang.org/x/text/width"
)

const parseErrorHeading = "Error parsing dice"

// RenderSyntaxError renders the expression with a caret under the rune at
// offset:
//
//	Error parsing dice
//	```
//	| 1d6x
//	|    ^
//	```
//
// Wide and fullwidth runes take two columns of padding so the caret stays
// aligned in a monospace block.
func RenderSyntaxError(text string, offset int) string {
	var b strings.Builder
	b.WriteString(parseErrorHeading)
	b.WriteString("\n```\n| ")
	b.WriteString(text)
	b.WriteString("\n| ")
	b.WriteString(caretPadding(text, offset))
	b.WriteString("^\n```")
	return b.String()
}

func caretPadding(text string, offset int) string {
	columns := 0
	i := 0
	for _, r := range text {
		if i >= offset {
			break
		}
		columns += runeColumns(r)
		i++
	}
	if offset > i {
		columns += offset - i
	}
	return strings.Repeat(" ", columns)
}

func runeColumns(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
