package rules

import (
	"fmt"
	"unicode/utf8"
)

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Locate converts a byte offset in source into a Position. Offsets past
// the end of source are clamped to it.
func Locate(source string, offset int) Position {
	offset = max(0, min(offset, len(source)))
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		i += size
	}
	return pos
}

// LineAt returns the full line of source containing offset, without the
// trailing newline.
func LineAt(source string, offset int) string {
	offset = max(0, min(offset, len(source)))
	start := offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return source[start:end]
}
