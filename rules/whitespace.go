package rules

import (
	"unicode"
	"unicode/utf8"
)

// SkipFunc is a whitespace policy: given the source and an offset it returns
// the offset of the first character that is not to be skipped.
type SkipFunc func(source string, offset int) int

// NoSkip skips nothing. It is the default policy.
func NoSkip(source string, offset int) int {
	return offset
}

// SkipSpace skips Unicode white space.
func SkipSpace(source string, offset int) int {
	for offset < len(source) {
		r, size := utf8.DecodeRuneInString(source[offset:])
		if !unicode.IsSpace(r) {
			break
		}
		offset += size
	}
	return offset
}
