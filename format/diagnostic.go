package format

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/peg/rules"
)

// Diagnostic renders a match error for humans:
//
//	input.txt:1:13: terminal failed to match (";")
//	  let x = 1 + ;
//	              ^
//
// Errors that carry no offset are returned as their message.
func Diagnostic(filename, source string, err error) string {
	var ruleErr *rules.RuleError
	var fatal *rules.FatalError

	var offset int
	var message string
	switch {
	case errors.As(err, &ruleErr):
		offset = ruleErr.Offset
		message = ruleErr.Reason
		if ruleErr.Rule != nil {
			message = fmt.Sprintf("%s (%s)", message, ruleErr.Rule)
		}
	case errors.As(err, &fatal):
		offset = fatal.Offset
		message = "grammar error: " + fatal.Message
	default:
		return err.Error()
	}

	pos := rules.Locate(source, offset)
	pos.Filename = filename
	line := rules.LineAt(source, offset)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", pos, message)
	fmt.Fprintf(&sb, "  %s\n", line)
	fmt.Fprintf(&sb, "  %s^\n", caretPadding(line, pos.Column-1))
	return sb.String()
}

// caretPadding reproduces tabs from the line so the caret lines up.
func caretPadding(line string, columns int) string {
	var sb strings.Builder
	for i := 0; i < columns && line != ""; i++ {
		r, size := utf8.DecodeRuneInString(line)
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		line = line[size:]
	}
	return sb.String()
}
