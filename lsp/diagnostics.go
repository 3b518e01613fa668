package lsp

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/peg/rules"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// diagnose matches text against entry and converts a failure into a
// single error diagnostic. A successful match yields an empty list.
func diagnose(entry rules.Rule, skip rules.SkipFunc, text, source string) []protocol.Diagnostic {
	_, err := rules.Match(entry, text, rules.WithWhitespace(skip))
	if err == nil {
		return []protocol.Diagnostic{}
	}

	offset := 0
	message := err.Error()

	var ruleErr *rules.RuleError
	var fatal *rules.FatalError
	switch {
	case errors.As(err, &ruleErr):
		offset = ruleErr.Offset
		message = ruleErr.Reason
		if ruleErr.Rule != nil {
			message = fmt.Sprintf("%s (%s)", message, ruleErr.Rule)
		}
	case errors.As(err, &fatal):
		message = "grammar error: " + fatal.Message
	}

	pos := position(text, offset)
	severity := protocol.DiagnosticSeverityError
	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}}
}

// position converts a byte offset into a zero-based line and a UTF-16
// character index.
func position(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))

	var line, character protocol.UInteger
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' {
			line++
			character = 0
		} else if n := utf16.RuneLen(r); n > 0 {
			character += protocol.UInteger(n)
		} else {
			character++
		}
		i += size
	}

	return protocol.Position{Line: line, Character: character}
}
