package rules

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the primitive or combinator that reported a RuleError.
type ErrorKind int

const (
	TerminalError ErrorKind = iota + 1
	RegexError
	PredicateError
	EndOfStreamError
)

func (k ErrorKind) String() string {
	switch k {
	case TerminalError:
		return "TerminalError"
	case RegexError:
		return "RegexError"
	case PredicateError:
		return "PredicateError"
	case EndOfStreamError:
		return "EndOfStreamError"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is on a *RuleError.
var (
	ErrTerminal    = errors.New("terminal failed to match")
	ErrRegex       = errors.New("regex failed to match")
	ErrPredicate   = errors.New("predicate matched")
	ErrEndOfStream = errors.New("expected end of input")
)

// RuleError is an ordinary match failure: the rule did not match at Offset.
//
// For rules that skip whitespace, Offset is the position before any
// whitespace was skipped.
type RuleError struct {
	Kind   ErrorKind
	Offset int
	Reason string
	Rule   Rule // rule that failed, for diagnostics only
}

func (e *RuleError) Error() string {
	if e.Rule == nil {
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("offset %d: %s (%s)", e.Offset, e.Reason, e.Rule)
}

func (e *RuleError) Unwrap() error {
	switch e.Kind {
	case TerminalError:
		return ErrTerminal
	case RegexError:
		return ErrRegex
	case PredicateError:
		return ErrPredicate
	case EndOfStreamError:
		return ErrEndOfStream
	}
	return nil
}

// further returns whichever error lies further into the input. Ties go to
// b, the more recently evaluated candidate.
func further(a, b *RuleError) *RuleError {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Offset >= a.Offset {
		return b
	}
	return a
}

// FatalKind classifies a FatalError.
type FatalKind int

const (
	// UnassignedRule: a declared rule was matched before Assign was called.
	UnassignedRule FatalKind = iota + 1
	// InfiniteLoop: a repeated rule succeeded without consuming input.
	InfiniteLoop
	// MalformedRule: a nil rule or a choice without alternatives.
	MalformedRule
)

func (k FatalKind) String() string {
	switch k {
	case UnassignedRule:
		return "UnassignedRule"
	case InfiniteLoop:
		return "InfiniteLoop"
	case MalformedRule:
		return "MalformedRule"
	default:
		return "Unknown"
	}
}

// FatalError reports a malformed grammar. It aborts the whole match and is
// never caught by combinators.
type FatalError struct {
	Kind    FatalKind
	Offset  int
	Rule    Rule
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %s at offset %d", e.Message, e.Offset)
}

func abort(kind FatalKind, offset int, rule Rule, format string, args ...any) {
	panic(&FatalError{
		Kind:    kind,
		Offset:  offset,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}
