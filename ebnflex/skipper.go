// Package ebnflex provides whitespace policies derived from EBNF grammars.
package ebnflex

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/peg/rules"
	"golang.org/x/exp/ebnf"
)

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Skipper skips trivia (white space, comments) described by productions of
// an EBNF grammar.
type Skipper struct {
	grammar ebnf.Grammar
	trivia  []string
}

// NewSkipper returns a Skipper that consumes any sequence of the named
// trivia productions.
func NewSkipper(grammar ebnf.Grammar, trivia ...string) (*Skipper, error) {
	for _, name := range trivia {
		prod, ok := grammar[name]
		if !ok {
			return nil, fmt.Errorf("trivia production %q not found in grammar", name)
		}
		if prod.Expr == nil {
			return nil, fmt.Errorf("trivia production %q is empty", name)
		}
	}
	return &Skipper{grammar: grammar, trivia: trivia}, nil
}

// Func returns the skipper as a rules.SkipFunc.
func (s *Skipper) Func() rules.SkipFunc {
	return s.Skip
}

// Skip returns the first offset at or after offset where no trivia
// production matches.
func (s *Skipper) Skip(source string, offset int) int {
	st := &scan{
		grammar:  s.grammar,
		input:    source,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for offset < len(source) {
		best := 0
		for _, name := range s.trivia {
			if n := st.tryMatchName(name, offset); n > best {
				best = n
			}
		}
		if best == 0 {
			break
		}
		offset += best
	}
	return offset
}

// scan holds the state of a single Skip call.
type scan struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int  // key -> match length (-1 = no match)
	visiting map[memoKey]bool // cycle detection
}

// tryMatch attempts to match an expression at the given offset.
// Returns the length of the longest match, or 0 if no match.
func (s *scan) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return s.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return s.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		pos := offset
		for _, item := range e {
			n := s.tryMatch(item, pos)
			if n == 0 && !s.nullable(item) {
				return 0
			}
			total += n
			pos += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			if n := s.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		pos := offset
		for {
			n := s.tryMatch(e.Body, pos)
			if n == 0 {
				break
			}
			total += n
			pos += n
		}
		return total

	case *ebnf.Option:
		return s.tryMatch(e.Body, offset)

	case *ebnf.Group:
		return s.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return s.tryMatchName(e.String, offset)

	default:
		return 0
	}
}

// nullable reports whether a zero-length match of expr still counts as a
// match inside a sequence.
func (s *scan) nullable(expr ebnf.Expression) bool {
	switch e := expr.(type) {
	case *ebnf.Repetition, *ebnf.Option, nil:
		return true
	case *ebnf.Group:
		return s.nullable(e.Body)
	}
	return false
}

// tryMatchName matches a named production with memoization and cycle detection.
func (s *scan) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := s.memo[key]; ok {
		if result == -1 {
			return 0
		}
		return result
	}

	// Left recursion: treat the inner reference as a failed match.
	if s.visiting[key] {
		return 0
	}

	prod, ok := s.grammar[name]
	if !ok || prod.Expr == nil {
		s.memo[key] = -1
		return 0
	}

	s.visiting[key] = true
	result := s.tryMatch(prod.Expr, offset)
	delete(s.visiting, key)

	if result == 0 {
		s.memo[key] = -1
	} else {
		s.memo[key] = result
	}
	return result
}

// tryMatchToken matches a literal string token.
func (s *scan) tryMatchToken(token string, offset int) int {
	if token != "" && strings.HasPrefix(s.input[offset:], token) {
		return len(token)
	}
	return 0
}

// tryMatchRange matches a character range (e.g., "a" … "z").
func (s *scan) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(s.input) {
		return 0
	}
	lo, loSize := utf8.DecodeRuneInString(begin)
	hi, hiSize := utf8.DecodeRuneInString(end)
	if loSize != len(begin) || hiSize != len(end) {
		return 0
	}
	ch, size := utf8.DecodeRuneInString(s.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return 0
}
