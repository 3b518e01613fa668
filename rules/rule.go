package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unbounded is the Repeat maximum meaning "no upper limit".
const Unbounded = -1

// Rule is a node of a grammar. The set of implementations is closed:
// *Terminal, *Regex, *Empty, *EndOfStream, *Join, *Choice, *Repeat,
// *Predicate, *Silent, *Lexeme and *Named.
//
// Rules are immutable once built, except for the one-time Assign of a
// declared *Named, and may be shared by concurrent matches.
type Rule interface {
	fmt.Stringer
	isRule()
}

// PrimitiveOption configures Terminal, Regex and EndOfStream rules.
type PrimitiveOption func(*primitive)

// IgnoreToken makes the rule consume its text without emitting a Token.
func IgnoreToken() PrimitiveOption {
	return func(p *primitive) {
		p.ignoreToken = true
	}
}

// KeepWhitespace disables whitespace skipping before the rule.
func KeepWhitespace() PrimitiveOption {
	return func(p *primitive) {
		p.ignoreWhitespace = false
	}
}

type primitive struct {
	ignoreToken      bool
	ignoreWhitespace bool
}

func newPrimitive(opts []PrimitiveOption) primitive {
	p := primitive{ignoreWhitespace: true}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// IgnoresToken reports whether matches are consumed without a Token.
func (p primitive) IgnoresToken() bool { return p.ignoreToken }

// IgnoresWhitespace reports whether leading whitespace is skipped.
func (p primitive) IgnoresWhitespace() bool { return p.ignoreWhitespace }

func (p primitive) emit(offset int, text string) []BaseNode {
	if p.ignoreToken {
		return nil
	}
	return []BaseNode{&Token{Offset: offset, Value: text}}
}

// Terminal matches a literal string.
type Terminal struct {
	primitive
	text string
}

func NewTerminal(text string, opts ...PrimitiveOption) *Terminal {
	return &Terminal{primitive: newPrimitive(opts), text: text}
}

func (t *Terminal) Text() string { return t.text }

func (t *Terminal) String() string { return strconv.Quote(t.text) }

// Regex matches a regular expression anchored at the current offset. The
// text of the first capture group becomes the token; a pattern without
// groups uses the whole match.
//
// The pattern runs on the input from the current offset onwards, so ^ and
// \b treat that offset as the start of the text.
type Regex struct {
	primitive
	pattern string
	re      *regexp.Regexp
}

func NewRegex(pattern string, opts ...PrimitiveOption) (*Regex, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile regex %q: %w", pattern, err)
	}
	return &Regex{primitive: newPrimitive(opts), pattern: pattern, re: re}, nil
}

// MustRegex is like NewRegex but panics if the pattern does not compile.
func MustRegex(pattern string, opts ...PrimitiveOption) *Regex {
	r, err := NewRegex(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Regex) Pattern() string { return r.pattern }

func (r *Regex) String() string { return "/" + r.pattern + "/" }

// Empty always succeeds without consuming input.
type Empty struct{}

func NewEmpty() *Empty { return &Empty{} }

func (*Empty) String() string { return "ε" }

// EndOfStream succeeds only at the end of the input.
type EndOfStream struct {
	primitive
}

func NewEndOfStream(opts ...PrimitiveOption) *EndOfStream {
	return &EndOfStream{primitive: newPrimitive(opts)}
}

func (*EndOfStream) String() string { return "EOF" }

// Join matches its rules in sequence.
type Join struct {
	rules []Rule
}

func NewJoin(rules ...Rule) *Join { return &Join{rules: rules} }

func (j *Join) Rules() []Rule { return j.rules }

func (j *Join) String() string { return "(" + joinRules(j.rules, " ") + ")" }

// Choice tries its rules in order; the first success wins.
type Choice struct {
	rules []Rule
}

func NewChoice(rules ...Rule) *Choice { return &Choice{rules: rules} }

func (c *Choice) Rules() []Rule { return c.rules }

func (c *Choice) String() string { return "(" + joinRules(c.rules, " / ") + ")" }

// Repeat matches its rule between min and max times.
type Repeat struct {
	rule     Rule
	min, max int
}

// NewRepeat builds a bounded repetition. A negative min is treated as 0 and
// max may be Unbounded. It panics if max is below min.
func NewRepeat(rule Rule, min, max int) *Repeat {
	if min < 0 {
		min = 0
	}
	if max != Unbounded && max < min {
		panic(fmt.Sprintf("rules: repeat maximum %d is below minimum %d", max, min))
	}
	return &Repeat{rule: rule, min: min, max: max}
}

// Option matches rule zero or one time.
func Option(rule Rule) *Repeat { return NewRepeat(rule, 0, 1) }

// ZeroOrMore matches rule any number of times.
func ZeroOrMore(rule Rule) *Repeat { return NewRepeat(rule, 0, Unbounded) }

// OneOrMore matches rule at least once.
func OneOrMore(rule Rule) *Repeat { return NewRepeat(rule, 1, Unbounded) }

func (r *Repeat) Rule() Rule { return r.rule }

func (r *Repeat) Min() int { return r.min }

func (r *Repeat) Max() int { return r.max }

func (r *Repeat) String() string {
	inner := fmt.Sprint(r.rule)
	switch {
	case r.min == 0 && r.max == 1:
		return inner + "?"
	case r.min == 0 && r.max == Unbounded:
		return inner + "*"
	case r.min == 1 && r.max == Unbounded:
		return inner + "+"
	case r.max == Unbounded:
		return fmt.Sprintf("%s{%d,}", inner, r.min)
	default:
		return fmt.Sprintf("%s{%d,%d}", inner, r.min, r.max)
	}
}

// Predicate matches rule only where predicate does not match.
type Predicate struct {
	rule      Rule
	predicate Rule
}

func NewPredicate(rule, predicate Rule) *Predicate {
	return &Predicate{rule: rule, predicate: predicate}
}

func (p *Predicate) Rule() Rule { return p.rule }

func (p *Predicate) Predicate() Rule { return p.predicate }

func (p *Predicate) String() string {
	return fmt.Sprintf("!%v %v", p.predicate, p.rule)
}

// Silent matches rule but drops the nodes it produces.
type Silent struct {
	rule Rule
}

func NewSilent(rule Rule) *Silent { return &Silent{rule: rule} }

func (s *Silent) Rule() Rule { return s.rule }

func (s *Silent) String() string { return fmt.Sprintf("~%v", s.rule) }

// Lexeme skips whitespace once and then matches rule, whose primitives
// typically keep whitespace. Failures at the first offset after the skipped
// whitespace are reported at the offset before it, as primitives report
// theirs.
type Lexeme struct {
	rule Rule
}

func NewLexeme(rule Rule) *Lexeme { return &Lexeme{rule: rule} }

func (l *Lexeme) Rule() Rule { return l.rule }

func (l *Lexeme) String() string { return fmt.Sprintf("_%v", l.rule) }

// Named gives a rule a name and wraps everything it matches in a Node.
// A Named may be declared first and assigned later, which is how mutually
// recursive grammars are built.
type Named struct {
	name string
	opts any
	rule Rule
}

var (
	ErrAlreadyAssigned = errors.New("rule already assigned")
	ErrNilRule         = errors.New("nil rule")
)

// Define creates a named rule with its body.
func Define(name string, rule Rule, opts any) *Named {
	return &Named{name: name, rule: rule, opts: opts}
}

// Declare creates a named rule whose body is given later with Assign.
func Declare(name string, opts any) *Named {
	return &Named{name: name, opts: opts}
}

// Assign sets the body of a declared rule. It must happen before the rule
// is matched and may only be done once.
func (n *Named) Assign(rule Rule) error {
	if rule == nil {
		return fmt.Errorf("assign %s: %w", n.name, ErrNilRule)
	}
	if n.rule != nil {
		return fmt.Errorf("assign %s: %w", n.name, ErrAlreadyAssigned)
	}
	n.rule = rule
	return nil
}

func (n *Named) Name() string { return n.name }

func (n *Named) Opts() any { return n.opts }

// Rule returns the body, or nil for an unassigned declaration.
func (n *Named) Rule() Rule { return n.rule }

func (n *Named) Assigned() bool { return n.rule != nil }

func (n *Named) String() string { return n.name }

func (*Terminal) isRule()    {}
func (*Regex) isRule()       {}
func (*Empty) isRule()       {}
func (*EndOfStream) isRule() {}
func (*Join) isRule()        {}
func (*Choice) isRule()      {}
func (*Repeat) isRule()      {}
func (*Predicate) isRule()   {}
func (*Silent) isRule()      {}
func (*Lexeme) isRule()      {}
func (*Named) isRule()       {}

func joinRules(rules []Rule, sep string) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, sep)
}
