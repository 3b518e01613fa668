package rules

import (
	"fmt"
	"strings"
)

// Result is the outcome of a match.
type Result struct {
	Offset int        // Offset reached
	Nodes  []BaseNode // Nodes produced at the top level
	Soft   *RuleError // Furthest failure absorbed on the way to a success
}

// MatchOption configures a single match.
type MatchOption func(*matcher)

// WithWhitespace sets the policy used by rules that skip leading whitespace.
// The default, NoSkip, skips nothing.
func WithWhitespace(skip SkipFunc) MatchOption {
	return func(m *matcher) {
		if skip == nil {
			skip = NoSkip
		}
		m.skip = skip
	}
}

// WithTracer reports every named rule entered and left during the match.
func WithTracer(t Tracer) MatchOption {
	return func(m *matcher) {
		m.tracer = t
	}
}

// Match matches rule against source from the beginning.
func Match(rule Rule, source string, opts ...MatchOption) (*Result, error) {
	return MatchAt(rule, source, 0, opts...)
}

// MatchAt matches rule against source starting at offset.
//
// On success the error is nil and Result.Soft may hold the furthest failure
// that was absorbed along the way. An ordinary failure returns a *RuleError
// together with a Result holding the partial nodes that were kept. A
// malformed grammar returns a *FatalError and a nil Result.
func MatchAt(rule Rule, source string, offset int, opts ...MatchOption) (res *Result, err error) {
	if offset < 0 || offset > len(source) {
		return nil, fmt.Errorf("match: offset %d out of range [0,%d]", offset, len(source))
	}

	m := &matcher{source: source, skip: NoSkip}
	for _, opt := range opts {
		opt(m)
	}

	defer func() {
		if e := recover(); e != nil {
			fe, ok := e.(*FatalError)
			if !ok {
				panic(e)
			}
			res, err = nil, fe
		}
	}()

	out := m.match(rule, offset)
	res = &Result{Offset: out.offset, Nodes: out.nodes, Soft: out.soft}
	if out.err != nil {
		return res, out.err
	}
	return res, nil
}

type matcher struct {
	source string
	skip   SkipFunc
	tracer Tracer
}

// outcome is what every rule returns. err == nil means success, possibly
// with a soft error. On failure, nodes are the partial nodes the caller
// should keep and offset is the furthest offset reached.
type outcome struct {
	offset int
	nodes  []BaseNode
	soft   *RuleError
	err    *RuleError
}

func (m *matcher) match(r Rule, offset int) outcome {
	switch r := r.(type) {
	case *Terminal:
		return m.terminal(r, offset)
	case *Regex:
		return m.regex(r, offset)
	case *Empty:
		return outcome{offset: offset}
	case *EndOfStream:
		return m.endOfStream(r, offset)
	case *Join:
		return m.join(r, offset)
	case *Choice:
		return m.choice(r, offset)
	case *Repeat:
		return m.repeat(r, offset)
	case *Predicate:
		return m.predicate(r, offset)
	case *Silent:
		out := m.match(r.rule, offset)
		out.nodes = nil
		return out
	case *Lexeme:
		return m.lexeme(r, offset)
	case *Named:
		return m.named(r, offset)
	case nil:
		abort(MalformedRule, offset, nil, "nil rule")
	}
	abort(MalformedRule, offset, r, "unknown rule type %T", r)
	return outcome{}
}

func (m *matcher) skipFrom(p primitive, offset int) int {
	if !p.ignoreWhitespace {
		return offset
	}
	return m.skip(m.source, offset)
}

func fail(offset int, err *RuleError) outcome {
	return outcome{offset: offset, err: err}
}

func (m *matcher) terminal(r *Terminal, offset int) outcome {
	pos := m.skipFrom(r.primitive, offset)
	if pos > len(m.source) || !strings.HasPrefix(m.source[pos:], r.text) {
		return fail(offset, &RuleError{Kind: TerminalError, Offset: offset, Reason: "terminal failed to match", Rule: r})
	}
	pos += len(r.text)
	return outcome{offset: pos, nodes: r.emit(pos, r.text)}
}

func (m *matcher) regex(r *Regex, offset int) outcome {
	pos := m.skipFrom(r.primitive, offset)
	var loc []int
	if pos <= len(m.source) {
		loc = r.re.FindStringSubmatchIndex(m.source[pos:])
	}
	if loc == nil {
		return fail(offset, &RuleError{Kind: RegexError, Offset: offset, Reason: "regex failed to match", Rule: r})
	}

	text := m.source[pos+loc[0] : pos+loc[1]]
	if len(loc) >= 4 {
		text = ""
		if loc[2] >= 0 {
			text = m.source[pos+loc[2] : pos+loc[3]]
		}
	}
	pos += len(text)
	return outcome{offset: pos, nodes: r.emit(pos, text)}
}

func (m *matcher) endOfStream(r *EndOfStream, offset int) outcome {
	pos := m.skipFrom(r.primitive, offset)
	if pos < len(m.source) {
		return fail(offset, &RuleError{Kind: EndOfStreamError, Offset: offset, Reason: "expected end of input", Rule: r})
	}
	return outcome{offset: pos}
}

// join keeps the nodes of every member, including a failing one, and
// reports the furthest failure seen across the sequence.
func (m *matcher) join(r *Join, offset int) outcome {
	var nodes []BaseNode
	var furthest *RuleError

	for _, rule := range r.rules {
		out := m.match(rule, offset)
		nodes = append(nodes, out.nodes...)
		if out.err != nil {
			return outcome{
				offset: max(offset, out.offset),
				nodes:  nodes,
				err:    further(furthest, out.err),
			}
		}
		furthest = further(furthest, out.soft)
		offset = out.offset
	}

	return outcome{offset: offset, nodes: nodes, soft: furthest}
}

// choice keeps only the winning alternative's nodes. When every
// alternative fails, it emits nothing and reports the furthest failure.
func (m *matcher) choice(r *Choice, offset int) outcome {
	if len(r.rules) == 0 {
		abort(MalformedRule, offset, r, "choice without alternatives")
	}

	var furthest *RuleError
	for _, rule := range r.rules {
		out := m.match(rule, offset)
		if out.err == nil {
			out.soft = further(furthest, out.soft)
			return out
		}
		furthest = further(furthest, out.err)
	}

	return fail(offset, furthest)
}

// repeat keeps the nodes of every successful iteration. Below the minimum
// the failing attempt's nodes are kept as well and the failure is returned;
// otherwise the last failure becomes the soft error of a success.
func (m *matcher) repeat(r *Repeat, offset int) outcome {
	var nodes []BaseNode

	for count := 0; r.max == Unbounded || count < r.max; count++ {
		out := m.match(r.rule, offset)
		if out.err != nil {
			if count < r.min {
				nodes = append(nodes, out.nodes...)
				return outcome{offset: max(offset, out.offset), nodes: nodes, err: out.err}
			}
			return outcome{offset: offset, nodes: nodes, soft: out.err}
		}
		if out.offset <= offset {
			abort(InfiniteLoop, offset, r, "infinite loop detected: %v matched without consuming input", r.rule)
		}
		nodes = append(nodes, out.nodes...)
		offset = out.offset
	}

	return outcome{offset: offset, nodes: nodes}
}

func (m *matcher) predicate(r *Predicate, offset int) outcome {
	if out := m.match(r.predicate, offset); out.err == nil {
		return fail(offset, &RuleError{Kind: PredicateError, Offset: offset, Reason: "predicate matched", Rule: r.predicate})
	}
	return m.match(r.rule, offset)
}

func (m *matcher) lexeme(r *Lexeme, offset int) outcome {
	pos := m.skip(m.source, offset)
	out := m.match(r.rule, pos)
	out.err = rewind(out.err, pos, offset)
	out.soft = rewind(out.soft, pos, offset)
	return out
}

// rewind returns a copy of err moved to offset to when it was raised at from.
func rewind(err *RuleError, from, to int) *RuleError {
	if err == nil || from == to || err.Offset != from {
		return err
	}
	moved := *err
	moved.Offset = to
	return &moved
}

func (m *matcher) named(r *Named, offset int) outcome {
	if r.rule == nil {
		abort(UnassignedRule, offset, r, "rule %q was declared but never assigned", r.name)
	}
	if m.tracer != nil {
		m.tracer.Enter(r, offset)
	}

	node := newNode(offset, r.name, r.opts)
	out := m.match(r.rule, offset)
	node.AddChild(out.nodes...)
	node.EndOffset = out.offset

	if m.tracer != nil {
		m.tracer.Exit(r, out.offset, out.err)
	}

	out.nodes = []BaseNode{node}
	return out
}
