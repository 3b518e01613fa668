// Package parse compiles EBNF grammars into rule graphs and parses input
// with them, producing concrete syntax trees.
package parse

import (
	"errors"
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/peg/ebnflex"
	"github.com/dhamidi/peg/rules"
	"golang.org/x/exp/ebnf"
)

// ErrUnknownProduction is returned when a grammar refers to a production
// it does not define.
var ErrUnknownProduction = errors.New("unknown production")

// Option configures Compile.
type Option func(*compiler)

// WithTrivia names productions that are skipped between tokens, such as
// white space and comments. References to them inside the grammar match
// silently.
func WithTrivia(names ...string) Option {
	return func(c *compiler) {
		c.trivia = append(c.trivia, names...)
	}
}

// WithEOF requires Match to consume the whole input.
func WithEOF() Option {
	return func(c *compiler) {
		c.eof = true
	}
}

type compiler struct {
	source ebnf.Grammar
	named  map[string]*rules.Named
	trivia []string
	eof    bool
}

// Grammar is an EBNF grammar compiled into rules.
//
// Every production becomes a *rules.Named whose node Opts is the
// originating *ebnf.Production.
type Grammar struct {
	source ebnf.Grammar
	named  map[string]*rules.Named
	start  *rules.Named
	entry  rules.Rule
	skip   rules.SkipFunc
}

// Compile turns g into a rule graph. start names the production used by
// Match and may be empty if only MatchRule is used.
//
// Productions whose name does not start with an upper-case letter are
// lexical: white space is not skipped inside them.
func Compile(g ebnf.Grammar, start string, opts ...Option) (*Grammar, error) {
	c := &compiler{source: g, named: make(map[string]*rules.Named, len(g))}
	for _, opt := range opts {
		opt(c)
	}

	if start != "" {
		if _, ok := g[start]; !ok {
			return nil, fmt.Errorf("start %q: %w", start, ErrUnknownProduction)
		}
	}

	names := make([]string, 0, len(g))
	for name, prod := range g {
		c.named[name] = rules.Declare(name, prod)
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		body, err := c.compile(g[name].Expr, isLexical(name))
		if err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
		if err := c.named[name].Assign(body); err != nil {
			return nil, err
		}
	}

	compiled := &Grammar{source: g, named: c.named, skip: rules.NoSkip}
	if len(c.trivia) > 0 {
		skipper, err := ebnflex.NewSkipper(g, c.trivia...)
		if err != nil {
			return nil, err
		}
		compiled.skip = skipper.Func()
	}
	if start != "" {
		compiled.start = c.named[start]
		compiled.entry = compiled.start
		if c.eof {
			compiled.entry = rules.NewJoin(compiled.start, rules.NewEndOfStream())
		}
	}

	return compiled, nil
}

func (c *compiler) compile(expr ebnf.Expression, lexical bool) (rules.Rule, error) {
	var ws []rules.PrimitiveOption
	if lexical {
		ws = append(ws, rules.KeepWhitespace())
	}

	switch e := expr.(type) {
	case nil:
		return rules.NewEmpty(), nil

	case ebnf.Alternative:
		alts, err := c.compileAll(e, lexical)
		if err != nil {
			return nil, err
		}
		return rules.NewChoice(alts...), nil

	case ebnf.Sequence:
		items, err := c.compileAll(e, lexical)
		if err != nil {
			return nil, err
		}
		return rules.NewJoin(items...), nil

	case *ebnf.Group:
		return c.compile(e.Body, lexical)

	case *ebnf.Option:
		body, err := c.compile(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return rules.Option(body), nil

	case *ebnf.Repetition:
		body, err := c.compile(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return rules.ZeroOrMore(body), nil

	case *ebnf.Token:
		return rules.NewTerminal(e.String, ws...), nil

	case *ebnf.Range:
		lo, hi, err := rangeBounds(e)
		if err != nil {
			return nil, err
		}
		return rules.NewRegex(fmt.Sprintf(`([\x{%x}-\x{%x}])`, lo, hi), ws...)

	case *ebnf.Name:
		ref, ok := c.named[e.String]
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", e.Pos(), ErrUnknownProduction, e.String)
		}
		if slices.Contains(c.trivia, e.String) {
			return rules.NewSilent(ref), nil
		}
		if !lexical && isLexical(e.String) {
			// Lexical productions never skip white space themselves.
			return rules.NewLexeme(ref), nil
		}
		return ref, nil

	case *ebnf.Bad:
		return nil, fmt.Errorf("%s: %s", e.Pos(), e.Error)
	}

	return nil, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
}

func (c *compiler) compileAll(exprs []ebnf.Expression, lexical bool) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(exprs))
	for _, expr := range exprs {
		r, err := c.compile(expr, lexical)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func rangeBounds(r *ebnf.Range) (rune, rune, error) {
	lo, loSize := utf8.DecodeRuneInString(r.Begin.String)
	hi, hiSize := utf8.DecodeRuneInString(r.End.String)
	if loSize == 0 || loSize != len(r.Begin.String) || hiSize == 0 || hiSize != len(r.End.String) {
		return 0, 0, fmt.Errorf("%s: range bounds must be single characters", r.Pos())
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%s: decreasing character range", r.Pos())
	}
	return lo, hi, nil
}

// isLexical follows the golang.org/x/exp/ebnf convention.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// Rule returns the compiled rule for a production.
func (g *Grammar) Rule(name string) (*rules.Named, bool) {
	r, ok := g.named[name]
	return r, ok
}

// Start returns the start production, or nil if none was given.
func (g *Grammar) Start() *rules.Named {
	return g.start
}

// Productions returns the production names in sorted order.
func (g *Grammar) Productions() []string {
	names := make([]string, 0, len(g.named))
	for name := range g.named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source returns the EBNF grammar the rules were compiled from.
func (g *Grammar) Source() ebnf.Grammar {
	return g.source
}

// Skip returns the whitespace policy built from the trivia productions.
func (g *Grammar) Skip() rules.SkipFunc {
	return g.skip
}

// Match matches source against the start production.
func (g *Grammar) Match(source string, opts ...rules.MatchOption) (*rules.Result, error) {
	if g.entry == nil {
		return nil, errors.New("grammar has no start production")
	}
	return rules.Match(g.entry, source, g.matchOptions(opts)...)
}

// MatchRule matches source against the named production.
func (g *Grammar) MatchRule(name, source string, opts ...rules.MatchOption) (*rules.Result, error) {
	r, ok := g.named[name]
	if !ok {
		return nil, fmt.Errorf("production %q: %w", name, ErrUnknownProduction)
	}
	return rules.Match(r, source, g.matchOptions(opts)...)
}

func (g *Grammar) matchOptions(opts []rules.MatchOption) []rules.MatchOption {
	return append([]rules.MatchOption{rules.WithWhitespace(g.skip)}, opts...)
}
