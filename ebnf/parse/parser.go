package parse

import (
	"fmt"
	"os"

	"github.com/dhamidi/peg/rules"
	"golang.org/x/exp/ebnf"
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return g, nil
}

// Load reads a grammar file and compiles it.
func Load(filename, start string, opts ...Option) (*Grammar, error) {
	g, err := LoadGrammar(filename)
	if err != nil {
		return nil, err
	}
	return Compile(g, start, opts...)
}

// Root returns the node of the start production in a match result.
func Root(res *rules.Result) *rules.Node {
	if res == nil {
		return nil
	}
	for _, n := range res.Nodes {
		if node, ok := n.(*rules.Node); ok {
			return node
		}
	}
	return nil
}

// Parser matches input against the start production of a grammar.
type Parser struct {
	grammar *Grammar
	opts    []rules.MatchOption
}

// NewParser returns a parser for g. The options are passed to every match.
func NewParser(g *Grammar, opts ...rules.MatchOption) *Parser {
	return &Parser{grammar: g, opts: opts}
}

// Parse matches source and returns the root node. On an ordinary match
// failure the partial tree is returned along with the error.
func (p *Parser) Parse(source string) (*rules.Node, error) {
	res, err := p.grammar.Match(source, p.opts...)
	return Root(res), err
}

// ParseFile parses input using the grammar in grammarFile, requiring the
// whole input to match the start production. On an ordinary match failure
// the partial tree is returned along with the error.
func ParseFile(grammarFile string, input []byte, start string, opts ...Option) (*rules.Node, error) {
	g, err := Load(grammarFile, start, append(opts, WithEOF())...)
	if err != nil {
		return nil, err
	}
	return NewParser(g).Parse(string(input))
}
