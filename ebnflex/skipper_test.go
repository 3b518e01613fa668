package ebnflex

import (
	"strings"
	"testing"

	"github.com/dhamidi/peg/rules"
	"golang.org/x/exp/ebnf"
)

const triviaGrammar = `
	whitespace = " " | "\t" | "\n" .
	comment = "#" { "a" … "z" | " " } "\n" .
	block = "(*" { "a" … "z" | " " } "*)" .
`

func loadGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestSkipper_Skip(t *testing.T) {
	skipper, err := NewSkipper(loadGrammar(t, triviaGrammar), "whitespace", "comment", "block")
	if err != nil {
		t.Fatalf("new skipper: %v", err)
	}

	tests := []struct {
		name   string
		input  string
		offset int
		want   int
	}{
		{"nothing to skip", "x", 0, 0},
		{"spaces", "   x", 0, 3},
		{"mixed", " \t\n x", 0, 4},
		{"line comment", "  # hi there\n  x", 0, 15},
		{"block comment", "(* note *) x", 0, 11},
		{"unterminated comment", "# open", 0, 0},
		{"from offset", "ab  c", 2, 4},
		{"end of input", "x  ", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := skipper.Skip(tt.input, tt.offset); got != tt.want {
				t.Errorf("Skip(%q, %d) = %d, want %d", tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestSkipper_UnknownProduction(t *testing.T) {
	if _, err := NewSkipper(loadGrammar(t, triviaGrammar), "missing"); err == nil {
		t.Error("expected error for unknown trivia production")
	}
}

func TestSkipper_LeftRecursion(t *testing.T) {
	g := loadGrammar(t, `spaces = spaces " " | " " .`)
	skipper, err := NewSkipper(g, "spaces")
	if err != nil {
		t.Fatalf("new skipper: %v", err)
	}
	if got := skipper.Skip("  x", 0); got != 2 {
		t.Errorf("Skip = %d, want 2", got)
	}
}

func TestSkipper_AsWhitespacePolicy(t *testing.T) {
	skipper, err := NewSkipper(loadGrammar(t, triviaGrammar), "whitespace", "comment")
	if err != nil {
		t.Fatalf("new skipper: %v", err)
	}

	rule := rules.NewJoin(rules.NewTerminal("let"), rules.NewTerminal("x"), rules.NewEndOfStream())
	res, err := rules.Match(rule, "let # the name\n x \n", rules.WithWhitespace(skipper.Func()))
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if res.Offset != len("let # the name\n x \n") {
		t.Errorf("offset = %d", res.Offset)
	}
}
