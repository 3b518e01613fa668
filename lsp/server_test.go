package lsp

import (
	"strings"
	"testing"

	"github.com/dhamidi/peg/ebnf/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/exp/ebnf"
)

const listGrammar = `
List = "[" [ Item { "," Item } ] "]" .
Item = word .
word = letter { letter } .
letter = "a" … "z" .
space = " " | "\n" .
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	g, err := ebnf.Parse("list.ebnf", strings.NewReader(listGrammar))
	require.NoError(t, err)
	compiled, err := parse.Compile(g, "List", parse.WithTrivia("space"))
	require.NoError(t, err)
	s, err := NewServer(compiled, "test", WithName("list"))
	require.NoError(t, err)
	return s
}

func TestCheck(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid document", func(t *testing.T) {
		diags := s.check("[ab, cd,\n ef ]")
		assert.NotNil(t, diags)
		assert.Empty(t, diags)
	})

	t.Run("furthest failure", func(t *testing.T) {
		diags := s.check("[ab,\n  cd,, ef]")
		require.Len(t, diags, 1)
		d := diags[0]
		// The optional item list stops at its maximum, so the "]" at 9
		// is the furthest failure.
		assert.Equal(t, protocol.Position{Line: 1, Character: 4}, d.Range.Start)
		assert.Contains(t, d.Message, `"]"`)
		assert.Equal(t, d.Range.Start, d.Range.End)
		require.NotNil(t, d.Severity)
		assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
		require.NotNil(t, d.Source)
		assert.Equal(t, "list", *d.Source)
	})

	t.Run("trailing input", func(t *testing.T) {
		diags := s.check("[ab] x")
		require.Len(t, diags, 1)
		assert.Equal(t, protocol.Position{Line: 0, Character: 4}, diags[0].Range.Start)
		assert.Contains(t, diags[0].Message, "end of input")
	})
}

func TestCheck_FatalError(t *testing.T) {
	g, err := ebnf.Parse("loop.ebnf", strings.NewReader(`Loop = { [ "x" ] } .`))
	require.NoError(t, err)
	compiled, err := parse.Compile(g, "Loop")
	require.NoError(t, err)
	s, err := NewServer(compiled, "test")
	require.NoError(t, err)

	diags := s.check("yyy")
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.Position{}, diags[0].Range.Start)
	assert.True(t, strings.HasPrefix(diags[0].Message, "grammar error: "), diags[0].Message)
}

func TestNewServer_NoStart(t *testing.T) {
	g, err := ebnf.Parse("list.ebnf", strings.NewReader(listGrammar))
	require.NoError(t, err)
	compiled, err := parse.Compile(g, "")
	require.NoError(t, err)

	_, err = NewServer(compiled, "test")
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		want   protocol.Position
	}{
		{"abc", 0, protocol.Position{Line: 0, Character: 0}},
		{"abc", 2, protocol.Position{Line: 0, Character: 2}},
		{"ab\ncd", 4, protocol.Position{Line: 1, Character: 1}},
		{"ab\n", 3, protocol.Position{Line: 1, Character: 0}},
		{"é!", 2, protocol.Position{Line: 0, Character: 1}},
		{"😀x", 4, protocol.Position{Line: 0, Character: 2}},
		{"abc", 10, protocol.Position{Line: 0, Character: 3}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, position(tt.text, tt.offset), "position(%q, %d)", tt.text, tt.offset)
	}
}
