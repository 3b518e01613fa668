package rules

import "fmt"

// Unset is the EndOffset of a Node whose rule has not finished matching.
const Unset = -1

// BaseNode is an element of the concrete syntax tree produced by matching.
// It is either a *Node or a *Token.
type BaseNode interface {
	// Pos returns the recorded offset: the start of a *Node, but the end of
	// a *Token's text. Use Token.Start for where a token begins.
	Pos() int
	baseNode()
}

// Node is an interior tree node created by a named rule.
type Node struct {
	Offset    int        // Offset at which the named rule started matching
	EndOffset int        // Furthest offset reached, Unset while matching
	Name      string     // Name of the rule that produced the node
	Opts      any        // Metadata passed through from Define/Declare
	Children  []BaseNode // Child nodes in match order
}

func newNode(offset int, name string, opts any) *Node {
	return &Node{
		Offset:    offset,
		EndOffset: Unset,
		Name:      name,
		Opts:      opts,
	}
}

func (n *Node) Pos() int { return n.Offset }

func (*Node) baseNode() {}

// AddChild appends children in order, skipping nil entries.
func (n *Node) AddChild(children ...BaseNode) {
	for _, child := range children {
		if child == nil {
			continue
		}
		n.Children = append(n.Children, child)
	}
}

// Complete reports whether matching of the node's rule has finished.
func (n *Node) Complete() bool {
	return n.EndOffset != Unset
}

// Text returns the slice of source covered by the node.
func (n *Node) Text(source string) string {
	if !n.Complete() || n.Offset > len(source) {
		return ""
	}
	end := min(n.EndOffset, len(source))
	return source[n.Offset:end]
}

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d:%d]", n.Name, n.Offset, n.EndOffset)
}

// Token is a leaf holding the exact text matched by a Terminal or Regex.
//
// Offset is the position just past the matched text; Start returns the
// position where the text begins.
type Token struct {
	Offset int
	Value  string
}

func (t *Token) Pos() int { return t.Offset }

func (*Token) baseNode() {}

// Start returns the offset of the first byte of the token's text.
func (t *Token) Start() int {
	return t.Offset - len(t.Value)
}

func (t *Token) String() string {
	return fmt.Sprintf("%q@%d", t.Value, t.Offset)
}

// Walk visits node and its descendants depth first. If fn returns false the
// children of the visited node are skipped.
func Walk(node BaseNode, fn func(BaseNode) bool) {
	if node == nil || !fn(node) {
		return
	}
	if n, ok := node.(*Node); ok {
		for _, child := range n.Children {
			Walk(child, fn)
		}
	}
}
