package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/peg/rules"
)

// JSONEncoder writes match results as indented JSON.
type JSONEncoder struct {
	w      io.Writer
	source string
}

// NewJSONEncoder returns an encoder writing to w. source is the matched
// text and is used to attach line/column spans.
func NewJSONEncoder(w io.Writer, source string) *JSONEncoder {
	return &JSONEncoder{w: w, source: source}
}

func (e *JSONEncoder) Encode(res *rules.Result) error {
	text, err := e.MarshalText(res)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText(res *rules.Result) ([]byte, error) {
	doc := jsonResult{Offset: res.Offset, Nodes: make([]*jsonNode, 0, len(res.Nodes))}
	for _, n := range res.Nodes {
		doc.Nodes = append(doc.Nodes, e.nodeToJSON(n))
	}
	if res.Soft != nil {
		doc.Soft = e.errorToJSON(res.Soft)
	}
	return json.MarshalIndent(doc, "", "  ")
}

type jsonResult struct {
	Offset int         `json:"offset"`
	Nodes  []*jsonNode `json:"nodes"`
	Soft   *jsonError  `json:"soft,omitempty"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Value    *string     `json:"value,omitempty"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Kind     string        `json:"kind"`
	Offset   int           `json:"offset"`
	Reason   string        `json:"reason"`
	Rule     string        `json:"rule,omitempty"`
	Position *jsonPosition `json:"position,omitempty"`
}

func (e *JSONEncoder) nodeToJSON(n rules.BaseNode) *jsonNode {
	var jn *jsonNode
	switch n := n.(type) {
	case *rules.Node:
		jn = &jsonNode{Kind: "node", Name: n.Name, Start: n.Offset, End: n.EndOffset}
		if len(n.Children) > 0 {
			jn.Children = make([]*jsonNode, len(n.Children))
			for i, child := range n.Children {
				jn.Children[i] = e.nodeToJSON(child)
			}
		}
	case *rules.Token:
		value := n.Value
		jn = &jsonNode{Kind: "token", Value: &value, Start: n.Start(), End: n.Offset}
	default:
		return &jsonNode{Kind: "unknown"}
	}

	if e.source != "" && jn.End >= jn.Start {
		jn.Span = &jsonSpan{
			Start: e.position(jn.Start),
			End:   e.position(jn.End),
		}
	}
	return jn
}

func (e *JSONEncoder) errorToJSON(err *rules.RuleError) *jsonError {
	je := &jsonError{Kind: err.Kind.String(), Offset: err.Offset, Reason: err.Reason}
	if err.Rule != nil {
		je.Rule = err.Rule.String()
	}
	if e.source != "" {
		pos := e.position(err.Offset)
		je.Position = &pos
	}
	return je
}

func (e *JSONEncoder) position(offset int) jsonPosition {
	p := rules.Locate(e.source, offset)
	return jsonPosition{Line: p.Line, Column: p.Column}
}
