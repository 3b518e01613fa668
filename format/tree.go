package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/peg/rules"
)

// TreeEncoder writes match results as an indented outline, one node per
// line:
//
//	Statement 0..10
//	  "let" 0..3
//	  identifier 4..5
type TreeEncoder struct {
	w      io.Writer
	indent string
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, indent: "  "}
}

func (e *TreeEncoder) Encode(res *rules.Result) error {
	text, err := e.MarshalText(res)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(res *rules.Result) ([]byte, error) {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	for _, n := range res.Nodes {
		e.writeNode(bw, n, 0)
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(w *bufio.Writer, n rules.BaseNode, depth int) {
	w.WriteString(strings.Repeat(e.indent, depth))
	switch n := n.(type) {
	case *rules.Node:
		fmt.Fprintf(w, "%s %d..%d\n", n.Name, n.Offset, n.EndOffset)
		for _, child := range n.Children {
			e.writeNode(w, child, depth+1)
		}
	case *rules.Token:
		fmt.Fprintf(w, "%s %d..%d\n", strconv.Quote(n.Value), n.Start(), n.Offset)
	}
}
