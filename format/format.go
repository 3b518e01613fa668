package format

import "github.com/dhamidi/peg/rules"

// Encoder writes a match result in some output format.
type Encoder interface {
	Encode(res *rules.Result) error
}
