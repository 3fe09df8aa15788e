package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/jsonc"
)

// Select evaluates a JSONPath expression against a raw document and returns
// the matched values. Object key order is not preserved in the results.
func Select(data []byte, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	root, err := oj.Parse(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return x.Get(root), nil
}
