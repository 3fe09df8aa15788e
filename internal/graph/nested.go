package graph

import (
	"encoding/json"
	"strconv"
)

// NestedRef is the embedded rendering of a child reference: a subcategory
// carries a copy of its own child list, a question carries nothing.
type NestedRef struct {
	ID       ID
	Children []NestedRef
}

// MarshalJSON renders a question as its bare id and a subcategory as a
// single-key object {"<id>": [children...]}.
func (r NestedRef) MarshalJSON() ([]byte, error) {
	if !r.ID.IsCategory() {
		return json.Marshal(int(r.ID))
	}
	children := r.Children
	if children == nil {
		children = []NestedRef{}
	}
	body, err := json.Marshal(children)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(strconv.Itoa(int(r.ID)))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(key)+len(body)+3)
	out = append(out, '{')
	out = append(out, key...)
	out = append(out, ':')
	out = append(out, body...)
	out = append(out, '}')
	return out, nil
}

// Nested expands the child list of id into its embedded form, resolving every
// subcategory reference against the tree. The data set must be verified.
func (ds *DataSet) Nested(id ID) []NestedRef {
	refs := ds.Tree[id]
	out := make([]NestedRef, 0, len(refs))
	for _, ref := range refs {
		n := NestedRef{ID: ref.ID}
		if ref.IsSubcategory() {
			n.Children = ds.Nested(ref.ID)
		}
		out = append(out, n)
	}
	return out
}
