package ingest

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// Kind classifies a decoded JSON value.
type Kind int

const (
	KindOther Kind = iota
	KindObject
	KindString
)

// Value is a decoded JSON value reduced to what the FAQ format cares about:
// objects with ordered members, strings, and everything else.
type Value struct {
	Kind    Kind
	Str     string
	Members []Member
	// Type is the JSON type name of a KindOther value.
	Type string
	// Truncated marks an object nested beyond the decode limit; its
	// members were not decoded.
	Truncated bool
}

// Member is one key of an object in document order.
type Member struct {
	Name  string
	Value Value
}

// Get returns the member called name of an object value.
func (v Value) Get(name string) (Value, bool) {
	for _, m := range v.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return Value{}, false
}

// TypeName returns the JSON type of the value for error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindObject:
		return "object"
	case KindString:
		return "string"
	}
	return v.Type
}

// Decode parses a JSON document into a Value, keeping object keys in source
// order. Line and block comments and trailing commas are accepted. Objects
// nested more than maxNesting levels deep (the document root is level 1) are
// returned truncated; maxNesting <= 0 disables the limit.
//
// A repeated key keeps the position of its first occurrence and the value of
// its last.
func Decode(data []byte, maxNesting int) (Value, error) {
	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		if _, err := oj.Parse(clean); err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		return Value{}, fmt.Errorf("%w: not a single JSON document", ErrMalformedInput)
	}
	return fromResult(gjson.ParseBytes(clean), 1, maxNesting), nil
}

func fromResult(r gjson.Result, depth, limit int) Value {
	switch {
	case r.IsObject():
		v := Value{Kind: KindObject}
		if limit > 0 && depth > limit {
			v.Truncated = true
			return v
		}
		index := make(map[string]int)
		r.ForEach(func(key, val gjson.Result) bool {
			name := key.String()
			child := fromResult(val, depth+1, limit)
			if i, ok := index[name]; ok {
				v.Members[i].Value = child
				return true
			}
			index[name] = len(v.Members)
			v.Members = append(v.Members, Member{Name: name, Value: child})
			return true
		})
		return v
	case r.Type == gjson.String:
		return Value{Kind: KindString, Str: r.String()}
	case r.IsArray():
		return Value{Kind: KindOther, Type: "array"}
	case r.Type == gjson.Number:
		return Value{Kind: KindOther, Type: "number"}
	case r.Type == gjson.True, r.Type == gjson.False:
		return Value{Kind: KindOther, Type: "boolean"}
	}
	return Value{Kind: KindOther, Type: "null"}
}
