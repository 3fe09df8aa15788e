package ingest

import (
	"slices"

	"github.com/agentic-research/faqtree/api"
)

// Options bound what a document may contain.
type Options struct {
	// MaxDepth is the deepest category nesting accepted under "questions";
	// a top-level category has depth 1. Zero or less means unbounded.
	MaxDepth int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxDepth: 32}
}

// nestingLimit converts MaxDepth into a JSON nesting level for Decode:
// the document and the "questions" object sit above the first category.
func (o Options) nestingLimit() int {
	if o.MaxDepth <= 0 {
		return 0
	}
	return o.MaxDepth + 2
}

// Validate checks a decoded document and returns the first violation in
// document order as a *SchemaError. It has no side effects.
func Validate(doc Value, opts Options) error {
	if doc.Kind != KindObject {
		return &SchemaError{Code: CodeInvalidRootType, Type: doc.TypeName()}
	}
	for _, key := range api.RequiredSections {
		if _, ok := doc.Get(key); !ok {
			return &SchemaError{Code: CodeMissingTopLevelKey, Key: key}
		}
	}

	texts, _ := doc.Get(api.SectionTexts)
	if err := validateTexts(texts); err != nil {
		return err
	}

	questions, _ := doc.Get(api.SectionQuestions)
	if questions.Kind != KindObject {
		return &SchemaError{Code: CodeInvalidSectionType, Key: api.SectionQuestions, Type: questions.TypeName()}
	}
	return validateNodes(questions.Members, nil, 1, opts.MaxDepth)
}

func validateTexts(texts Value) error {
	if texts.Kind != KindObject {
		return &SchemaError{Code: CodeInvalidSectionType, Key: api.SectionTexts, Type: texts.TypeName()}
	}
	for _, label := range api.RequiredTexts {
		v, ok := texts.Get(string(label))
		if !ok {
			return &SchemaError{Code: CodeMissingTextKey, Key: string(label)}
		}
		if v.Kind != KindString {
			return &SchemaError{Code: CodeInvalidTextType, Key: string(label), Type: v.TypeName()}
		}
	}
	return nil
}

func validateNodes(members []Member, path []string, depth, limit int) error {
	for _, m := range members {
		switch m.Value.Kind {
		case KindString:
		case KindObject:
			if limit > 0 && depth > limit {
				return &SchemaError{Code: CodeMaxDepthExceeded, Path: slices.Clone(path), Name: m.Name, Limit: limit}
			}
			if err := validateNodes(m.Value.Members, append(path, m.Name), depth+1, limit); err != nil {
				return err
			}
		default:
			return &SchemaError{Code: CodeInvalidNodeType, Path: slices.Clone(path), Name: m.Name, Type: m.Value.TypeName()}
		}
	}
	return nil
}
