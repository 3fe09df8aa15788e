package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/faqtree/api"
)

var (
	// ErrMalformedInput reports a document that is not valid JSON.
	ErrMalformedInput = errors.New("malformed input")
	// ErrSchemaViolation is matched by every *SchemaError.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrDefensiveFault reports a compiler state validation should have ruled out.
	ErrDefensiveFault = errors.New("internal fault")
)

// ErrorCode identifies the kind of schema violation.
type ErrorCode string

const (
	// CodeInvalidRootType indicates the document is not a JSON object.
	CodeInvalidRootType ErrorCode = "invalid-root-type"
	// CodeMissingTopLevelKey indicates "texts" or "questions" is absent.
	CodeMissingTopLevelKey ErrorCode = "missing-top-level-key"
	// CodeInvalidSectionType indicates a top-level section is not an object.
	CodeInvalidSectionType ErrorCode = "invalid-section-type"
	// CodeMissingTextKey indicates a required display text is absent.
	CodeMissingTextKey ErrorCode = "missing-text-key"
	// CodeInvalidTextType indicates a display text is not a string.
	CodeInvalidTextType ErrorCode = "invalid-text-type"
	// CodeInvalidNodeType indicates a tree value is neither object nor string.
	CodeInvalidNodeType ErrorCode = "invalid-node-type"
	// CodeMaxDepthExceeded indicates categories nest deeper than allowed.
	CodeMaxDepthExceeded ErrorCode = "max-depth-exceeded"
)

// SchemaError describes the first violation found in a document.
type SchemaError struct {
	Code ErrorCode
	// Key is the missing or invalid section or text key.
	Key string
	// Path holds the names of the categories enclosing Name.
	Path []string
	// Name is the offending entry of the question tree.
	Name string
	// Type is the JSON type found where another was expected.
	Type string
	// Limit is the nesting bound for CodeMaxDepthExceeded.
	Limit int
}

func (e *SchemaError) Error() string {
	switch e.Code {
	case CodeInvalidRootType:
		return fmt.Sprintf("document must be a JSON object (got %s)", e.Type)
	case CodeMissingTopLevelKey:
		return fmt.Sprintf("%q must be in top level json", e.Key)
	case CodeInvalidSectionType:
		return fmt.Sprintf("%q section must be an object (got %s)", e.Key, e.Type)
	case CodeMissingTextKey:
		return fmt.Sprintf("%q must be in %q section", e.Key, api.SectionTexts)
	case CodeInvalidTextType:
		return fmt.Sprintf("%q in %q section must be a string (got %s)", e.Key, api.SectionTexts, e.Type)
	case CodeInvalidNodeType:
		return fmt.Sprintf("all values in %q section must be dict or str (error on value for: %q at %s, got %s)",
			api.SectionQuestions, e.Name, e.Location(), e.Type)
	case CodeMaxDepthExceeded:
		return fmt.Sprintf("category %q at %s is nested deeper than %d levels", e.Name, e.Location(), e.Limit)
	}
	return string(e.Code)
}

// Is makes every SchemaError match ErrSchemaViolation.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// Location renders Path as "questions > A > B".
func (e *SchemaError) Location() string {
	return strings.Join(append([]string{api.SectionQuestions}, e.Path...), " > ")
}
