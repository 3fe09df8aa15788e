package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTexts = `{"start": "hi", "select": "pick", "unknown": "eh"}`

func decodeDoc(t *testing.T, doc string) Value {
	t.Helper()
	v, err := Decode([]byte(doc), 0)
	require.NoError(t, err)
	return v
}

func schemaErr(t *testing.T, err error) *SchemaError {
	t.Helper()
	require.ErrorIs(t, err, ErrSchemaViolation)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	return se
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	doc := decodeDoc(t, `{"texts": `+validTexts+`, "questions": {"Q": "A", "C": {"D": {"Q2": "A2"}}}}`)
	require.NoError(t, Validate(doc, DefaultOptions()))
	// Running it again on the same document is harmless.
	require.NoError(t, Validate(doc, DefaultOptions()))
}

func TestValidateAcceptsEmptyQuestions(t *testing.T) {
	doc := decodeDoc(t, `{"texts": `+validTexts+`, "questions": {}}`)
	assert.NoError(t, Validate(doc, DefaultOptions()))
}

func TestValidateViolations(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		code ErrorCode
		key  string
		item string
		path []string
	}{
		{"root array", `[]`, CodeInvalidRootType, "", "", nil},
		{"missing texts", `{"questions": {}}`, CodeMissingTopLevelKey, "texts", "", nil},
		{"missing both reports texts first", `{}`, CodeMissingTopLevelKey, "texts", "", nil},
		{"missing questions", `{"texts": ` + validTexts + `}`, CodeMissingTopLevelKey, "questions", "", nil},
		{"texts not object", `{"texts": "x", "questions": {}}`, CodeInvalidSectionType, "texts", "", nil},
		{"missing start", `{"texts": {"select": "a", "unknown": "b"}, "questions": {}}`, CodeMissingTextKey, "start", "", nil},
		{"missing unknown", `{"texts": {"start": "a", "select": "b"}, "questions": {}}`, CodeMissingTextKey, "unknown", "", nil},
		{"text not string", `{"texts": {"start": 1, "select": "a", "unknown": "b"}, "questions": {}}`, CodeInvalidTextType, "start", "", nil},
		{"questions not object", `{"texts": ` + validTexts + `, "questions": []}`, CodeInvalidSectionType, "questions", "", nil},
		{"number at top", `{"texts": ` + validTexts + `, "questions": {"Q": 5}}`, CodeInvalidNodeType, "", "Q", []string{}},
		{"list nested", `{"texts": ` + validTexts + `, "questions": {"C": {"D": {"Q": ["x"]}}}}`, CodeInvalidNodeType, "", "Q", []string{"C", "D"}},
		{"null nested", `{"texts": ` + validTexts + `, "questions": {"C": {"Q": null}}}`, CodeInvalidNodeType, "", "Q", []string{"C"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(decodeDoc(t, c.doc), DefaultOptions())
			se := schemaErr(t, err)
			assert.Equal(t, c.code, se.Code)
			assert.Equal(t, c.key, se.Key)
			assert.Equal(t, c.item, se.Name)
			if c.path != nil {
				assert.ElementsMatch(t, c.path, se.Path)
			}
			assert.NotEmpty(t, se.Error())
		})
	}
}

func TestValidateReportsFirstViolationInDocumentOrder(t *testing.T) {
	doc := decodeDoc(t, `{"texts": `+validTexts+`, "questions": {
		"ok": "fine",
		"C": {"first": 1, "second": true},
		"third": null
	}}`)
	se := schemaErr(t, Validate(doc, DefaultOptions()))
	assert.Equal(t, "first", se.Name)
	assert.Equal(t, []string{"C"}, se.Path)
	assert.Equal(t, "number", se.Type)
	assert.Contains(t, se.Error(), `"first"`)
	assert.Contains(t, se.Error(), "questions > C")
}

func TestValidateMaxDepth(t *testing.T) {
	doc := `{"texts": ` + validTexts + `, "questions": {"L1": {"L2": {"L3": {"q": "a"}}}}}`

	require.NoError(t, Validate(decodeDoc(t, doc), Options{MaxDepth: 3}))
	require.NoError(t, Validate(decodeDoc(t, doc), Options{}))

	se := schemaErr(t, Validate(decodeDoc(t, doc), Options{MaxDepth: 2}))
	assert.Equal(t, CodeMaxDepthExceeded, se.Code)
	assert.Equal(t, "L3", se.Name)
	assert.Equal(t, []string{"L1", "L2"}, se.Path)
	assert.Equal(t, 2, se.Limit)
}
