package ingest

import (
	"fmt"

	"github.com/agentic-research/faqtree/api"
	"github.com/agentic-research/faqtree/internal/graph"
)

// Parse decodes, validates and compiles a FAQ document into a verified data
// set. It never touches any live state; callers decide whether to swap the
// result in.
func Parse(data []byte, opts Options) (*graph.DataSet, error) {
	doc, err := Decode(data, opts.nestingLimit())
	if err != nil {
		return nil, err
	}
	if err := Validate(doc, opts); err != nil {
		return nil, err
	}

	texts, _ := doc.Get(api.SectionTexts)
	questions, _ := doc.Get(api.SectionQuestions)

	tree, categories, qs, err := Compile(questions)
	if err != nil {
		return nil, err
	}
	ds := &graph.DataSet{
		Categories: categories,
		Questions:  qs,
		Tree:       tree,
		Texts:      textsOf(texts),
	}
	if err := ds.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDefensiveFault, err)
	}
	return ds, nil
}

func textsOf(section Value) api.Texts {
	texts := api.DefaultTexts()
	for _, label := range api.RequiredTexts {
		if v, ok := section.Get(string(label)); ok {
			texts.Set(label, v.Str)
		}
	}
	return texts
}
