package graph

import (
	"errors"

	"github.com/agentic-research/faqtree/api"
)

var ErrNotFound = errors.New("node not found")

// ID addresses a node of the FAQ tree.
// Positive ids are categories, negative ids are questions, 0 is the root.
type ID int

// RootID is the synthetic parent of every top-level entry.
const RootID ID = 0

func (id ID) IsCategory() bool { return id > 0 }
func (id ID) IsQuestion() bool { return id < 0 }

// Category is a selectable menu entry that groups other entries.
// IsCategory is false for the wrapper created around a root-level question.
type Category struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	IsCategory bool   `json:"is_category"`
}

// Question is a leaf of the tree.
// CategoryID is RootID when the question sits at the top level of the document.
type Question struct {
	ID         ID     `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	CategoryID ID     `json:"category_id,omitempty"`
}

// HasCategory reports whether the question has an enclosing category.
func (q Question) HasCategory() bool { return q.CategoryID != RootID }

// ChildRef is one entry of a child list: a question id, or a reference to a
// subcategory whose own children live at Tree[ID].
// The sign of ID is the only kind tag: positive ids refer to subcategories.
type ChildRef struct {
	ID ID `json:"id"`
}

func QuestionRef(id ID) ChildRef    { return ChildRef{ID: id} }
func SubcategoryRef(id ID) ChildRef { return ChildRef{ID: id} }

// IsSubcategory reports whether the reference points at a category.
func (r ChildRef) IsSubcategory() bool { return r.ID.IsCategory() }

type (
	Categories map[ID]Category
	Questions  map[ID]Question
	// Tree maps RootID and every category id to its ordered child list.
	Tree map[ID][]ChildRef
)

// DataSet is one compiled FAQ document. A DataSet handed to a Store must not
// be mutated afterwards; readers share it without locking.
type DataSet struct {
	Categories Categories
	Questions  Questions
	Tree       Tree
	Texts      api.Texts
}

// Empty returns the data set that is active before any document is loaded.
func Empty() *DataSet {
	return &DataSet{
		Categories: Categories{},
		Questions:  Questions{},
		Tree:       Tree{RootID: {}},
		Texts:      api.DefaultTexts(),
	}
}

// Category looks up a category by id.
func (ds *DataSet) Category(id ID) (Category, bool) {
	c, ok := ds.Categories[id]
	return c, ok
}

// Question looks up a question by id.
func (ds *DataSet) Question(id ID) (Question, bool) {
	q, ok := ds.Questions[id]
	return q, ok
}

// Stats summarizes the size of a data set.
type Stats struct {
	Categories int
	Wrappers   int
	Questions  int
	TopLevel   int
}

func (ds *DataSet) Stats() Stats {
	st := Stats{
		Categories: len(ds.Categories),
		Questions:  len(ds.Questions),
		TopLevel:   len(ds.Tree[RootID]),
	}
	for _, c := range ds.Categories {
		if !c.IsCategory {
			st.Wrappers++
		}
	}
	return st
}
