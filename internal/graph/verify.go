package graph

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

var ErrInvalidDataSet = errors.New("invalid data set")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDataSet, fmt.Sprintf(format, args...))
}

// Verify checks the structural invariants of a data set: id signs, table
// keys, that every reference resolves, that each node is referenced exactly
// once from a list reachable from the root, and that each question records
// the category it is listed under.
func (ds *DataSet) Verify() error {
	if ds == nil {
		return invalidf("nil data set")
	}
	if _, ok := ds.Tree[RootID]; !ok {
		return invalidf("root child list missing")
	}
	for id, c := range ds.Categories {
		if !id.IsCategory() {
			return invalidf("category id %d is not positive", id)
		}
		if c.ID != id {
			return invalidf("category %d stored under key %d", c.ID, id)
		}
		if _, ok := ds.Tree[id]; !ok {
			return invalidf("category %d has no child list", id)
		}
	}
	for id, q := range ds.Questions {
		if !id.IsQuestion() {
			return invalidf("question id %d is not negative", id)
		}
		if q.ID != id {
			return invalidf("question %d stored under key %d", q.ID, id)
		}
	}
	for id := range ds.Tree {
		if id == RootID {
			continue
		}
		if _, ok := ds.Categories[id]; !ok {
			return invalidf("tree key %d is not a category", id)
		}
	}

	v := verifier{
		ds:         ds,
		categories: roaring.New(),
		questions:  roaring.New(),
	}
	if err := v.walk(RootID, false); err != nil {
		return err
	}
	if got := v.categories.GetCardinality(); got != uint64(len(ds.Categories)) {
		return invalidf("%d of %d categories reachable from root", got, len(ds.Categories))
	}
	if got := v.questions.GetCardinality(); got != uint64(len(ds.Questions)) {
		return invalidf("%d of %d questions reachable from root", got, len(ds.Questions))
	}
	return nil
}

type verifier struct {
	ds         *DataSet
	categories *roaring.Bitmap
	questions  *roaring.Bitmap
}

func (v *verifier) walk(container ID, wrapper bool) error {
	for _, ref := range v.ds.Tree[container] {
		switch {
		case ref.ID.IsQuestion():
			q, ok := v.ds.Questions[ref.ID]
			if !ok {
				return invalidf("category %d lists unknown question %d", container, ref.ID)
			}
			if !v.questions.CheckedAdd(uint32(-ref.ID)) {
				return invalidf("question %d listed more than once", ref.ID)
			}
			want := container
			if wrapper {
				want = RootID
			}
			if q.CategoryID != want {
				return invalidf("question %d records category %d, listed under %d", ref.ID, q.CategoryID, container)
			}
		case ref.ID.IsCategory():
			c, ok := v.ds.Categories[ref.ID]
			if !ok {
				return invalidf("category %d lists unknown category %d", container, ref.ID)
			}
			if !v.categories.CheckedAdd(uint32(ref.ID)) {
				return invalidf("category %d listed more than once", ref.ID)
			}
			if !c.IsCategory && container != RootID {
				return invalidf("wrapper category %d nested under %d", ref.ID, container)
			}
			if err := v.walk(ref.ID, !c.IsCategory); err != nil {
				return err
			}
		default:
			return invalidf("category %d lists the root", container)
		}
	}
	return nil
}
