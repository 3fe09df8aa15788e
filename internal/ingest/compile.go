package ingest

import (
	"fmt"

	"github.com/agentic-research/faqtree/internal/graph"
)

type compiler struct {
	ids        *Allocator
	categories graph.Categories
	questions  graph.Questions
	tree       graph.Tree
}

// Compile walks the "questions" section depth-first in source order and
// flattens it into the three lookup tables. Objects become categories whose
// children are stored at Tree[id] and referenced from the parent; strings
// become questions. A question at the top level is wrapped in a category with
// IsCategory false so every top-level entry can be selected the same way.
//
// Compile expects a validated section and returns ErrDefensiveFault when it
// meets anything validation should have rejected.
func Compile(section Value) (graph.Tree, graph.Categories, graph.Questions, error) {
	if section.Kind != KindObject || section.Truncated {
		return nil, nil, nil, fmt.Errorf("%w: questions section is a %s", ErrDefensiveFault, section.TypeName())
	}
	c := &compiler{
		ids:        NewAllocator(),
		categories: graph.Categories{},
		questions:  graph.Questions{},
		tree:       graph.Tree{},
	}
	root, err := c.compile(section.Members, graph.RootID)
	if err != nil {
		return nil, nil, nil, err
	}
	c.tree[graph.RootID] = root
	return c.tree, c.categories, c.questions, nil
}

func (c *compiler) compile(members []Member, parent graph.ID) ([]graph.ChildRef, error) {
	refs := make([]graph.ChildRef, 0, len(members))
	for _, m := range members {
		switch m.Value.Kind {
		case KindObject:
			if m.Value.Truncated {
				return nil, fmt.Errorf("%w: category %q was not decoded", ErrDefensiveFault, m.Name)
			}
			id := c.ids.NextCategory()
			c.categories[id] = graph.Category{ID: id, Name: m.Name, IsCategory: true}
			children, err := c.compile(m.Value.Members, id)
			if err != nil {
				return nil, err
			}
			c.tree[id] = children
			refs = append(refs, graph.SubcategoryRef(id))

		case KindString:
			q := c.ids.NextQuestion()
			c.questions[q] = graph.Question{ID: q, Question: m.Name, Answer: m.Value.Str, CategoryID: parent}
			if parent != graph.RootID {
				refs = append(refs, graph.QuestionRef(q))
				continue
			}
			wrapper := c.ids.NextCategory()
			c.categories[wrapper] = graph.Category{ID: wrapper, Name: m.Name, IsCategory: false}
			c.tree[wrapper] = []graph.ChildRef{graph.QuestionRef(q)}
			refs = append(refs, graph.SubcategoryRef(wrapper))

		default:
			return nil, fmt.Errorf("%w: %q holds a %s value", ErrDefensiveFault, m.Name, m.Value.TypeName())
		}
	}
	return refs, nil
}
