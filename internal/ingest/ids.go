package ingest

import "github.com/agentic-research/faqtree/internal/graph"

// Allocator hands out category ids counting up from 1 and question ids
// counting down from -1. One allocator is shared by a whole compile so ids
// are unique regardless of nesting.
type Allocator struct {
	nextCategory graph.ID
	nextQuestion graph.ID
}

func NewAllocator() *Allocator {
	return &Allocator{nextCategory: 1, nextQuestion: -1}
}

func (a *Allocator) NextCategory() graph.ID {
	id := a.nextCategory
	a.nextCategory++
	return id
}

func (a *Allocator) NextQuestion() graph.ID {
	id := a.nextQuestion
	a.nextQuestion--
	return id
}
