package graph

import (
	"sync"

	"github.com/agentic-research/faqtree/api"
)

// Store is a thread-safe holder of the active data set. The whole set is
// swapped at once, so a reader never pairs tables from different versions.
type Store struct {
	mu         sync.RWMutex
	current    *DataSet
	generation uint64
}

// NewStore returns a store serving initial, or the empty data set when
// initial is nil.
func NewStore(initial *DataSet) *Store {
	if initial == nil {
		initial = Empty()
	}
	return &Store{current: initial}
}

// ReplaceAll verifies next and atomically makes it the active data set.
// On error the active set is left untouched.
func (s *Store) ReplaceAll(next *DataSet) error {
	if err := next.Verify(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	s.generation++
	return nil
}

// Snapshot returns the active data set. Requests that touch several tables
// should work from one snapshot.
func (s *Store) Snapshot() *DataSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generation counts successful swaps.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Categories returns the active category table.
func (s *Store) Categories() Categories {
	return s.Snapshot().Categories
}

// Questions returns the active question table.
func (s *Store) Questions() Questions {
	return s.Snapshot().Questions
}

// Tree returns the active adjacency table.
func (s *Store) Tree() Tree {
	return s.Snapshot().Tree
}

// Texts returns the active display texts.
func (s *Store) Texts() api.Texts {
	return s.Snapshot().Texts
}

// FindParent delegates to the active data set.
func (s *Store) FindParent(id ID) ID {
	return s.Snapshot().FindParent(id)
}

// Children delegates to the active data set.
func (s *Store) Children(id ID) ([]ChildRef, bool) {
	return s.Snapshot().Children(id)
}
