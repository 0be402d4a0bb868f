// Package ledger holds the in-memory ordered transaction collection, the
// source of truth for every derived view.
package ledger

import (
	"errors"
	"fmt"

	"violet/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// Store is an ordered collection of transactions keyed by id, newest first.
// It does not persist itself: the controller saves a snapshot after each
// mutation. Store is not safe for concurrent use; the controller serializes
// access.
type Store struct {
	items []core.Transaction
	index map[string]int
}

func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Add validates the record and inserts it at the front of the sequence.
func (s *Store) Add(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}
	if _, ok := s.index[t.ID]; ok {
		return fmt.Errorf("add transaction: %w: %s", ErrDuplicateID, t.ID)
	}
	s.items = append([]core.Transaction{t}, s.items...)
	s.reindex()
	return nil
}

// Update replaces the record with a matching id in place.
func (s *Store) Update(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	i, ok := s.index[t.ID]
	if !ok {
		return fmt.Errorf("update transaction %s: %w", t.ID, ErrNotFound)
	}
	s.items[i] = t
	return nil
}

// Remove deletes the record with the given id.
func (s *Store) Remove(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("remove transaction %s: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return nil
}

// ToggleStatus flips pending to completed and back, leaving every other
// field untouched. Toggling twice restores the original status.
func (s *Store) ToggleStatus(id string) (core.Transaction, error) {
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("toggle transaction %s: %w", id, ErrNotFound)
	}
	s.items[i].Status = s.items[i].Status.Toggle()
	return s.items[i], nil
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.items = nil
	s.index = make(map[string]int)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Transaction, error) {
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, ErrNotFound)
	}
	return s.items[i], nil
}

// Snapshot returns a defensive copy of the ordered sequence. Derivations
// work on snapshots so they can never observe a concurrent mutation.
func (s *Store) Snapshot() []core.Transaction {
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

// Replace loads a persisted snapshot wholesale, preserving its order.
func (s *Store) Replace(items []core.Transaction) {
	s.items = make([]core.Transaction, len(items))
	copy(s.items, items)
	s.reindex()
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, t := range s.items {
		s.index[t.ID] = i
	}
}
