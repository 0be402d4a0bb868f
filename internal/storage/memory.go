package storage

import (
	"context"
	"sync"

	"violet/internal/core"
)

// MemoryStore keeps snapshots in process memory. It backs tests and
// ephemeral runs where nothing should touch disk.
type MemoryStore struct {
	mu          sync.Mutex
	items       []core.Transaction
	settings    core.Settings
	hasSettings bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadSnapshot(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, items []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]core.Transaction, len(items))
	copy(s.items, items)
	return nil
}

func (s *MemoryStore) LoadSettings(_ context.Context) (core.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, s.hasSettings, nil
}

func (s *MemoryStore) SaveSettings(_ context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.hasSettings = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
