package history

import (
	"context"
	"sync"

	"github.com/termtypr/termtypr/internal/model"
)

// MemoryStore is the in-memory Repository used by tests and as a degraded
// fallback when no durable store can be opened.
type MemoryStore struct {
	mu      sync.Mutex
	results []model.GameResult
}

var _ Repository = (*MemoryStore)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Save appends a result.
func (s *MemoryStore) Save(_ context.Context, result model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// LoadAll returns all records in insertion order.
func (s *MemoryStore) LoadAll(_ context.Context) ([]model.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GameResult, len(s.results))
	copy(out, s.results)
	return out, nil
}

// LoadRecent returns the last n records, oldest of the window first.
func (s *MemoryStore) LoadRecent(_ context.Context, n int) ([]model.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return nil, nil
	}
	if n > len(s.results) {
		n = len(s.results)
	}
	out := make([]model.GameResult, n)
	copy(out, s.results[len(s.results)-n:])
	return out, nil
}

// FindBest returns the highest-WPM record, optionally filtered by mode.
func (s *MemoryStore) FindBest(_ context.Context, mode *model.Mode) (*model.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := bestOf(filterMode(s.results, mode))
	if best == nil {
		return nil, nil
	}
	// Same copy-on-read contract as LoadAll; callers never see the
	// store's own slice element.
	out := *best
	return &out, nil
}

// Skipped always reports zero; memory records cannot corrupt.
func (s *MemoryStore) Skipped() int { return 0 }

// Clear removes all history. Administrative operation.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	return nil
}
