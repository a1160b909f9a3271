package store

import (
	"context"
	"sync"

	"github.com/okonst/scribecheck/internal/model"
)

// MemoryStore is an in-process Store keeping every run's record.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]*model.AnalysisResult
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]*model.AnalysisResult),
	}
}

// Save appends the result to the document's run history.
func (s *MemoryStore) Save(ctx context.Context, result *model.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *result
	s.records[result.DocumentID] = append(s.records[result.DocumentID], &copied)
	return nil
}

// Load returns the latest result for the document.
func (s *MemoryStore) Load(ctx context.Context, documentID string) (*model.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.records[documentID]
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	latest := *history[len(history)-1]
	return &latest, nil
}

// History returns every stored result for the document, oldest first.
func (s *MemoryStore) History(documentID string) []*model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.records[documentID]
	out := make([]*model.AnalysisResult, len(history))
	copy(out, history)
	return out
}
