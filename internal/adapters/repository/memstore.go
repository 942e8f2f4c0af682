package repository

import (
	"context"
	"sync"

	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/pkg/metrics"
)

// defaultMaxBatches bounds how many scored batches stay resident.
const defaultMaxBatches = 100

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxBatches bounds the number of retained batches; the oldest batch is
// evicted first once the bound is reached.
func WithMaxBatches(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxBatches = n
		}
	}
}

// MemStore implements Store with an in-memory map guarded by a mutex.
type MemStore struct {
	mu         sync.RWMutex
	batches    map[string][]model.PipelineResult
	order      []string
	maxBatches int
}

// NewMemStore creates an in-memory result store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		maxBatches: defaultMaxBatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.batches = make(map[string][]model.PipelineResult, s.maxBatches)
	return s
}

// SaveBatch stores one scored batch, copying the slice so later caller
// mutations cannot leak into the store.
func (s *MemStore) SaveBatch(_ context.Context, batchID string, results []model.PipelineResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[batchID]; !exists {
		if len(s.batches) >= s.maxBatches && len(s.order) > 0 {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.batches, oldest)
		}
		s.order = append(s.order, batchID)
	}

	stored := make([]model.PipelineResult, len(results))
	copy(stored, results)
	s.batches[batchID] = stored

	metrics.UpdateBatchesRetained(len(s.batches))
	return nil
}

// Batch returns a copy of the stored results for one batch.
func (s *MemStore) Batch(_ context.Context, batchID string) ([]model.PipelineResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.batches[batchID]
	if !ok {
		return nil, ErrBatchNotFound
	}
	out := make([]model.PipelineResult, len(stored))
	copy(out, stored)
	return out, nil
}

// Candidate returns one candidate's result within a batch.
func (s *MemStore) Candidate(_ context.Context, batchID, candidateID string) (model.PipelineResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.batches[batchID]
	if !ok {
		return model.PipelineResult{}, ErrBatchNotFound
	}
	for _, r := range stored {
		if r.CandidateID == candidateID {
			return r, nil
		}
	}
	return model.PipelineResult{}, ErrCandidateNotFound
}

// Count returns the number of batches currently retained.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}
