package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/halyard/crewfit/internal/domain/model"
)

// batchCollector gathers Stage-1 results for one batch. It is the barrier
// between the per-candidate fan-out and the percentile pass: Wait returns
// only once every expected candidate has been collected, so the percentile
// step always reads a fully populated, immutable snapshot of the pool.
type batchCollector struct {
	mu      sync.Mutex
	results map[string]model.Stage1Result
	done    chan struct{}
	pending int
}

func newBatchCollector(expected int) *batchCollector {
	c := &batchCollector{
		results: make(map[string]model.Stage1Result, expected),
		done:    make(chan struct{}),
		pending: expected,
	}
	if expected == 0 {
		close(c.done)
	}
	return c
}

func (c *batchCollector) add(result model.Stage1Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[result.CandidateID]; exists {
		return
	}
	c.results[result.CandidateID] = result
	c.pending--
	if c.pending == 0 {
		close(c.done)
	}
}

// wait blocks until every expected result arrived or ctx expires.
func (c *batchCollector) wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("batch abandoned before stage-1 completed: %w", ctx.Err())
	}
}

// snapshot returns the collected results. Only call after wait succeeded.
func (c *batchCollector) snapshot() map[string]model.Stage1Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]model.Stage1Result, len(c.results))
	for id, r := range c.results {
		out[id] = r
	}
	return out
}

// collectorRegistry routes worker results to the collector of their batch.
// Results for abandoned batches are dropped.
type collectorRegistry struct {
	mu      sync.RWMutex
	batches map[string]*batchCollector
}

func newCollectorRegistry() *collectorRegistry {
	return &collectorRegistry{
		batches: make(map[string]*batchCollector),
	}
}

// Collect implements worker.Collector.
func (r *collectorRegistry) Collect(_ context.Context, batchID string, result model.Stage1Result) {
	r.mu.RLock()
	c := r.batches[batchID]
	r.mu.RUnlock()

	if c != nil {
		c.add(result)
	}
}

func (r *collectorRegistry) register(batchID string, c *batchCollector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batchID] = c
}

func (r *collectorRegistry) unregister(batchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.batches, batchID)
}
