// Package repository defines the scored-batch result store and its errors.
// Results are held in memory for the life of the process so a hiring round
// can be re-listed and drilled into without recomputation; durable storage is
// the caller's concern (the minimal snapshot exists for exactly that).
package repository

import (
	"context"

	"github.com/halyard/crewfit/internal/domain/model"
)

// Store provides read/write access to completed pipeline results.
type Store interface {
	// SaveBatch stores the results of one scored batch, replacing any
	// previous results recorded under the same batch id.
	SaveBatch(ctx context.Context, batchID string, results []model.PipelineResult) error

	// Batch returns the stored results for a batch.
	// Returns ErrBatchNotFound when the batch is unknown.
	Batch(ctx context.Context, batchID string) ([]model.PipelineResult, error)

	// Candidate returns one candidate's result within a batch.
	// Returns ErrCandidateNotFound when the candidate is unknown.
	Candidate(ctx context.Context, batchID, candidateID string) (model.PipelineResult, error)

	// Count returns the number of batches currently retained.
	Count(ctx context.Context) int
}
