// Package worker fans Stage-1 evaluation out across a pool of goroutines.
// Candidates have no ordering dependency and share no mutable state, so the
// pool runs them in parallel; the batch collector provides the barrier that
// the percentile pass waits on.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/halyard/crewfit/internal/domain/globalfit"
	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/internal/domain/types"
	"github.com/halyard/crewfit/pkg/logger"
	"github.com/halyard/crewfit/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.EvaluationJob

// Evaluator computes the Stage-1 result for one candidate. Evaluation is a
// total function: data gaps degrade quality, they never return errors.
type Evaluator interface {
	EvaluateStage1(ctx context.Context, job Job) model.Stage1Result
}

// Collector receives completed Stage-1 results. Implementations own the
// batch barrier: once every candidate in a batch has been collected, the
// percentile pass may read the fully populated pool.
type Collector interface {
	Collect(ctx context.Context, batchID string, result model.Stage1Result)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// Worker processes evaluation jobs until stopped.
type Worker struct {
	queue     Queue
	evaluator Evaluator
	collector Collector
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, evaluator Evaluator, collector Collector, opts ...Option) *Worker {
	w := &Worker{
		queue:     queue,
		evaluator: evaluator,
		collector: collector,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.processJob(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob evaluates one candidate and hands the result to the collector.
// A panic inside the scoring math must not strand the batch barrier, so the
// recovery path collects a neutral, zero-quality placeholder instead.
func (w *Worker) processJob(ctx context.Context, job Job) {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordScoringError()
			w.logger.Error(ctx, "stage-1 evaluation panicked",
				logger.String("candidateID", job.Candidate.ID),
				logger.Any("panic", r),
			)
			w.collector.Collect(ctx, job.BatchID, recoveredStage1(job))
		}
	}()

	result := w.evaluator.EvaluateStage1(ctx, job)
	w.collector.Collect(ctx, job.BatchID, result)
	metrics.RecordCandidateScored()
}

// recoveredStage1 builds the neutral placeholder collected after a panic.
func recoveredStage1(job Job) model.Stage1Result {
	detail := types.Detail{
		Score:   50,
		Quality: 0,
		Flags:   []string{"stage1_recovered"},
	}
	return model.Stage1Result{
		CandidateID: job.Candidate.ID,
		Competency:  map[string]types.Detail{},
		Safety: safety.Assessment{
			Level:   types.SafetyClear,
			Penalty: 1.0,
			Flags:   []string{"stage1_recovered"},
		},
		GlobalFit: globalfit.Result{
			Detail: detail,
			Raw:    detail.Score,
			Label:  globalfit.LabelFor(detail.Score, false),
		},
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool of the given size.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, collector Collector) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(
			queue,
			evaluator,
			collector,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
