// Package service orchestrates the two-stage scoring pipeline: Stage-1
// normative scoring fanned out across a batch, the percentile barrier, and
// Stage-2 contextual prediction for the survivors.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halyard/crewfit/internal/adapters/mq/queue"
	workerpool "github.com/halyard/crewfit/internal/adapters/mq/worker"
	"github.com/halyard/crewfit/internal/adapters/repository"
	"github.com/halyard/crewfit/internal/domain/dedupe"
	"github.com/halyard/crewfit/internal/domain/model"
	"github.com/halyard/crewfit/internal/domain/rank"
	"github.com/halyard/crewfit/internal/domain/types"
	"github.com/halyard/crewfit/pkg/logger"
	"github.com/halyard/crewfit/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 10000
	defaultDedupeSize = 50000
	defaultMaxBatches = 100
)

// ErrNotStarted is returned when the service is used before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the pipeline orchestrator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	jobQueue   queue.Queue
	workerPool *workerpool.Pool
	collectors *collectorRegistry
	evaluator  stage1Evaluator
	stage2     Stage2Evaluator

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	maxBatches  int
	profile     model.JobProfile

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of Stage-1 scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the evaluation job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the per-round duplicate-candidate seen-set.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxBatches bounds how many scored batches the result store retains.
func WithMaxBatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatches = n
		}
	}
}

// WithStage2Evaluator overrides the contextual evaluator.
func WithStage2Evaluator(e Stage2Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.stage2 = e
		}
	}
}

// WithProfile sets the job profile used for every batch the service scores.
func WithProfile(profile model.JobProfile) Option {
	return func(s *Service) {
		s.profile = profile
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 0, // worker pool picks its own default
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		maxBatches:  defaultMaxBatches,
		profile:     model.DefaultProfile(""),
		stage2:      contextualEvaluator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring pipeline",
		logger.String("profileVersion", s.profile.Version),
	)

	s.store = repository.NewMemStore(repository.WithMaxBatches(s.maxBatches))
	s.jobQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.collectors = newCollectorRegistry()

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.evaluator, s.collectors)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring pipeline started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring pipeline...")

	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "scoring pipeline stopped")
}

// EvaluateBatch runs the full two-stage pipeline for one hiring round.
// Stage 1 runs for every candidate independently, the percentile rank runs
// once across the whole pool per competency, and Stage 2 runs only for
// candidates the safety barrier did not disqualify.
func (s *Service) EvaluateBatch(ctx context.Context, batch model.Batch, mode types.SortMode) (BatchReport, error) {
	s.mu.RLock()
	started := s.started
	profile := s.profile
	s.mu.RUnlock()

	if !started {
		return BatchReport{}, ErrNotStarted
	}

	start := time.Now()
	defer func() {
		metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))
	}()

	batchID := batch.ID
	if batchID == "" {
		batchID = uuid.New().String()
	}

	// Admit candidates, dropping duplicate submissions so a candidate never
	// appears twice in the percentile pool. The seen-set is scoped to this
	// round: resubmitting a batch under a known id rescores it in full
	// instead of emptying it.
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	admitted := make([]model.Candidate, 0, len(batch.Candidates))
	duplicates := 0
	for _, c := range batch.Candidates {
		if deduper.SeenAndRecord(ctx, c.ID) {
			duplicates++
			metrics.RecordDuplicateCandidate()
			s.logger.Warn(ctx, "duplicate candidate dropped from pool",
				logger.String("batchID", batchID),
				logger.String("candidateID", c.ID),
			)
			continue
		}
		admitted = append(admitted, c)
	}

	// Stage-1 fan-out. Candidates share no mutable state; the collector is
	// the join point.
	collector := newBatchCollector(len(admitted))
	s.collectors.register(batchID, collector)
	defer s.collectors.unregister(batchID)

	for _, c := range admitted {
		job := model.EvaluationJob{BatchID: batchID, Candidate: c, Profile: profile}
		if !s.jobQueue.Enqueue(ctx, job) {
			// Queue saturated or closed: score inline so the candidate is
			// never silently dropped from the round.
			s.logger.Warn(ctx, "enqueue rejected; evaluating inline",
				logger.String("candidateID", c.ID),
			)
			collector.add(s.evaluator.EvaluateStage1(ctx, job))
			metrics.RecordCandidateScored()
		}
	}

	if err := collector.wait(ctx); err != nil {
		return BatchReport{}, err
	}
	stage1 := collector.snapshot()

	// Percentile barrier: one single-pass ranking per competency over the
	// fully populated pool.
	percentiles := make(map[string]map[string]rank.Percentile)
	for _, key := range profile.Competencies().Keys() {
		pool := make([]rank.Entry, 0, len(admitted))
		for _, c := range admitted {
			pool = append(pool, rank.Entry{
				CandidateID: c.ID,
				Score:       stage1[c.ID].Competency[key].Score,
			})
		}
		percentiles[key] = rank.Percentiles(pool)
	}

	// Stage 2 for survivors, assembling the pipeline results.
	results := make([]model.PipelineResult, 0, len(admitted))
	for _, c := range admitted {
		s1 := stage1[c.ID]

		result := model.PipelineResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Position:    s.positionFor(c, profile),
			Traits:      c.Traits.Map(),
			Stage1:      s1,
			Percentiles: make(map[string]rank.Percentile),
			Passed:      !s1.Safety.HardTriggered(),
		}
		for key, byCandidate := range percentiles {
			if p, ok := byCandidate[c.ID]; ok {
				result.Percentiles[key] = p
			}
		}

		switch {
		case s1.Safety.HardTriggered():
			result.FilterStage = model.FilterStageSafety
			metrics.RecordCandidateDisqualified()
		default:
			if s1.Safety.Level == types.SafetyHighRisk {
				metrics.RecordCandidateHighRisk()
			}
			s2 := stage2For(ctx, s.stage2, batch, c, profile)
			result.Stage2 = &s2
		}
		results = append(results, result)
	}

	sortResults(results, mode)

	if err := s.store.SaveBatch(ctx, batchID, results); err != nil {
		return BatchReport{}, err
	}
	metrics.RecordBatchProcessed()

	report := newBatchReport(batchID, batch.Position, mode, results, duplicates)
	s.logger.Info(ctx, "batch scored",
		logger.String("batchID", batchID),
		logger.Int("poolSize", report.Summary.PoolSize),
		logger.Int("disqualified", report.Summary.Disqualified),
	)
	return report, nil
}

// CandidateReport returns the expanded drill-down for one scored candidate.
func (s *Service) CandidateReport(ctx context.Context, batchID, candidateID string) (CandidateReport, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return CandidateReport{}, ErrNotStarted
	}

	result, err := s.store.Candidate(ctx, batchID, candidateID)
	if err != nil {
		return CandidateReport{}, err
	}
	pool, err := s.store.Batch(ctx, batchID)
	if err != nil {
		return CandidateReport{}, err
	}
	return newCandidateReport(batchID, result, pool), nil
}

// BatchRows returns the stored compact listing for a batch, re-sorted into
// the requested mode.
func (s *Service) BatchRows(ctx context.Context, batchID string, mode types.SortMode) ([]Row, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	results, err := s.store.Batch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	sortResults(results, mode)
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = newRow(r)
	}
	return rows, nil
}

// positionFor resolves the effective position for a candidate.
func (s *Service) positionFor(c model.Candidate, profile model.JobProfile) string {
	if c.Position != "" {
		return c.Position
	}
	return profile.Position
}
