// Package metrics provides Prometheus metrics for the crewfit scoring
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline outcome metrics
	candidatesScored       prometheus.Counter
	candidatesDisqualified prometheus.Counter
	candidatesHighRisk     prometheus.Counter
	duplicateCandidates    prometheus.Counter
	stage2Failures         prometheus.Counter
	batchesProcessed       prometheus.Counter

	// Latency metrics
	scoringLatency prometheus.Histogram
	batchLatency   prometheus.Histogram

	// Error metrics
	scoringErrors      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Operational gauges
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	workerCount     prometheus.Gauge
	batchesRetained prometheus.Gauge
}

// Global metrics manager instance on a custom registry, so the default Go
// collectors never collide with ours.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewfit",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Registry returns the registry metrics are exposed through, for callers
// that gather and print them.
func Registry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.candidatesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_scored_total",
		Help:      "Total number of candidates that completed Stage-1 scoring",
	})
	m.candidatesDisqualified = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_disqualified_total",
		Help:      "Total number of candidates hard-filtered by the safety barrier",
	})
	m.candidatesHighRisk = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_high_risk_total",
		Help:      "Total number of candidates flagged HIGH_RISK by the safety barrier",
	})
	m.duplicateCandidates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_duplicate_total",
		Help:      "Total number of duplicate candidate submissions dropped from pools",
	})
	m.stage2Failures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage2_failures_total",
		Help:      "Total number of per-candidate Stage-2 computations replaced by placeholders",
	})
	m.batchesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_processed_total",
		Help:      "Total number of hiring-round batches scored",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-candidate Stage-1 scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_latency_milliseconds",
		Help:      "Histogram of end-to-end batch scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of recovered Stage-1 scoring failures",
	})
	m.queueEnqueueErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueues by reason",
	}, []string{"reason"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued evaluation jobs",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the evaluation job queue",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of Stage-1 scoring workers",
	})
	m.batchesRetained = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_retained",
		Help:      "Number of scored batches currently held in the result store",
	})
}

// Package-level helpers recording on the global manager.

// RecordCandidateScored increments the candidates-scored counter.
func RecordCandidateScored() { globalManager.candidatesScored.Inc() }

// RecordCandidateDisqualified increments the disqualified counter.
func RecordCandidateDisqualified() { globalManager.candidatesDisqualified.Inc() }

// RecordCandidateHighRisk increments the high-risk counter.
func RecordCandidateHighRisk() { globalManager.candidatesHighRisk.Inc() }

// RecordDuplicateCandidate increments the duplicate-submission counter.
func RecordDuplicateCandidate() { globalManager.duplicateCandidates.Inc() }

// RecordStage2Failure increments the Stage-2 placeholder counter.
func RecordStage2Failure() { globalManager.stage2Failures.Inc() }

// RecordBatchProcessed increments the batches-processed counter.
func RecordBatchProcessed() { globalManager.batchesProcessed.Inc() }

// RecordScoringLatency records one candidate's Stage-1 latency.
func RecordScoringLatency(ms float64) { globalManager.scoringLatency.Observe(ms) }

// RecordBatchLatency records one batch's end-to-end latency.
func RecordBatchLatency(ms float64) { globalManager.batchLatency.Observe(ms) }

// RecordScoringError increments the recovered-failure counter.
func RecordScoringError() { globalManager.scoringErrors.Inc() }

// RecordQueueEnqueueError increments the rejected-enqueue counter by reason.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current queue size gauge.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured queue capacity gauge.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// UpdateBatchesRetained sets the retained-batches gauge.
func UpdateBatchesRetained(n int) { globalManager.batchesRetained.Set(float64(n)) }
