// Package rank computes dynamic percentile ranks against the live pool of
// candidates scored together in one hiring round. Ties use the Tukey midpoint
// convention so tied candidates receive identical percentiles instead of the
// rank systematically favoring or penalizing one of them.
package rank

import (
	"sort"

	"github.com/halyard/crewfit/internal/domain/types"
)

// Pool size thresholds for percentile confidence.
const (
	minPoolSize    = 2
	mediumPoolSize = 5

	// neutralPercentile is reported when the pool is too small to rank.
	neutralPercentile = 50.0
)

// Entry is one candidate's competency score inside a pool.
type Entry struct {
	CandidateID string
	Score       float64
}

// Percentile is a candidate's standing relative to the pool.
type Percentile struct {
	Value      float64          `json:"value" yaml:"value"`
	Confidence types.Confidence `json:"confidence" yaml:"confidence"`
	PoolSize   int              `json:"pool_size" yaml:"pool_size"`
}

// confidenceFor maps a pool size onto a confidence tier.
func confidenceFor(n int) types.Confidence {
	switch {
	case n < minPoolSize:
		return types.ConfidenceLow
	case n < mediumPoolSize:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceHigh
	}
}

// Percentiles ranks every pool member in a single O(N log N) pass. For each
// candidate the Tukey midpoint formula applies:
//
//	percentile = (count_strictly_below + 0.5*count_tied) / N * 100
//
// where the tied count includes the candidate itself. Re-running on an
// unchanged pool yields identical values.
func Percentiles(pool []Entry) map[string]Percentile {
	out := make(map[string]Percentile, len(pool))
	n := len(pool)
	if n == 0 {
		return out
	}
	if n < minPoolSize {
		for _, e := range pool {
			out[e.CandidateID] = Percentile{
				Value:      neutralPercentile,
				Confidence: types.ConfidenceLow,
				PoolSize:   n,
			}
		}
		return out
	}

	sorted := make([]Entry, n)
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score < sorted[j].Score })

	confidence := confidenceFor(n)
	for i := 0; i < n; {
		// Walk the tie group sharing sorted[i].Score.
		j := i + 1
		for j < n && sorted[j].Score == sorted[i].Score {
			j++
		}
		below := float64(i)
		tied := float64(j - i)
		value := (below + 0.5*tied) / float64(n) * 100.0
		for k := i; k < j; k++ {
			out[sorted[k].CandidateID] = Percentile{
				Value:      value,
				Confidence: confidence,
				PoolSize:   n,
			}
		}
		i = j
	}
	return out
}

// Of ranks a single score against the other scores in its pool. The candidate
// is counted as a pool member: if its exact score is not already present it
// is added before ranking.
func Of(score float64, others []float64) Percentile {
	pool := others
	found := false
	for _, s := range others {
		if s == score {
			found = true
			break
		}
	}
	if !found {
		pool = append(append(make([]float64, 0, len(others)+1), others...), score)
	}

	n := len(pool)
	if n < minPoolSize {
		return Percentile{Value: neutralPercentile, Confidence: types.ConfidenceLow, PoolSize: n}
	}

	var below, tied float64
	for _, s := range pool {
		switch {
		case s < score:
			below++
		case s == score:
			tied++
		}
	}
	return Percentile{
		Value:      (below + 0.5*tied) / float64(n) * 100.0,
		Confidence: confidenceFor(n),
		PoolSize:   n,
	}
}
