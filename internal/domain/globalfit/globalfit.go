// Package globalfit aggregates competency scores into the Stage-1 normative
// fit value and applies the safety barrier's suspension semantics.
package globalfit

import (
	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Fit label band floors.
const (
	excellentFloor = 85.0
	strongFloor    = 70.0
	moderateFloor  = 55.0
	weakFloor      = 40.0
)

// Result is the published global fit. Raw keeps the arithmetic aggregation
// before the barrier for auditability; Score is what downstream consumers
// rank on. When a hard veto triggered, Score is forced to zero regardless of
// the arithmetic mean and Suspended is set.
type Result struct {
	types.Detail `yaml:",inline"`
	Raw          float64        `json:"raw" yaml:"raw"`
	Suspended    bool           `json:"suspended" yaml:"suspended"`
	Label        types.FitLabel `json:"label" yaml:"label"`
}

// LabelFor maps a published global fit score onto its band.
func LabelFor(score float64, suspended bool) types.FitLabel {
	if suspended {
		return types.FitDisqualified
	}
	switch {
	case score >= excellentFloor:
		return types.FitExcellent
	case score >= strongFloor:
		return types.FitStrong
	case score >= moderateFloor:
		return types.FitModerate
	case score >= weakFloor:
		return types.FitWeak
	default:
		return types.FitPoor
	}
}

// Aggregate computes the weighted mean of the competency scores (uniform when
// weights is empty) and applies the barrier. Non-advisory penalties scale the
// raw mean multiplicatively; a hard trigger overrides the arithmetic entirely
// and publishes zero with a suspension flag.
func Aggregate(scores map[string]types.Detail, weights map[string]float64, barrier safety.Assessment) Result {
	res := Result{}
	if len(scores) == 0 {
		res.Score = 0
		res.Quality = 0
		res.Flags = append(res.Flags, "no_competencies")
		res.Label = LabelFor(0, false)
		return res
	}

	res.Factors = make(map[string]float64, len(scores))

	var weighted, weightSum, quality float64
	for key, d := range scores {
		w := 1.0
		if len(weights) > 0 {
			w = weights[key]
			if w <= 0 {
				continue
			}
		}
		weighted += w * d.Score
		quality += w * d.Quality
		weightSum += w
		res.Factors[key] = d.Score
		res.Flags = append(res.Flags, d.Flags...)
	}
	if weightSum <= 0 {
		// Every configured weight excluded every competency; degrade to the
		// uniform mean so the pipeline still publishes a value.
		for key, d := range scores {
			weighted += d.Score
			quality += d.Quality
			weightSum++
			res.Factors[key] = d.Score
		}
		res.Flags = append(res.Flags, "zero_weight_sum")
	}

	res.Raw = types.ClampScore(weighted / weightSum)
	res.Quality = quality / weightSum

	adjusted := types.ClampScore(res.Raw * barrier.Penalty)
	res.Factors["barrier_penalty"] = barrier.Penalty
	res.Factors["barrier_adjusted"] = adjusted

	if barrier.HardTriggered() {
		res.Score = 0
		res.Suspended = true
		res.Flags = append(res.Flags, "suspended")
	} else {
		res.Score = adjusted
	}
	res.Flags = append(res.Flags, barrier.Flags...)
	res.Label = LabelFor(res.Score, res.Suspended)
	return res
}
