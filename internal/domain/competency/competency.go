// Package competency scores a trait snapshot against named trait clusters.
// Each competency is a {trait: weight} map, configurable per job profile with
// compiled-in defaults.
package competency

import (
	"sort"

	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Default competency keys.
const (
	TechnicalAptitude = "technical_aptitude"
	Reliability       = "reliability"
	StressResilience  = "stress_resilience"
	Cooperation       = "cooperation"
)

// neutralScore is the fallback for unknown competencies and zero weight sums.
const neutralScore = 50.0

// Definitions maps competency keys to their {trait: weight} clusters.
type Definitions map[string]map[string]float64

// DefaultDefinitions returns the compiled-in competency clusters.
func DefaultDefinitions() Definitions {
	return Definitions{
		TechnicalAptitude: {
			traits.CognitiveAbility:  0.60,
			traits.Openness:          0.25,
			traits.Conscientiousness: 0.15,
		},
		Reliability: {
			traits.Conscientiousness: 0.60,
			traits.Integrity:         0.40,
		},
		StressResilience: {
			traits.EmotionalStability: 0.60,
			traits.Resilience:         0.40,
		},
		Cooperation: {
			traits.Agreeableness:      0.50,
			traits.Extraversion:       0.25,
			traits.EmotionalStability: 0.25,
		},
	}
}

// Keys returns the competency keys in sorted order.
func (d Definitions) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Score computes the weighted mean of the competency's traits over the
// snapshot, clamped to [0,100]. Weights come from the supplied map, falling
// back to the default definition for the key. Unknown keys and zero weight
// sums degrade to a neutral score with zero data quality rather than failing.
// Traits absent from the snapshot resolve to the scale midpoint, are flagged
// by name, and reduce data quality proportionally.
func Score(snap traits.Snapshot, key string, weights map[string]float64) types.Detail {
	if weights == nil {
		weights = DefaultDefinitions()[key]
	}
	if len(weights) == 0 {
		return types.Detail{
			Score:   neutralScore,
			Quality: 0,
			Flags:   []string{"unknown_competency:" + key},
		}
	}

	var weightSum float64
	for _, w := range weights {
		if w > 0 {
			weightSum += w
		}
	}
	if weightSum <= 0 {
		return types.Detail{
			Score:   neutralScore,
			Quality: 0,
			Flags:   []string{"zero_weight_sum:" + key},
		}
	}

	d := types.Detail{Factors: make(map[string]float64, len(weights))}

	var weighted float64
	var total, fallbacks int
	for trait, w := range weights {
		if w <= 0 {
			continue
		}
		total++
		v, missing := snap.Value(trait)
		if missing {
			fallbacks++
			d.Flags = append(d.Flags, "fallback:"+trait)
		}
		weighted += w * v
		d.Factors[trait] = v
	}

	d.Score = types.ClampScore(weighted / weightSum)
	d.Quality = float64(total-fallbacks) / float64(total)
	return d
}

// ScoreAll evaluates every competency in defs against the snapshot, using
// overrides where present.
func ScoreAll(snap traits.Snapshot, defs Definitions) map[string]types.Detail {
	if defs == nil {
		defs = DefaultDefinitions()
	}
	out := make(map[string]types.Detail, len(defs))
	for key, weights := range defs {
		out[key] = Score(snap, key, weights)
	}
	return out
}
