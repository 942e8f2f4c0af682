package contextual

import (
	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Normalized context field names. Resource and demand values arrive in [0,1].
const (
	ResourceCompensation = "compensation_index"
	ResourceRest         = "rest_ratio"
	ResourcePrivateSpace = "private_space_ratio"

	DemandWorkload    = "workload_intensity"
	DemandSupervision = "supervisory_pressure"
)

// Environment fit constants.
const (
	// ratioCap bounds the resources-over-demands ratio so a single outlier
	// context cannot dominate the score.
	ratioCap = 2.0

	// demandFloor keeps the combined demand strictly positive.
	demandFloor = 0.05

	// neutralContextValue is substituted for missing context fields.
	neutralContextValue = 0.5
)

// Fixed sub-weights combining the context fields into R and D.
var (
	resourceWeights = map[string]float64{
		ResourceCompensation: 0.40,
		ResourceRest:         0.35,
		ResourcePrivateSpace: 0.25,
	}
	demandWeights = map[string]float64{
		DemandWorkload:    0.60,
		DemandSupervision: 0.40,
	}
)

// EnvironmentFit scores how well the posting's context suits the candidate:
// the resources-over-demands ratio, capped at ratioCap, scaled by the
// candidate's resilience. A resilient individual partially compensates for an
// unfavorable ratio; a fragile one needs a favorable ratio to reach the same
// score. Missing context fields fall back to the neutral midpoint with a
// quality penalty and an explicit flag.
func EnvironmentFit(resources, demands map[string]float64, snap traits.Snapshot) types.Detail {
	d := types.Detail{}

	var fallbacks int
	total := len(resourceWeights) + len(demandWeights) + 1 // +1 for resilience

	combine := func(values map[string]float64, weights map[string]float64) float64 {
		var sum float64
		for field, w := range weights {
			v, ok := values[field]
			if !ok {
				v = neutralContextValue
				fallbacks++
				d.Flags = append(d.Flags, "fallback:"+field)
			}
			sum += w * types.Clamp(v, 0, 1)
		}
		return sum
	}

	r := combine(resources, resourceWeights)
	dd := combine(demands, demandWeights)
	if dd < demandFloor {
		dd = demandFloor
	}

	ratio := r / dd
	if ratio > ratioCap {
		ratio = ratioCap
	}

	resilience, missing := snap.Value(traits.Resilience)
	if missing {
		fallbacks++
		d.Flags = append(d.Flags, "fallback:"+traits.Resilience)
	}
	// Resilience modulates the ratio score in [0.75, 1.25]; the midpoint
	// trait value leaves the ratio score untouched.
	modulation := 0.75 + resilience/(2*traits.MaxValue)

	d.Score = types.ClampScore(ratio / ratioCap * traits.MaxValue * modulation)
	d.Quality = float64(total-fallbacks) / float64(total)
	d.Factors = map[string]float64{
		"resources":  r,
		"demands":    dd,
		"ratio":      ratio,
		"resilience": resilience,
	}
	return d
}
