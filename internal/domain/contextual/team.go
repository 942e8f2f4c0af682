package contextual

import (
	"math"

	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Team compatibility constants.
const (
	// minCrewSize is the smallest group the model is meaningful for.
	minCrewSize = 2

	// varianceCeiling is the empirical ceiling for the conscientiousness
	// standard deviation used to normalize the faultline penalty.
	varianceCeiling = 35.0

	// neutralTeamScore is returned for groups too small to evaluate.
	neutralTeamScore = 50.0

	// deltaDeadZone is the band (in score points) inside which a marginal
	// change is labeled neutral, so noise does not flip the direction.
	deltaDeadZone = 3.0
)

// Default sub-score weights: disjunctive minimum (jerk filter), variance
// penalty (faultline risk), additive buffer (collective resilience).
const (
	defaultCohesionWeight  = 0.40
	defaultAlignmentWeight = 0.30
	defaultBufferWeight    = 0.30
)

// Team sub-score factor keys.
const (
	FactorCohesion  = "cohesion_floor"
	FactorAlignment = "standards_alignment"
	FactorBuffer    = "stability_buffer"
)

// Direction labels a marginal change.
type Direction string

// Delta directions.
const (
	DirectionPositive Direction = "positive"
	DirectionNeutral  Direction = "neutral"
	DirectionNegative Direction = "negative"
)

// TeamWeights configures the three team sub-score weights.
type TeamWeights struct {
	Cohesion  float64 `koanf:"cohesion" yaml:"cohesion"`
	Alignment float64 `koanf:"alignment" yaml:"alignment"`
	Buffer    float64 `koanf:"buffer" yaml:"buffer"`
}

// DefaultTeamWeights returns the compiled-in team weights.
func DefaultTeamWeights() TeamWeights {
	return TeamWeights{
		Cohesion:  defaultCohesionWeight,
		Alignment: defaultAlignmentWeight,
		Buffer:    defaultBufferWeight,
	}
}

// TeamDelta reports the marginal effect of adding one candidate to a group:
// the score without and with the candidate, the change per sub-score, and a
// directional label per sub-score and overall.
type TeamDelta struct {
	Without    types.Detail         `json:"without" yaml:"without"`
	With       types.Detail         `json:"with" yaml:"with"`
	SubDeltas  map[string]float64   `json:"sub_deltas" yaml:"sub_deltas"`
	Directions map[string]Direction `json:"directions" yaml:"directions"`
	Overall    Direction            `json:"overall" yaml:"overall"`
}

// TeamCompatibility scores how well a group of members works together.
// Three independent sub-models run over the full member list:
//
//   - cohesion floor: the single lowest agreeableness value. One highly
//     disagreeable member degrades group function disproportionately; the
//     group is only as cohesive as its weakest link.
//   - standards alignment: the conscientiousness standard deviation,
//     normalized against varianceCeiling and inverted. High dispersion
//     signals conflicting work standards.
//   - stability buffer: mean emotional stability, rewarding collective
//     resilience.
//
// Groups below minCrewSize get a neutral score with an explicit flag.
func TeamCompatibility(members []traits.Snapshot, w *TeamWeights) types.Detail {
	weights := DefaultTeamWeights()
	if w != nil && w.Cohesion+w.Alignment+w.Buffer > 0 {
		weights = *w
	}

	if len(members) < minCrewSize {
		return types.Detail{
			Score:   neutralTeamScore,
			Quality: 0,
			Flags:   []string{"insufficient_crew"},
		}
	}

	d := types.Detail{Quality: 1.0}

	var fallbacks, lookups int
	value := func(snap traits.Snapshot, name string) float64 {
		lookups++
		v, missing := snap.Value(name)
		if missing {
			fallbacks++
			d.Flags = append(d.Flags, "fallback:"+name)
		}
		return v
	}

	cohesion := math.MaxFloat64
	var consMean, consSqSum, bufferSum float64
	cons := make([]float64, len(members))
	for i, m := range members {
		if a := value(m, traits.Agreeableness); a < cohesion {
			cohesion = a
		}
		cons[i] = value(m, traits.Conscientiousness)
		consMean += cons[i]
		bufferSum += value(m, traits.EmotionalStability)
	}
	consMean /= float64(len(members))
	for _, c := range cons {
		consSqSum += (c - consMean) * (c - consMean)
	}
	stddev := math.Sqrt(consSqSum / float64(len(members)))

	alignment := types.ClampScore(traits.MaxValue * (1 - stddev/varianceCeiling))
	buffer := bufferSum / float64(len(members))

	d.Factors = map[string]float64{
		FactorCohesion:  cohesion,
		FactorAlignment: alignment,
		FactorBuffer:    buffer,
	}
	d.Score = types.ClampScore(weights.Cohesion*cohesion + weights.Alignment*alignment + weights.Buffer*buffer)
	if lookups > 0 {
		d.Quality = float64(lookups-fallbacks) / float64(lookups)
	}
	return d
}

// TeamDeltaFor computes the team compatibility without and with the candidate
// appended and labels the marginal change per sub-score.
func TeamDeltaFor(members []traits.Snapshot, candidate traits.Snapshot, w *TeamWeights) TeamDelta {
	without := TeamCompatibility(members, w)
	joined := make([]traits.Snapshot, 0, len(members)+1)
	joined = append(joined, members...)
	joined = append(joined, candidate)
	with := TeamCompatibility(joined, w)

	delta := TeamDelta{
		Without:    without,
		With:       with,
		SubDeltas:  make(map[string]float64, len(with.Factors)),
		Directions: make(map[string]Direction, len(with.Factors)),
		Overall:    direction(with.Score - without.Score),
	}
	// Sub-score deltas are only meaningful when both sides were evaluable.
	if without.Factors != nil {
		for key, after := range with.Factors {
			change := after - without.Factors[key]
			delta.SubDeltas[key] = change
			delta.Directions[key] = direction(change)
		}
	}
	return delta
}

// direction maps a raw change onto a label using the dead zone.
func direction(change float64) Direction {
	switch {
	case change > deltaDeadZone:
		return DirectionPositive
	case change < -deltaDeadZone:
		return DirectionNegative
	default:
		return DirectionNeutral
	}
}
