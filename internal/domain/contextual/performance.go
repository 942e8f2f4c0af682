// Package contextual implements the Stage-2 scores: the four contextual
// sub-models (individual performance, team compatibility, environment fit,
// leadership fit) and the predictor that combines them into an integration
// outcome. All functions are pure transforms over their inputs; data gaps
// degrade quality and add flags, they never produce errors.
package contextual

import (
	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Default performance weights. The interaction term captures that cognitive
// ability only translates into performance when paired with sustained effort:
// a capable-but-disengaged profile must score below a moderately-capable-but-
// diligent one. The weights sum to 1 at the extreme (G = C = 100) and are
// empirically tuned priors, overridable per job profile.
const (
	defaultGeneralWeight       = 0.40
	defaultConscientiousWeight = 0.40
	defaultInteractionWeight   = 0.20

	// missingInputPenalty is subtracted from data quality for every
	// sub-test that fell back to the scale midpoint.
	missingInputPenalty = 0.5
)

// PerformanceWeights configures the individual performance equation.
type PerformanceWeights struct {
	General       float64 `koanf:"general" yaml:"general"`
	Conscientious float64 `koanf:"conscientious" yaml:"conscientious"`
	Interaction   float64 `koanf:"interaction" yaml:"interaction"`
}

// DefaultPerformanceWeights returns the compiled-in performance weights.
func DefaultPerformanceWeights() PerformanceWeights {
	return PerformanceWeights{
		General:       defaultGeneralWeight,
		Conscientious: defaultConscientiousWeight,
		Interaction:   defaultInteractionWeight,
	}
}

// Performance combines cognitive ability and conscientiousness, plus their
// interaction, into a single task-capability score in [0,100]. Missing
// sub-test data falls back to the scale midpoint with a quality penalty.
func Performance(snap traits.Snapshot, w *PerformanceWeights) types.Detail {
	weights := DefaultPerformanceWeights()
	if w != nil && w.General+w.Conscientious+w.Interaction > 0 {
		weights = *w
	}

	d := types.Detail{Quality: 1.0}

	g, gMissing := snap.Value(traits.CognitiveAbility)
	if gMissing {
		d.Flags = append(d.Flags, "fallback:"+traits.CognitiveAbility)
		d.Quality -= missingInputPenalty
	}
	c, cMissing := snap.Value(traits.Conscientiousness)
	if cMissing {
		d.Flags = append(d.Flags, "fallback:"+traits.Conscientiousness)
		d.Quality -= missingInputPenalty
	}
	if d.Quality < 0 {
		d.Quality = 0
	}

	interaction := g * c / traits.MaxValue
	d.Score = types.ClampScore(weights.General*g + weights.Conscientious*c + weights.Interaction*interaction)
	d.Factors = map[string]float64{
		"cognitive_ability": g,
		"conscientiousness": c,
		"interaction":       interaction,
	}
	return d
}
