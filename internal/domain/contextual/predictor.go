package contextual

import (
	"math"

	"github.com/halyard/crewfit/internal/domain/types"
)

// Default predictor betas: performance / team / environment / leadership.
// Empirically tuned priors pending regression against outcome data, so they
// stay named and overridable rather than inlined.
const (
	defaultPerformanceBeta = 0.25
	defaultTeamBeta        = 0.35
	defaultEnvironmentBeta = 0.20
	defaultLeadershipBeta  = 0.20
)

// Sigmoid transform constants. The transform is centered on the scale
// midpoint and amplifies extremes: a linear score above the center maps to a
// strictly greater sigmoid score, and vice versa below it.
const (
	sigmoidCenter       = 50.0
	DefaultSigmoidScale = 0.1
)

// Betas weights the four contextual sub-scores in the master equation.
type Betas struct {
	Performance float64 `koanf:"performance" yaml:"performance"`
	Team        float64 `koanf:"team" yaml:"team"`
	Environment float64 `koanf:"environment" yaml:"environment"`
	Leadership  float64 `koanf:"leadership" yaml:"leadership"`
}

// DefaultBetas returns the compiled-in predictor betas.
func DefaultBetas() Betas {
	return Betas{
		Performance: defaultPerformanceBeta,
		Team:        defaultTeamBeta,
		Environment: defaultEnvironmentBeta,
		Leadership:  defaultLeadershipBeta,
	}
}

// sum returns the total beta mass.
func (b Betas) sum() float64 {
	return b.Performance + b.Team + b.Environment + b.Leadership
}

// Prediction is the Stage-2 outcome. Linear is the pre-transform weighted
// sum, kept for auditability; Score is the sigmoid-amplified decision output.
type Prediction struct {
	Linear  float64            `json:"linear" yaml:"linear"`
	Score   float64            `json:"score" yaml:"score"`
	Quality float64            `json:"quality" yaml:"quality"`
	Factors map[string]float64 `json:"factors" yaml:"factors"`
	Flags   []string           `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Sigmoid maps a linear [0,100] score onto the amplified outcome scale.
// The logistic is range-normalized so the scale endpoints map to themselves;
// a raw logistic flattens near 100 and would de-amplify near-perfect scores.
// The transform is strictly monotonic, symmetric around the center, fixes
// Sigmoid(center) == center exactly, and stays above the identity line on
// the whole upper half of the scale (below it on the lower half).
func Sigmoid(linear, scale float64) float64 {
	if scale <= 0 {
		scale = DefaultSigmoidScale
	}
	raw := 100.0 / (1.0 + math.Exp(-scale*(linear-sigmoidCenter)))
	span := 100.0/(1.0+math.Exp(-scale*(100.0-sigmoidCenter))) - sigmoidCenter
	return sigmoidCenter + sigmoidCenter*(raw-sigmoidCenter)/span
}

// Predict combines the four contextual sub-scores into the integration
// outcome. Overall data quality is the beta-proportional average of the
// sub-score qualities: gaps in a more influential sub-score matter more.
func Predict(performance, team, environment, leadership types.Detail, betas *Betas, scale float64) Prediction {
	b := DefaultBetas()
	if betas != nil && betas.sum() > 0 {
		b = *betas
	}
	total := b.sum()

	linear := (b.Performance*performance.Score +
		b.Team*team.Score +
		b.Environment*environment.Score +
		b.Leadership*leadership.Score) / total
	linear = types.ClampScore(linear)

	quality := (b.Performance*performance.Quality +
		b.Team*team.Quality +
		b.Environment*environment.Quality +
		b.Leadership*leadership.Quality) / total

	p := Prediction{
		Linear:  linear,
		Score:   Sigmoid(linear, scale),
		Quality: quality,
		Factors: map[string]float64{
			"performance": performance.Score,
			"team":        team.Score,
			"environment": environment.Score,
			"leadership":  leadership.Score,
		},
	}
	for _, d := range []types.Detail{performance, team, environment, leadership} {
		p.Flags = append(p.Flags, d.Flags...)
	}
	return p
}
