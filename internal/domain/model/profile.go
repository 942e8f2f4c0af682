package model

import (
	"github.com/halyard/crewfit/internal/domain/competency"
	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/safety"
)

// JobProfile is the versioned, externally supplied weight configuration for
// one job context. It is passed by value into every scoring call; a zero
// field means "use the compiled-in default" for that concern, so a profile
// can override any subset of the model without code changes.
type JobProfile struct {
	Version  string `koanf:"version" yaml:"version"`
	Position string `koanf:"position" yaml:"position"`

	// CompetencyWeights maps competency key -> {trait: weight}.
	CompetencyWeights map[string]map[string]float64 `koanf:"competency_weights" yaml:"competency_weights"`

	// GlobalFitWeights weights each competency in the Stage-1 aggregation
	// (uniform when empty).
	GlobalFitWeights map[string]float64 `koanf:"global_fit_weights" yaml:"global_fit_weights"`

	// VetoRules is the safety barrier rule set.
	VetoRules []safety.Rule `koanf:"veto_rules" yaml:"veto_rules"`

	// Betas weights the four Stage-2 sub-scores.
	Betas *contextual.Betas `koanf:"betas" yaml:"betas"`

	// PerformanceWeights configures the individual performance equation.
	PerformanceWeights *contextual.PerformanceWeights `koanf:"performance_weights" yaml:"performance_weights"`

	// TeamWeights configures the three team sub-scores.
	TeamWeights *contextual.TeamWeights `koanf:"team_weights" yaml:"team_weights"`

	// SigmoidScale overrides the predictor transform steepness when > 0.
	SigmoidScale float64 `koanf:"sigmoid_scale" yaml:"sigmoid_scale"`
}

// Competencies resolves the effective competency definitions: profile
// overrides merged over the compiled-in defaults.
func (p JobProfile) Competencies() competency.Definitions {
	defs := competency.DefaultDefinitions()
	for key, weights := range p.CompetencyWeights {
		defs[key] = weights
	}
	return defs
}

// Rules resolves the effective veto rule set.
func (p JobProfile) Rules() []safety.Rule {
	if len(p.VetoRules) == 0 {
		return safety.DefaultRules()
	}
	return p.VetoRules
}

// DefaultProfile returns a profile carrying only compiled-in defaults.
func DefaultProfile(position string) JobProfile {
	return JobProfile{
		Version:  "builtin",
		Position: position,
	}
}
