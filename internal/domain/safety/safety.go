// Package safety implements the non-compensatory veto barrier. Rules degrade
// a candidate's fit continuously through a logistic penalty instead of a
// binary cutoff: a cutoff makes the decision boundary unstable for candidates
// sitting just either side of the threshold, while the logistic curve
// collapses the score smoothly as the violation deepens.
package safety

import (
	"fmt"
	"math"

	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Severity classifies how a triggered rule affects the candidate.
type Severity string

// Severity tiers.
const (
	// Hard rules disqualify: the global fit is suspended to zero.
	Hard Severity = "HARD"
	// Soft rules reduce the score without collapsing it.
	Soft Severity = "SOFT"
	// Advisory rules annotate only and never touch the score.
	Advisory Severity = "ADVISORY"
)

// Steepness constants per severity tier, resolved through a lookup table so
// rule evaluation stays uniform across call sites. Advisory steepness is zero,
// which makes the logistic penalty degenerate to exactly 1 (no score impact).
const (
	hardSteepness = 0.50
	softSteepness = 0.15
)

var steepnessBySeverity = map[Severity]float64{
	Hard:     hardSteepness,
	Soft:     softSteepness,
	Advisory: 0,
}

// Rule is a single safety constraint: a floor on one trait. Threshold and
// steepness are fixed per rule; Positions scopes the rule to specific job
// positions (empty means it applies everywhere).
type Rule struct {
	Trait     string   `koanf:"trait" yaml:"trait"`
	Threshold float64  `koanf:"threshold" yaml:"threshold"`
	Severity  Severity `koanf:"severity" yaml:"severity"`
	// Steepness overrides the severity-tier constant when > 0.
	Steepness float64  `koanf:"steepness" yaml:"steepness,omitempty"`
	Positions []string `koanf:"positions" yaml:"positions,omitempty"`
}

// steepness resolves the effective logistic steepness for the rule.
func (r Rule) steepness() float64 {
	if r.Severity == Advisory {
		return 0
	}
	if r.Steepness > 0 {
		return r.Steepness
	}
	return steepnessBySeverity[r.Severity]
}

// appliesTo reports whether the rule is in scope for the given position.
func (r Rule) appliesTo(position string) bool {
	if len(r.Positions) == 0 {
		return true
	}
	for _, p := range r.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// Triggered records one rule violation and its computed penalty.
type Triggered struct {
	Rule     Rule    `json:"rule" yaml:"rule"`
	Observed float64 `json:"observed" yaml:"observed"`
	Penalty  float64 `json:"penalty" yaml:"penalty"`
}

// Assessment is the outcome of evaluating all applicable rules against one
// snapshot. Penalty is the multiplicative combination of all non-advisory
// triggered penalties (1.0 when nothing triggered).
type Assessment struct {
	Level     types.SafetyLevel `json:"level" yaml:"level"`
	Penalty   float64           `json:"penalty" yaml:"penalty"`
	Triggered []Triggered       `json:"triggered,omitempty" yaml:"triggered,omitempty"`
	Flags     []string          `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// HardTriggered reports whether any hard rule fired.
func (a Assessment) HardTriggered() bool {
	return a.Level == types.SafetyDisqualified
}

// DefaultRules returns the compiled-in veto rule set, used when the job
// profile does not supply its own.
func DefaultRules() []Rule {
	return []Rule{
		{Trait: traits.EmotionalStability, Threshold: 15, Severity: Hard},
		{Trait: traits.Integrity, Threshold: 25, Severity: Hard},
		{Trait: traits.Agreeableness, Threshold: 20, Severity: Soft},
		{Trait: traits.Conscientiousness, Threshold: 25, Severity: Soft},
		{Trait: traits.Openness, Threshold: 20, Severity: Advisory},
	}
}

// penalty computes the logistic penalty for an observed value below the rule
// threshold: 1 / (1 + e^(-k*(observed - threshold))). At the threshold the
// penalty is 0.5 and it decays toward zero as the violation deepens.
func penalty(observed, threshold, k float64) float64 {
	return 1.0 / (1.0 + math.Exp(-k*(observed-threshold)))
}

// Evaluate runs every applicable rule against the snapshot. Rules whose trait
// is simply unmeasured are skipped: an unmeasured trait is a data gap, never
// a violation.
func Evaluate(snap traits.Snapshot, rules []Rule, position string) Assessment {
	if rules == nil {
		rules = DefaultRules()
	}

	a := Assessment{
		Level:   types.SafetyClear,
		Penalty: 1.0,
	}

	var hard, soft, advisory bool
	for _, rule := range rules {
		if !rule.appliesTo(position) {
			continue
		}
		observed, ok := snap.Lookup(rule.Trait)
		if !ok {
			continue
		}
		if observed >= rule.Threshold {
			continue
		}

		t := Triggered{
			Rule:     rule,
			Observed: observed,
			Penalty:  1.0,
		}
		switch rule.Severity {
		case Advisory:
			advisory = true
		case Soft:
			soft = true
			t.Penalty = penalty(observed, rule.Threshold, rule.steepness())
			a.Penalty *= t.Penalty
		case Hard:
			hard = true
			t.Penalty = penalty(observed, rule.Threshold, rule.steepness())
			a.Penalty *= t.Penalty
		default:
			// Unknown severities are treated as advisory annotations.
			advisory = true
		}
		a.Triggered = append(a.Triggered, t)
		a.Flags = append(a.Flags, fmt.Sprintf("veto:%s:%s", rule.Severity, rule.Trait))
	}

	switch {
	case hard:
		a.Level = types.SafetyDisqualified
	case soft:
		a.Level = types.SafetyHighRisk
	case advisory:
		a.Level = types.SafetyAdvisory
	}
	return a
}
