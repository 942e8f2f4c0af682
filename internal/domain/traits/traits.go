// Package traits defines the normalized psychometric profile consumed by the
// scoring pipeline. Snapshots are built by an external trait-snapshot service;
// this package only represents them as immutable value objects.
package traits

import "sort"

// Canonical trait names. External snapshot builders normalize their raw
// scale output onto these keys before handing profiles to the pipeline.
const (
	CognitiveAbility   = "cognitive_ability"
	Conscientiousness  = "conscientiousness"
	Agreeableness      = "agreeableness"
	Neuroticism        = "neuroticism"
	EmotionalStability = "emotional_stability"
	Extraversion       = "extraversion"
	Openness           = "openness"
	Integrity          = "integrity"
	Resilience         = "resilience"
)

// Trait value range and fallback constants.
const (
	MinValue = 0.0
	MaxValue = 100.0

	// FallbackValue is the scale midpoint substituted for any trait that is
	// absent from a snapshot. Missing traits are never treated as zero.
	FallbackValue = 50.0
)

// Option applies a configuration option to a Snapshot under construction.
type Option func(*Snapshot)

// WithCompleteness records the self-reported completeness ratio of the
// psychometric test session the snapshot was derived from.
func WithCompleteness(ratio float64) Option {
	return func(s *Snapshot) {
		if ratio >= 0 && ratio <= 1 {
			s.completeness = ratio
		}
	}
}

// Snapshot is one person's normalized psychometric profile. Values are
// clamped to [MinValue, MaxValue] at construction and never mutated.
type Snapshot struct {
	values       map[string]float64
	completeness float64
}

// NewSnapshot builds a snapshot from a trait-value map. The input map is
// copied, values are clamped to the valid range, and emotional stability is
// derived from neuroticism (100 - neuroticism) when not measured directly.
func NewSnapshot(values map[string]float64, opts ...Option) Snapshot {
	s := Snapshot{
		values:       make(map[string]float64, len(values)),
		completeness: 1.0,
	}
	for name, v := range values {
		if v < MinValue {
			v = MinValue
		}
		if v > MaxValue {
			v = MaxValue
		}
		s.values[name] = v
	}
	if _, ok := s.values[EmotionalStability]; !ok {
		if n, ok := s.values[Neuroticism]; ok {
			s.values[EmotionalStability] = MaxValue - n
		}
	}

	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Lookup returns the measured value for name and whether it is present.
func (s Snapshot) Lookup(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value resolves a trait to its measured value, or to FallbackValue when the
// trait is unmeasured. The second return reports whether the fallback was
// used, so callers can flag the gap and reduce data quality.
func (s Snapshot) Value(name string) (float64, bool) {
	if v, ok := s.values[name]; ok {
		return v, false
	}
	return FallbackValue, true
}

// Has reports whether the trait was actually measured.
func (s Snapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Completeness returns the self-reported completeness ratio in [0,1].
func (s Snapshot) Completeness() float64 {
	return s.completeness
}

// Names returns the measured trait names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of measured traits.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Map returns a copy of the measured trait values.
func (s Snapshot) Map() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for name, v := range s.values {
		out[name] = v
	}
	return out
}
