// Package types contains common types shared across the scoring pipeline.
package types

// Confidence qualifies how much a score can be trusted given its inputs.
type Confidence string

// Confidence levels.
const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// SafetyLevel is the classification produced by the safety barrier.
type SafetyLevel string

// Safety levels, ordered from benign to blocking.
const (
	SafetyClear        SafetyLevel = "CLEAR"
	SafetyAdvisory     SafetyLevel = "ADVISORY"
	SafetyHighRisk     SafetyLevel = "HIGH_RISK"
	SafetyDisqualified SafetyLevel = "DISQUALIFIED"
)

// FitLabel is the human-readable band for a global fit score.
type FitLabel string

// Fit labels.
const (
	FitExcellent    FitLabel = "EXCELLENT"
	FitStrong       FitLabel = "STRONG"
	FitModerate     FitLabel = "MODERATE"
	FitWeak         FitLabel = "WEAK"
	FitPoor         FitLabel = "POOR"
	FitDisqualified FitLabel = "DISQUALIFIED"
)

// SortMode selects the presentation order for a scored batch.
type SortMode string

// Sort modes. Disqualified candidates sort after all others in every mode.
const (
	SortByGlobalFit   SortMode = "global_fit"
	SortByPrediction  SortMode = "prediction"
	SortByFitThenPred SortMode = "global_fit_then_prediction"
)

// Detail is a computed score together with its provenance: the contributing
// factors, a data-quality ratio in [0,1], and textual flags for every
// degraded input. Detail values are never mutated after construction.
type Detail struct {
	Score   float64            `json:"score" yaml:"score"`
	Factors map[string]float64 `json:"factors,omitempty" yaml:"factors,omitempty"`
	Quality float64            `json:"quality" yaml:"quality"`
	Flags   []string           `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScore bounds v to the canonical [0,100] score range.
func ClampScore(v float64) float64 {
	return Clamp(v, 0, 100)
}
