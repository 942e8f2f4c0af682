package contextual

import (
	"math"

	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

// Leadership axes.
const (
	AxisAutonomy  = "autonomy"
	AxisFeedback  = "feedback"
	AxisStructure = "structure"
)

// Leadership fit constants.
const (
	// axisWeight is the uniform per-axis weight (thirds of the unit cube).
	axisWeight = 1.0 / 3.0

	// alignmentTolerance is the per-axis band inside which leader and
	// candidate count as aligned.
	alignmentTolerance = 0.15
)

// AxisDirection labels which side of a per-axis gap dominates.
type AxisDirection string

// Axis gap directions.
const (
	AxisAligned            AxisDirection = "aligned"
	AxisLeaderGivesMore    AxisDirection = "leader_gives_more"
	AxisCandidateWantsMore AxisDirection = "candidate_wants_more"
)

// Vector is a 3-dimensional behavioral vector in [0,1] per axis: autonomy
// granted (or wanted), feedback frequency, structure imposed (or wanted).
type Vector struct {
	Autonomy  float64 `koanf:"autonomy" yaml:"autonomy"`
	Feedback  float64 `koanf:"feedback" yaml:"feedback"`
	Structure float64 `koanf:"structure" yaml:"structure"`
}

// clamped returns the vector with every axis bounded to [0,1].
func (v Vector) clamped() Vector {
	return Vector{
		Autonomy:  types.Clamp(v.Autonomy, 0, 1),
		Feedback:  types.Clamp(v.Feedback, 0, 1),
		Structure: types.Clamp(v.Structure, 0, 1),
	}
}

// AxisGap reports one axis of the leader/candidate comparison.
type AxisGap struct {
	Axis      string        `json:"axis" yaml:"axis"`
	Leader    float64       `json:"leader" yaml:"leader"`
	Candidate float64       `json:"candidate" yaml:"candidate"`
	Gap       float64       `json:"gap" yaml:"gap"`
	Direction AxisDirection `json:"direction" yaml:"direction"`
}

// LeadershipResult is the aggregate fit plus the per-axis breakdown, so a
// consumer can see which dimension drives a low score.
type LeadershipResult struct {
	types.Detail `yaml:",inline"`
	Gaps         []AxisGap `json:"gaps" yaml:"gaps"`
}

// PreferencesFromTraits derives a candidate's leadership preferences from
// correlated personality traits when no stated preference vector exists:
// open, extraverted profiles want autonomy; anxious profiles want frequent
// feedback; conscientious profiles want structure. Any trait gap degrades the
// derived axis to the neutral midpoint.
func PreferencesFromTraits(snap traits.Snapshot) (Vector, float64, []string) {
	var flags []string
	var fallbacks int

	axis := func(names ...string) float64 {
		var sum float64
		for _, name := range names {
			v, missing := snap.Value(name)
			if missing {
				fallbacks++
				flags = append(flags, "fallback:"+name)
			}
			sum += v
		}
		return sum / (float64(len(names)) * traits.MaxValue)
	}

	v := Vector{
		Autonomy:  axis(traits.Openness, traits.Extraversion),
		Feedback:  axis(traits.Neuroticism),
		Structure: axis(traits.Conscientiousness),
	}
	quality := float64(4-fallbacks) / 4.0
	return v, quality, flags
}

// LeadershipFit scores the match between a leader's behavioral style and the
// candidate's preferences as the normalized Euclidean distance across the
// three axes, inverted onto [0,100]. When stated is nil the preference vector
// is derived from the candidate's traits.
func LeadershipFit(leader Vector, stated *Vector, snap traits.Snapshot) LeadershipResult {
	res := LeadershipResult{}
	res.Quality = 1.0

	candidate := Vector{}
	if stated != nil {
		candidate = stated.clamped()
	} else {
		derived, quality, flags := PreferencesFromTraits(snap)
		candidate = derived
		res.Quality = quality
		res.Flags = append(res.Flags, "preferences_derived")
		res.Flags = append(res.Flags, flags...)
	}
	leader = leader.clamped()

	axes := []struct {
		name             string
		leader, personal float64
	}{
		{AxisAutonomy, leader.Autonomy, candidate.Autonomy},
		{AxisFeedback, leader.Feedback, candidate.Feedback},
		{AxisStructure, leader.Structure, candidate.Structure},
	}

	// Weighted Euclidean distance; with uniform third weights the maximum
	// possible distance across the unit cube is exactly 1.
	var sqSum, dMaxSq float64
	res.Gaps = make([]AxisGap, 0, len(axes))
	for _, a := range axes {
		gap := a.leader - a.personal
		sqSum += axisWeight * gap * gap
		dMaxSq += axisWeight

		dir := AxisAligned
		switch {
		case gap > alignmentTolerance:
			dir = AxisLeaderGivesMore
		case gap < -alignmentTolerance:
			dir = AxisCandidateWantsMore
		}
		res.Gaps = append(res.Gaps, AxisGap{
			Axis:      a.name,
			Leader:    a.leader,
			Candidate: a.personal,
			Gap:       gap,
			Direction: dir,
		})
	}

	distance := math.Sqrt(sqSum) / math.Sqrt(dMaxSq)
	res.Score = types.ClampScore((1 - distance) * traits.MaxValue)
	res.Factors = map[string]float64{"distance": distance}
	return res
}
