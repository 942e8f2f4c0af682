package contextual_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/traits"
)

func TestLeadershipFit(t *testing.T) {
	convey.Convey("Given the leadership fit model", t, func() {
		convey.Convey("When leader style and stated preferences match exactly", func() {
			v := contextual.Vector{Autonomy: 0.7, Feedback: 0.4, Structure: 0.6}

			res := contextual.LeadershipFit(v, &v, traits.NewSnapshot(nil))

			convey.Convey("Then the fit is perfect at full quality", func() {
				convey.So(res.Score, convey.ShouldAlmostEqual, 100)
				convey.So(res.Quality, convey.ShouldEqual, 1.0)
				convey.So(res.Factors["distance"], convey.ShouldAlmostEqual, 0)
			})

			convey.Convey("Then every axis reports aligned", func() {
				convey.So(res.Gaps, convey.ShouldHaveLength, 3)
				for _, g := range res.Gaps {
					convey.So(g.Direction, convey.ShouldEqual, contextual.AxisAligned)
				}
			})
		})

		convey.Convey("When leader and preferences sit at opposite corners", func() {
			leader := contextual.Vector{Autonomy: 1, Feedback: 1, Structure: 1}
			wants := contextual.Vector{}

			res := contextual.LeadershipFit(leader, &wants, traits.NewSnapshot(nil))

			convey.Convey("Then the normalized distance is maximal and the fit zero", func() {
				convey.So(res.Factors["distance"], convey.ShouldAlmostEqual, 1.0, 1e-9)
				convey.So(res.Score, convey.ShouldAlmostEqual, 0)
			})
		})

		convey.Convey("When gaps point in different directions", func() {
			leader := contextual.Vector{Autonomy: 0.9, Feedback: 0.2, Structure: 0.5}
			wants := contextual.Vector{Autonomy: 0.3, Feedback: 0.8, Structure: 0.55}

			res := contextual.LeadershipFit(leader, &wants, traits.NewSnapshot(nil))

			convey.Convey("Then each axis is labeled by who dominates", func() {
				byAxis := map[string]contextual.AxisGap{}
				for _, g := range res.Gaps {
					byAxis[g.Axis] = g
				}
				convey.So(byAxis[contextual.AxisAutonomy].Direction, convey.ShouldEqual, contextual.AxisLeaderGivesMore)
				convey.So(byAxis[contextual.AxisFeedback].Direction, convey.ShouldEqual, contextual.AxisCandidateWantsMore)
				convey.So(byAxis[contextual.AxisStructure].Direction, convey.ShouldEqual, contextual.AxisAligned)
			})
		})

		convey.Convey("When no preference vector is stated", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.Openness:          80,
				traits.Extraversion:      60,
				traits.Neuroticism:       40,
				traits.Conscientiousness: 70,
			})
			leader := contextual.Vector{Autonomy: 0.7, Feedback: 0.4, Structure: 0.7}

			res := contextual.LeadershipFit(leader, nil, snap)

			convey.Convey("Then preferences derive from correlated traits and are flagged", func() {
				convey.So(res.Flags, convey.ShouldContain, "preferences_derived")
				convey.So(res.Quality, convey.ShouldEqual, 1.0)
				// autonomy = (80+60)/200 = 0.7, matches the leader exactly
				byAxis := map[string]contextual.AxisGap{}
				for _, g := range res.Gaps {
					byAxis[g.Axis] = g
				}
				convey.So(byAxis[contextual.AxisAutonomy].Candidate, convey.ShouldAlmostEqual, 0.7)
				convey.So(byAxis[contextual.AxisFeedback].Candidate, convey.ShouldAlmostEqual, 0.4)
				convey.So(byAxis[contextual.AxisStructure].Candidate, convey.ShouldAlmostEqual, 0.7)
				convey.So(res.Score, convey.ShouldAlmostEqual, 100)
			})
		})

		convey.Convey("When preferences derive from an incomplete snapshot", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.Openness: 80,
			})

			res := contextual.LeadershipFit(contextual.Vector{}, nil, snap)

			convey.Convey("Then each trait gap degrades the derived quality", func() {
				// extraversion, neuroticism, conscientiousness missing: 1/4
				convey.So(res.Quality, convey.ShouldAlmostEqual, 0.25)
				convey.So(res.Flags, convey.ShouldContain, "fallback:"+traits.Extraversion)
			})
		})

		convey.Convey("When vectors arrive out of range", func() {
			leader := contextual.Vector{Autonomy: 1.8, Feedback: -0.5, Structure: 0.5}
			wants := contextual.Vector{Autonomy: 1.0, Feedback: 0.0, Structure: 0.5}

			res := contextual.LeadershipFit(leader, &wants, traits.NewSnapshot(nil))

			convey.Convey("Then axes are clamped before the distance is taken", func() {
				convey.So(res.Score, convey.ShouldAlmostEqual, 100)
			})
		})
	})
}
