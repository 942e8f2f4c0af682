package safety_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/internal/domain/traits"
	"github.com/halyard/crewfit/internal/domain/types"
)

func TestEvaluate(t *testing.T) {
	convey.Convey("Given the safety barrier", t, func() {
		convey.Convey("When no rule triggers", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.EmotionalStability: 60,
				traits.Integrity:          70,
				traits.Agreeableness:      55,
				traits.Conscientiousness:  65,
				traits.Openness:           50,
			})

			a := safety.Evaluate(snap, nil, "")

			convey.Convey("Then the assessment is clear with a unit penalty", func() {
				convey.So(a.Level, convey.ShouldEqual, types.SafetyClear)
				convey.So(a.Penalty, convey.ShouldEqual, 1.0)
				convey.So(a.Triggered, convey.ShouldBeEmpty)
				convey.So(a.HardTriggered(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a hard rule triggers", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.EmotionalStability: 10,
				traits.Integrity:          70,
			})

			a := safety.Evaluate(snap, nil, "")

			convey.Convey("Then the candidate is disqualified", func() {
				convey.So(a.Level, convey.ShouldEqual, types.SafetyDisqualified)
				convey.So(a.HardTriggered(), convey.ShouldBeTrue)
				convey.So(a.Flags, convey.ShouldContain, "veto:HARD:emotional_stability")
			})

			convey.Convey("Then the logistic penalty matches the hard steepness", func() {
				// 1 / (1 + e^(0.5*(15-10))) = 1 / (1 + e^2.5)
				convey.So(a.Penalty, convey.ShouldAlmostEqual, 0.07585818, 1e-6)
			})
		})

		convey.Convey("When only a soft rule triggers", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.EmotionalStability: 60,
				traits.Integrity:          70,
				traits.Agreeableness:      15,
			})

			a := safety.Evaluate(snap, nil, "")

			convey.Convey("Then the candidate is high risk, not disqualified", func() {
				convey.So(a.Level, convey.ShouldEqual, types.SafetyHighRisk)
				convey.So(a.HardTriggered(), convey.ShouldBeFalse)
			})

			convey.Convey("Then the penalty reduces but does not collapse the score", func() {
				convey.So(a.Penalty, convey.ShouldBeLessThan, 0.5)
				convey.So(a.Penalty, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When only an advisory rule triggers", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.EmotionalStability: 60,
				traits.Integrity:          70,
				traits.Agreeableness:      55,
				traits.Conscientiousness:  65,
				traits.Openness:           10,
			})

			a := safety.Evaluate(snap, nil, "")

			convey.Convey("Then the level is advisory and the penalty stays 1", func() {
				convey.So(a.Level, convey.ShouldEqual, types.SafetyAdvisory)
				convey.So(a.Penalty, convey.ShouldEqual, 1.0)
				convey.So(a.Flags, convey.ShouldContain, "veto:ADVISORY:openness")
			})
		})

		convey.Convey("When the violating trait is unmeasured", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.Integrity: 70,
			})
			rules := []safety.Rule{
				{Trait: traits.Agreeableness, Threshold: 20, Severity: safety.Soft},
			}

			a := safety.Evaluate(snap, rules, "")

			convey.Convey("Then the rule is skipped: a data gap is not a violation", func() {
				convey.So(a.Level, convey.ShouldEqual, types.SafetyClear)
				convey.So(a.Triggered, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a rule is scoped to other positions", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.Resilience: 10,
			})
			rules := []safety.Rule{
				{Trait: traits.Resilience, Threshold: 30, Severity: safety.Hard, Positions: []string{"engineer"}},
			}

			convey.Convey("Then it does not fire for an out-of-scope position", func() {
				a := safety.Evaluate(snap, rules, "deckhand")
				convey.So(a.Level, convey.ShouldEqual, types.SafetyClear)
			})

			convey.Convey("Then it fires for the scoped position", func() {
				a := safety.Evaluate(snap, rules, "engineer")
				convey.So(a.Level, convey.ShouldEqual, types.SafetyDisqualified)
			})
		})

		convey.Convey("When multiple non-advisory rules trigger", func() {
			snap := traits.NewSnapshot(map[string]float64{
				traits.EmotionalStability: 60,
				traits.Integrity:          70,
				traits.Agreeableness:      15,
				traits.Conscientiousness:  20,
			})

			a := safety.Evaluate(snap, nil, "")

			convey.Convey("Then penalties combine multiplicatively", func() {
				convey.So(a.Triggered, convey.ShouldHaveLength, 2)
				product := 1.0
				for _, tr := range a.Triggered {
					product *= tr.Penalty
				}
				convey.So(a.Penalty, convey.ShouldAlmostEqual, product, 1e-12)
			})
		})

		convey.Convey("When the violation deepens", func() {
			rules := []safety.Rule{
				{Trait: traits.Integrity, Threshold: 40, Severity: safety.Soft},
			}
			shallow := safety.Evaluate(traits.NewSnapshot(map[string]float64{traits.Integrity: 35}), rules, "")
			deep := safety.Evaluate(traits.NewSnapshot(map[string]float64{traits.Integrity: 10}), rules, "")

			convey.Convey("Then the penalty decays monotonically toward zero", func() {
				convey.So(deep.Penalty, convey.ShouldBeLessThan, shallow.Penalty)
				convey.So(deep.Penalty, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When a rule overrides the steepness", func() {
			rules := []safety.Rule{
				{Trait: traits.Integrity, Threshold: 40, Severity: safety.Soft, Steepness: 1.0},
			}
			def := safety.Evaluate(traits.NewSnapshot(map[string]float64{traits.Integrity: 30}), []safety.Rule{
				{Trait: traits.Integrity, Threshold: 40, Severity: safety.Soft},
			}, "")
			steep := safety.Evaluate(traits.NewSnapshot(map[string]float64{traits.Integrity: 30}), rules, "")

			convey.Convey("Then the steeper curve punishes the same gap harder", func() {
				convey.So(steep.Penalty, convey.ShouldBeLessThan, def.Penalty)
			})
		})
	})
}
