package globalfit_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/domain/globalfit"
	"github.com/halyard/crewfit/internal/domain/safety"
	"github.com/halyard/crewfit/internal/domain/types"
)

func clearBarrier() safety.Assessment {
	return safety.Assessment{Level: types.SafetyClear, Penalty: 1.0}
}

func TestAggregate(t *testing.T) {
	convey.Convey("Given global fit aggregation", t, func() {
		scores := map[string]types.Detail{
			"technical_aptitude": {Score: 80, Quality: 1.0},
			"reliability":        {Score: 60, Quality: 0.5},
		}

		convey.Convey("When no weights are configured and the barrier is clear", func() {
			res := globalfit.Aggregate(scores, nil, clearBarrier())

			convey.Convey("Then the score is the uniform mean", func() {
				convey.So(res.Raw, convey.ShouldAlmostEqual, 70)
				convey.So(res.Score, convey.ShouldAlmostEqual, 70)
				convey.So(res.Suspended, convey.ShouldBeFalse)
			})

			convey.Convey("Then quality averages the same way", func() {
				convey.So(res.Quality, convey.ShouldAlmostEqual, 0.75)
			})

			convey.Convey("Then the label reflects the band", func() {
				convey.So(res.Label, convey.ShouldEqual, types.FitStrong)
			})
		})

		convey.Convey("When weights favor one competency", func() {
			weights := map[string]float64{
				"technical_aptitude": 3,
				"reliability":        1,
			}
			res := globalfit.Aggregate(scores, weights, clearBarrier())

			convey.Convey("Then the mean shifts toward the heavier score", func() {
				// (3*80 + 1*60) / 4 = 75
				convey.So(res.Raw, convey.ShouldAlmostEqual, 75)
			})
		})

		convey.Convey("When the configured weights exclude every competency", func() {
			weights := map[string]float64{"something_else": 1}
			res := globalfit.Aggregate(scores, weights, clearBarrier())

			convey.Convey("Then it degrades to the uniform mean with a flag", func() {
				convey.So(res.Raw, convey.ShouldAlmostEqual, 70)
				convey.So(res.Flags, convey.ShouldContain, "zero_weight_sum")
			})
		})

		convey.Convey("When a soft barrier penalty applies", func() {
			barrier := safety.Assessment{Level: types.SafetyHighRisk, Penalty: 0.4}
			res := globalfit.Aggregate(scores, nil, barrier)

			convey.Convey("Then the published score is the penalized raw", func() {
				convey.So(res.Raw, convey.ShouldAlmostEqual, 70)
				convey.So(res.Score, convey.ShouldAlmostEqual, 28)
				convey.So(res.Suspended, convey.ShouldBeFalse)
			})

			convey.Convey("Then the barrier arithmetic is exposed in factors", func() {
				convey.So(res.Factors["barrier_penalty"], convey.ShouldAlmostEqual, 0.4)
				convey.So(res.Factors["barrier_adjusted"], convey.ShouldAlmostEqual, 28)
			})
		})

		convey.Convey("When a hard veto triggered", func() {
			barrier := safety.Assessment{Level: types.SafetyDisqualified, Penalty: 0.07}
			res := globalfit.Aggregate(scores, nil, barrier)

			convey.Convey("Then the published score is exactly zero", func() {
				convey.So(res.Score, convey.ShouldEqual, 0)
				convey.So(res.Suspended, convey.ShouldBeTrue)
				convey.So(res.Flags, convey.ShouldContain, "suspended")
			})

			convey.Convey("Then the raw aggregation survives for auditing", func() {
				convey.So(res.Raw, convey.ShouldAlmostEqual, 70)
			})

			convey.Convey("Then the label is DISQUALIFIED", func() {
				convey.So(res.Label, convey.ShouldEqual, types.FitDisqualified)
			})
		})

		convey.Convey("When there are no competency scores", func() {
			res := globalfit.Aggregate(nil, nil, clearBarrier())

			convey.Convey("Then a zero score with zero quality is published", func() {
				convey.So(res.Score, convey.ShouldEqual, 0)
				convey.So(res.Quality, convey.ShouldEqual, 0)
				convey.So(res.Flags, convey.ShouldContain, "no_competencies")
			})
		})
	})
}

func TestLabelFor(t *testing.T) {
	convey.Convey("Given fit labeling", t, func() {
		convey.Convey("Then every band maps to its label", func() {
			convey.So(globalfit.LabelFor(92, false), convey.ShouldEqual, types.FitExcellent)
			convey.So(globalfit.LabelFor(85, false), convey.ShouldEqual, types.FitExcellent)
			convey.So(globalfit.LabelFor(70, false), convey.ShouldEqual, types.FitStrong)
			convey.So(globalfit.LabelFor(55, false), convey.ShouldEqual, types.FitModerate)
			convey.So(globalfit.LabelFor(40, false), convey.ShouldEqual, types.FitWeak)
			convey.So(globalfit.LabelFor(12, false), convey.ShouldEqual, types.FitPoor)
		})

		convey.Convey("Then suspension overrides any score", func() {
			convey.So(globalfit.LabelFor(95, true), convey.ShouldEqual, types.FitDisqualified)
		})
	})
}
