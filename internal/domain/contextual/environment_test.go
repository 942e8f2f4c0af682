package contextual_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/domain/contextual"
	"github.com/halyard/crewfit/internal/domain/traits"
)

func TestEnvironmentFit(t *testing.T) {
	convey.Convey("Given the environment fit model", t, func() {
		resources := map[string]float64{
			contextual.ResourceCompensation: 0.8,
			contextual.ResourceRest:         0.6,
			contextual.ResourcePrivateSpace: 0.5,
		}
		demands := map[string]float64{
			contextual.DemandWorkload:    0.7,
			contextual.DemandSupervision: 0.5,
		}

		convey.Convey("When every field and the resilience trait are present", func() {
			snap := traits.NewSnapshot(map[string]float64{traits.Resilience: 50})

			d := contextual.EnvironmentFit(resources, demands, snap)

			convey.Convey("Then the score follows the capped ratio at unit modulation", func() {
				// R = 0.4*0.8 + 0.35*0.6 + 0.25*0.5 = 0.655
				// D = 0.6*0.7 + 0.4*0.5 = 0.62
				// ratio = 1.0564...; score = ratio/2*100*1.0
				convey.So(d.Factors["resources"], convey.ShouldAlmostEqual, 0.655, 1e-9)
				convey.So(d.Factors["demands"], convey.ShouldAlmostEqual, 0.62, 1e-9)
				convey.So(d.Score, convey.ShouldAlmostEqual, 0.655/0.62/2*100, 1e-9)
				convey.So(d.Quality, convey.ShouldEqual, 1.0)
			})
		})

		convey.Convey("When resources vastly exceed demands", func() {
			rich := map[string]float64{
				contextual.ResourceCompensation: 1.0,
				contextual.ResourceRest:         1.0,
				contextual.ResourcePrivateSpace: 1.0,
			}
			light := map[string]float64{
				contextual.DemandWorkload:    0.1,
				contextual.DemandSupervision: 0.1,
			}
			snap := traits.NewSnapshot(map[string]float64{traits.Resilience: 50})

			d := contextual.EnvironmentFit(rich, light, snap)

			convey.Convey("Then the ratio is capped so the score cannot run away", func() {
				convey.So(d.Factors["ratio"], convey.ShouldEqual, 2.0)
				convey.So(d.Score, convey.ShouldAlmostEqual, 100)
			})
		})

		convey.Convey("When demands are reported as zero", func() {
			snap := traits.NewSnapshot(map[string]float64{traits.Resilience: 50})
			zero := map[string]float64{
				contextual.DemandWorkload:    0,
				contextual.DemandSupervision: 0,
			}

			d := contextual.EnvironmentFit(resources, zero, snap)

			convey.Convey("Then the demand floor keeps the ratio finite", func() {
				convey.So(d.Factors["demands"], convey.ShouldAlmostEqual, 0.05)
				convey.So(d.Factors["ratio"], convey.ShouldEqual, 2.0)
			})
		})

		convey.Convey("When resilience varies", func() {
			fragile := traits.NewSnapshot(map[string]float64{traits.Resilience: 10})
			tough := traits.NewSnapshot(map[string]float64{traits.Resilience: 90})

			convey.Convey("Then the same context scores higher for the resilient candidate", func() {
				convey.So(
					contextual.EnvironmentFit(resources, demands, tough).Score,
					convey.ShouldBeGreaterThan,
					contextual.EnvironmentFit(resources, demands, fragile).Score,
				)
			})

			convey.Convey("Then midpoint resilience leaves the ratio score untouched", func() {
				neutral := traits.NewSnapshot(map[string]float64{traits.Resilience: 50})
				d := contextual.EnvironmentFit(resources, demands, neutral)
				convey.So(d.Score, convey.ShouldAlmostEqual, d.Factors["ratio"]/2*100, 1e-9)
			})
		})

		convey.Convey("When context fields are missing", func() {
			snap := traits.NewSnapshot(nil)

			d := contextual.EnvironmentFit(nil, nil, snap)

			convey.Convey("Then every gap is flagged and quality hits zero", func() {
				convey.So(d.Quality, convey.ShouldEqual, 0)
				convey.So(d.Flags, convey.ShouldContain, "fallback:"+contextual.ResourceCompensation)
				convey.So(d.Flags, convey.ShouldContain, "fallback:"+contextual.DemandWorkload)
				convey.So(d.Flags, convey.ShouldContain, "fallback:"+traits.Resilience)
			})

			convey.Convey("Then the all-neutral context scores the scale midpoint", func() {
				// R = D = 0.5, ratio = 1, modulation = 1
				convey.So(d.Score, convey.ShouldAlmostEqual, 50)
			})
		})

		convey.Convey("When a context value is out of range", func() {
			over := map[string]float64{
				contextual.ResourceCompensation: 1.8,
				contextual.ResourceRest:         0.5,
				contextual.ResourcePrivateSpace: 0.5,
			}
			snap := traits.NewSnapshot(map[string]float64{traits.Resilience: 50})

			d := contextual.EnvironmentFit(over, demands, snap)

			convey.Convey("Then it is clamped into [0,1] before weighting", func() {
				// 0.4*1.0 + 0.35*0.5 + 0.25*0.5 = 0.7
				convey.So(d.Factors["resources"], convey.ShouldAlmostEqual, 0.7, 1e-9)
			})
		})
	})
}
