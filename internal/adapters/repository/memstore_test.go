package repository_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/adapters/repository"
	"github.com/halyard/crewfit/internal/domain/model"
)

func results(ids ...string) []model.PipelineResult {
	out := make([]model.PipelineResult, len(ids))
	for i, id := range ids {
		out[i] = model.PipelineResult{CandidateID: id, Passed: true}
	}
	return out
}

func TestMemStore(t *testing.T) {
	convey.Convey("Given an in-memory result store", t, func() {
		ctx := context.Background()

		convey.Convey("When a batch is saved and read back", func() {
			s := repository.NewMemStore()
			convey.So(s.SaveBatch(ctx, "b1", results("c1", "c2")), convey.ShouldBeNil)

			got, err := s.Batch(ctx, "b1")

			convey.Convey("Then the results round-trip in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0].CandidateID, convey.ShouldEqual, "c1")
				convey.So(got[1].CandidateID, convey.ShouldEqual, "c2")
			})

			convey.Convey("Then mutating the returned slice does not affect the store", func() {
				got[0].CandidateID = "mutated"
				again, err := s.Batch(ctx, "b1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(again[0].CandidateID, convey.ShouldEqual, "c1")
			})
		})

		convey.Convey("When a single candidate is looked up", func() {
			s := repository.NewMemStore()
			convey.So(s.SaveBatch(ctx, "b1", results("c1", "c2")), convey.ShouldBeNil)

			convey.Convey("Then a present candidate is found", func() {
				r, err := s.Candidate(ctx, "b1", "c2")
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.CandidateID, convey.ShouldEqual, "c2")
			})

			convey.Convey("Then an absent candidate yields the sentinel error", func() {
				_, err := s.Candidate(ctx, "b1", "ghost")
				convey.So(errors.Is(err, repository.ErrCandidateNotFound), convey.ShouldBeTrue)
			})

			convey.Convey("Then an unknown batch yields the sentinel error", func() {
				_, err := s.Candidate(ctx, "ghost", "c1")
				convey.So(errors.Is(err, repository.ErrBatchNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an unknown batch is read", func() {
			s := repository.NewMemStore()

			_, err := s.Batch(ctx, "nope")

			convey.Convey("Then the sentinel error is returned", func() {
				convey.So(errors.Is(err, repository.ErrBatchNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a batch is saved twice", func() {
			s := repository.NewMemStore()
			convey.So(s.SaveBatch(ctx, "b1", results("c1")), convey.ShouldBeNil)
			convey.So(s.SaveBatch(ctx, "b1", results("c1", "c2")), convey.ShouldBeNil)

			convey.Convey("Then the later save replaces the earlier one", func() {
				got, err := s.Batch(ctx, "b1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(s.Count(ctx), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the retention bound is exceeded", func() {
			s := repository.NewMemStore(repository.WithMaxBatches(2))
			for i := 0; i < 3; i++ {
				id := "b" + strconv.Itoa(i)
				convey.So(s.SaveBatch(ctx, id, results("c1")), convey.ShouldBeNil)
			}

			convey.Convey("Then the oldest batch is evicted first", func() {
				convey.So(s.Count(ctx), convey.ShouldEqual, 2)

				_, err := s.Batch(ctx, "b0")
				convey.So(errors.Is(err, repository.ErrBatchNotFound), convey.ShouldBeTrue)

				_, err = s.Batch(ctx, "b2")
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}
