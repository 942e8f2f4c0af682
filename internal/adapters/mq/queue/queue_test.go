package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/halyard/crewfit/internal/adapters/mq/queue"
	"github.com/halyard/crewfit/internal/domain/model"
)

func job(batchID, candidateID string) queue.Job {
	return queue.Job{
		BatchID:   batchID,
		Candidate: model.Candidate{ID: candidateID},
	}
}

func TestInMemoryQueue(t *testing.T) {
	convey.Convey("Given an in-memory job queue", t, func() {
		ctx := context.Background()

		convey.Convey("When jobs are enqueued and dequeued", func() {
			q := queue.NewInMemoryQueue()
			defer func() { _ = q.Close() }()

			ok := q.Enqueue(ctx, job("b1", "c1"))

			convey.Convey("Then the job round-trips intact", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(q.Len(ctx), convey.ShouldEqual, 1)

				select {
				case got := <-q.Dequeue(ctx):
					convey.So(got.BatchID, convey.ShouldEqual, "b1")
					convey.So(got.Candidate.ID, convey.ShouldEqual, "c1")
				case <-time.After(time.Second):
					convey.So("timed out waiting for job", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			defer func() { _ = q.Close() }()

			convey.So(q.Enqueue(ctx, job("b1", "c1")), convey.ShouldBeTrue)

			convey.Convey("Then a further enqueue is rejected instead of blocking", func() {
				convey.So(q.Enqueue(ctx, job("b1", "c2")), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			_ = q.Close()

			convey.Convey("Then enqueues are rejected", func() {
				convey.So(q.Enqueue(ctx, job("b1", "c1")), convey.ShouldBeFalse)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})

			convey.Convey("Then closing again is a no-op", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})

			convey.Convey("Then the dequeue channel drains and closes", func() {
				select {
				case _, open := <-q.Dequeue(ctx):
					convey.So(open, convey.ShouldBeFalse)
				case <-time.After(time.Second):
					convey.So("timed out waiting for close", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When queued jobs remain at close time", func() {
			q := queue.NewInMemoryQueue()
			convey.So(q.Enqueue(ctx, job("b1", "c1")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, job("b1", "c2")), convey.ShouldBeTrue)
			_ = q.Close()

			convey.Convey("Then they are still delivered before the channel closes", func() {
				var got []string
				for j := range q.Dequeue(ctx) {
					got = append(got, j.Candidate.ID)
				}
				convey.So(got, convey.ShouldResemble, []string{"c1", "c2"})
			})
		})
	})
}
