package rating_test

import (
	"testing"

	"github.com/okian/playerdex/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given an empty aggregate", t, func() {
		var agg rating.Aggregate

		Convey("Then every statistic should be zero", func() {
			So(agg.Count, ShouldEqual, 0)
			So(agg.Sum, ShouldEqual, 0.0)
			So(agg.Average, ShouldEqual, 0.0)
		})

		Convey("When two ratings are added", func() {
			agg.Add(9.0)
			agg.Add(8.0)

			Convey("Then average should be sum over count", func() {
				So(agg.Count, ShouldEqual, 2)
				So(agg.Sum, ShouldEqual, 17.0)
				So(agg.Average, ShouldEqual, 8.5)
			})
		})

		Convey("When many ratings are added", func() {
			values := []float64{0.5, 5.0, 3.5, 4.0, 1.0, 2.5}
			sum := 0.0
			for _, v := range values {
				agg.Add(v)
				sum += v
			}

			Convey("Then the invariant should hold after every add", func() {
				So(agg.Count, ShouldEqual, len(values))
				So(agg.Sum, ShouldAlmostEqual, sum, 1e-9)
				So(agg.Average, ShouldAlmostEqual, sum/float64(len(values)), 1e-9)
			})
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given a user history", t, func() {
		h := rating.NewHistory[string]("u1")

		Convey("When entries are appended", func() {
			h.Append("158023", 9.0)
			h.Append("20801", 4.5)
			h.Append("158023", 7.0)

			Convey("Then submission order should be kept", func() {
				So(h.UserID, ShouldEqual, "u1")
				So(h.Len(), ShouldEqual, 3)
				So(h.Entries[0], ShouldResemble, rating.Entry[string]{Subject: "158023", Rating: 9.0})
				So(h.Entries[1].Subject, ShouldEqual, "20801")
				So(h.Entries[2].Rating, ShouldEqual, 7.0)
			})
		})
	})
}
