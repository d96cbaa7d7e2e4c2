package service

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/playerdex/internal/adapters/loader"
	"github.com/okian/playerdex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestServiceCreation(t *testing.T) {
	Convey("Given service creation", t, func() {
		Convey("When creating with default options", func() {
			svc := New()

			Convey("Then it should carry the default configuration", func() {
				So(svc, ShouldNotBeNil)
				So(svc.playerBuckets, ShouldEqual, 10_000)
				So(svc.userBuckets, ShouldEqual, 100_000)
				So(svc.historyLimit, ShouldEqual, 20)
				So(svc.files.Players, ShouldEqual, "players.csv")
				So(svc.files.Ratings, ShouldEqual, "rating.csv")
			})
		})

		Convey("When creating with custom options", func() {
			svc := New(
				WithPlayerBuckets(64),
				WithUserBuckets(128),
				WithQueueSize(16),
				WithHistoryLimit(5),
				WithMaxLoadFactor(0.75),
				WithNameOverwrite(true),
				WithDedupeSize(10),
				WithFiles(loader.Files{Players: "p.csv"}),
				WithLogger(logger.Get()),
			)

			Convey("Then the options should be applied", func() {
				So(svc.playerBuckets, ShouldEqual, 64)
				So(svc.userBuckets, ShouldEqual, 128)
				So(svc.queueSize, ShouldEqual, 16)
				So(svc.historyLimit, ShouldEqual, 5)
				So(svc.maxLoadFactor, ShouldEqual, 0.75)
				So(svc.nameOverwrite, ShouldBeTrue)
				So(svc.dedupeSize, ShouldEqual, 10)
				So(svc.files.Players, ShouldEqual, "p.csv")
				So(svc.files.Tags, ShouldEqual, "tags.csv")
				So(svc.logger, ShouldNotBeNil)
			})
		})

		Convey("When non-positive sizes are given", func() {
			svc := New(WithPlayerBuckets(0), WithUserBuckets(-1), WithQueueSize(0), WithHistoryLimit(-3))

			Convey("Then the defaults should be kept", func() {
				So(svc.playerBuckets, ShouldEqual, 10_000)
				So(svc.userBuckets, ShouldEqual, 100_000)
				So(svc.queueSize, ShouldEqual, 10_000)
				So(svc.historyLimit, ShouldEqual, 20)
			})
		})
	})
}

func TestServiceBeforeLoad(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := New()
		ctx := context.Background()

		Convey("Then every query should report the catalog as not loaded", func() {
			_, err := svc.Player(ctx, "1")
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
			_, err = svc.SearchPrefix(ctx, "a")
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
			_, err = svc.SearchTags(ctx, []string{"x"})
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
			_, err = svc.Top(ctx, 3, "ST")
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
			_, err = svc.UserRatings(ctx, "u1")
			So(errors.Is(err, ErrNotLoaded), ShouldBeTrue)
		})

		Convey("Then stats should show it as not started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats, ShouldNotContainKey, "catalog")
		})

		Convey("Then stopping should be safe", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})

	Convey("Given a service pointed at missing files", t, func() {
		svc := New(WithFiles(loader.Files{
			Players: "/nonexistent/players.csv",
			Tags:    "/nonexistent/tags.csv",
			Ratings: "/nonexistent/rating.csv",
		}))

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then the load error should be returned and the service stays unloaded", func() {
				So(err, ShouldNotBeNil)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}
