package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/playerdex/internal/adapters/loader"
	"github.com/okian/playerdex/internal/adapters/repository"
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	tagsCSV = `user_id,sofifa_id,tag
7,158023,#Dribbler
12,158023,#Playmaker
7,20801,#Distance Shooter
9,999999,#Ghost
`
	playersCSV = `sofifa_id,short_name,long_name,player_positions,nationality,club_name,league_name
158023,L. Messi,Lionel Andrés Messi Cuccittini,"RW, ST, CF",Argentina,Paris Saint-Germain,French Ligue 1
20801,Cristiano Ronaldo,Cristiano Ronaldo dos Santos Aveiro,"ST, LW",Portugal,Manchester United,English Premier League
190871,Neymar Jr,Neymar da Silva Santos Júnior,"LW, CAM",Brazil,Paris Saint-Germain,French Ligue 1
`
	ratingsCSV = `user_id,sofifa_id,rating
u1,158023,9.0
u2,158023,8.0
u1,20801,4.5
u3,424242,3.0
u3,424242,2.0
`
)

func sources(tags, players, ratings string) loader.Sources {
	return loader.Sources{
		Tags:    strings.NewReader(tags),
		Players: strings.NewReader(players),
		Ratings: strings.NewReader(ratings),
	}
}

func TestLoader(t *testing.T) {
	_ = logger.Init()

	Convey("Given well formed record streams", t, func() {
		ctx := context.Background()
		c := repository.NewCatalog()
		l := loader.New(c, loader.WithQueueSize(2))

		Convey("When loading them", func() {
			rep, err := l.Load(ctx, sources(tagsCSV, playersCSV, ratingsCSV))

			Convey("Then every stream should be indexed and the catalog sealed", func() {
				So(err, ShouldBeNil)
				So(rep.Tags, ShouldEqual, 4)
				So(rep.Players, ShouldEqual, 3)
				So(rep.Ratings, ShouldEqual, 5)
				So(rep.AppliedRatings, ShouldEqual, 3)
				So(rep.DanglingRatings, ShouldEqual, 2)
				So(rep.DanglingPlayers, ShouldEqual, 1)
				So(rep.Catalog.Players, ShouldEqual, 3)
				So(rep.Catalog.Users, ShouldEqual, 2)
				So(c.Sealed(), ShouldBeTrue)
				So(rep.UndersizedTables, ShouldBeEmpty)
			})

			Convey("Then quoted fields and aggregates should be intact", func() {
				p, err := c.Player(ctx, "158023")
				So(err, ShouldBeNil)
				So(p.Positions, ShouldEqual, "RW, ST, CF")
				So(p.LongName, ShouldEqual, "Lionel Andrés Messi Cuccittini")
				So(p.Average, ShouldEqual, 8.5)
				So(p.Count, ShouldEqual, 2)
				So(c.TagIDs(ctx, "#Dribbler"), ShouldResemble, []string{"158023"})
			})
		})
	})

	Convey("Given malformed streams", t, func() {
		ctx := context.Background()
		cases := []struct {
			name                   string
			tags, players, ratings string
			stream                 string
		}{
			{"a short player row", tagsCSV, playersCSV + "1,Only,Three\n", ratingsCSV, "players"},
			{"a non-numeric rating", tagsCSV, playersCSV, ratingsCSV + "u9,158023,great\n", "ratings"},
			{"a tag row with extra fields", tagsCSV + "1,2,3,4\n", playersCSV, ratingsCSV, "tags"},
			{"a broken quote", tagsCSV, playersCSV, "user_id,sofifa_id,rating\nu1,\"158023,1\n", "ratings"},
		}
		for _, tc := range cases {
			Convey("When a stream has "+tc.name, func() {
				c := repository.NewCatalog()
				_, err := loader.New(c).Load(ctx, sources(tc.tags, tc.players, tc.ratings))

				Convey("Then the load should fail with ErrMalformedRecord", func() {
					So(errors.Is(err, loader.ErrMalformedRecord), ShouldBeTrue)
					So(err.Error(), ShouldContainSubstring, tc.stream)
					So(c.Sealed(), ShouldBeFalse)
				})
			})
		}
	})

	Convey("Given streams holding only headers", t, func() {
		ctx := context.Background()
		c := repository.NewCatalog()
		rep, err := loader.New(c).Load(ctx, sources("user_id,sofifa_id,tag\n", "a,b,c,d,e,f,g\n", ""))

		Convey("Then the load should succeed with an empty catalog", func() {
			So(err, ShouldBeNil)
			So(rep.Players, ShouldEqual, 0)
			So(rep.Catalog.Players, ShouldEqual, 0)
		})
	})

	Convey("Given a catalog with too few buckets", t, func() {
		ctx := context.Background()
		c := repository.NewCatalog(repository.WithPlayerBuckets(1))
		rep, err := loader.New(c, loader.WithMaxLoadFactor(1.0)).Load(ctx, sources(tagsCSV, playersCSV, ratingsCSV))

		Convey("Then the players table should be reported undersized", func() {
			So(err, ShouldBeNil)
			So(rep.UndersizedTables, ShouldResemble, []string{"players"})
		})
	})

	Convey("Given more unknown players than the dangling-id log remembers", t, func() {
		ctx := context.Background()
		ratings := "user_id,sofifa_id,rating\n" +
			"u1,501,1\nu1,502,1\nu1,503,1\nu2,501,1\nu2,502,1\nu2,158023,5\n"
		l := loader.New(repository.NewCatalog(), loader.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))))
		rep, err := l.Load(ctx, sources(tagsCSV, playersCSV, ratings))

		Convey("Then each unknown player should be reported once", func() {
			So(err, ShouldBeNil)
			So(rep.DanglingRatings, ShouldEqual, 5)
			So(rep.DanglingPlayers, ShouldEqual, 3)
			So(rep.AppliedRatings, ShouldEqual, 1)
		})
	})

	Convey("Given a catalog that is already sealed", t, func() {
		ctx := context.Background()
		c := repository.NewCatalog()
		_, err := loader.New(c).Load(ctx, sources(tagsCSV, playersCSV, ratingsCSV))
		So(err, ShouldBeNil)

		Convey("When loading into it again", func() {
			_, err := loader.New(c).Load(ctx, sources(tagsCSV, playersCSV, ratingsCSV))

			Convey("Then the load should be refused", func() {
				So(errors.Is(err, repository.ErrSealed), ShouldBeTrue)
			})
		})
	})

	Convey("Given a ratings stream that breaks after many rows", t, func() {
		ctx := context.Background()
		var b strings.Builder
		b.WriteString("user_id,sofifa_id,rating\n")
		for range 200 {
			b.WriteString("u1,158023,5\n")
		}
		b.WriteString("u1,158023,oops\n")
		c := repository.NewCatalog()
		_, err := loader.New(c, loader.WithQueueSize(4)).Load(ctx, sources(tagsCSV, playersCSV, b.String()))

		Convey("Then the worker should be stopped and the load should fail unsealed", func() {
			So(errors.Is(err, loader.ErrMalformedRecord), ShouldBeTrue)
			So(c.Sealed(), ShouldBeFalse)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.New(repository.NewCatalog()).Load(ctx, sources(tagsCSV, playersCSV, ratingsCSV))

		Convey("Then the load should stop with the context error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestLoadFiles(t *testing.T) {
	_ = logger.Init()

	Convey("Given record files on disk", t, func() {
		dir := t.TempDir()
		files := loader.Files{
			Tags:    filepath.Join(dir, "tags.csv"),
			Players: filepath.Join(dir, "players.csv"),
			Ratings: filepath.Join(dir, "rating.csv"),
		}
		So(os.WriteFile(files.Tags, []byte(tagsCSV), 0o600), ShouldBeNil)
		So(os.WriteFile(files.Players, []byte(playersCSV), 0o600), ShouldBeNil)
		So(os.WriteFile(files.Ratings, []byte(ratingsCSV), 0o600), ShouldBeNil)

		Convey("When loading them", func() {
			rep, err := loader.New(repository.NewCatalog()).LoadFiles(context.Background(), files)

			Convey("Then the catalog should be populated", func() {
				So(err, ShouldBeNil)
				So(rep.Catalog.Players, ShouldEqual, 3)
			})
		})

		Convey("When a file is missing", func() {
			files.Ratings = filepath.Join(dir, "missing.csv")
			_, err := loader.New(repository.NewCatalog()).LoadFiles(context.Background(), files)

			Convey("Then it should report the path", func() {
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "missing.csv")
			})
		})
	})
}

func TestReadRatings(t *testing.T) {
	Convey("Given a ratings stream", t, func() {
		var got []model.RatingRecord
		n, err := loader.ReadRatings(context.Background(), strings.NewReader(ratingsCSV), func(r model.RatingRecord) error {
			got = append(got, r)
			return nil
		})

		Convey("Then rows should be parsed in order after the header", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)
			So(got[0], ShouldResemble, model.RatingRecord{UserID: "u1", PlayerID: "158023", Rating: 9.0})
			So(got[2].Rating, ShouldEqual, 4.5)
		})

		Convey("Then an emit error should stop reading", func() {
			stop := errors.New("stop")
			n, err := loader.ReadRatings(context.Background(), strings.NewReader(ratingsCSV), func(model.RatingRecord) error {
				return stop
			})
			So(errors.Is(err, stop), ShouldBeTrue)
			So(n, ShouldEqual, 0)
		})
	})
}
