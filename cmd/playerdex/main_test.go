package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/playerdex/internal/adapters/http/api"
	"github.com/okian/playerdex/internal/config"
	"github.com/okian/playerdex/internal/domain/types"
	"github.com/okian/playerdex/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const (
	tagsCSV = `user_id,sofifa_id,tag
1,158023,Dribbler
2,20801,Dribbler
`
	playersCSV = `sofifa_id,short_name,long_name,player_positions,nationality,club_name,league_name
158023,L. Messi,Lionel Andrés Messi Cuccittini,"RW, ST, CF",Argentina,Paris Saint-Germain,French Ligue 1
20801,Cristiano Ronaldo,Cristiano Ronaldo dos Santos Aveiro,"ST, LW",Portugal,Manchester United,English Premier League
`
	ratingsCSV = `user_id,sofifa_id,rating
u1,158023,5.0
u2,158023,4.0
u1,20801,3.0
`
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// writeFixtures writes the three CSV files and returns a config pointing at them.
func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.New()
	c.TagsPath = filepath.Join(dir, "tags.csv")
	c.PlayersPath = filepath.Join(dir, "players.csv")
	c.RatingsPath = filepath.Join(dir, "rating.csv")
	for path, body := range map[string]string{c.TagsPath: tagsCSV, c.PlayersPath: playersCSV, c.RatingsPath: ratingsCSV} {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(c *config.Config, args ...string) (string, string, error) {
	configPath, jsonOut = "", false
	playersPath, tagsPath, ratingsPath = "", "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args,
		"--players", c.PlayersPath, "--tags", c.TagsPath, "--ratings", c.RatingsPath))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("PLAYERDEX_ADDR", ":8080")
			t.Setenv("PLAYERDEX_INGEST_QUEUE_SIZE", "1000")
			t.Setenv("PLAYERDEX_HISTORY_LIMIT", "5")

			convey.Convey("Then configuration should be loadable", func() {
				c, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Addr, convey.ShouldEqual, ":8080")
				convey.So(c.IngestQueueSize, convey.ShouldEqual, 1000)
				convey.So(c.HistoryLimit, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the dangling-id log bound is configured", func() {
			t.Setenv("PLAYERDEX_DEDUPE_SIZE", "7")
			c, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			svc := newService(c)

			convey.Convey("Then it should reach the service", func() {
				convey.So(svc.GetStats()["dedupeSize"], convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When path flags are set", func() {
			c := config.New()
			playersPath, tagsPath, ratingsPath = "p.csv", "", "r.csv"
			defer func() { playersPath, ratingsPath = "", "" }()
			applyFlags(c)

			convey.Convey("Then only the given paths should be overridden", func() {
				convey.So(c.PlayersPath, convey.ShouldEqual, "p.csv")
				convey.So(c.TagsPath, convey.ShouldEqual, "tags.csv")
				convey.So(c.RatingsPath, convey.ShouldEqual, "r.csv")
			})
		})
	})
}

func TestOneShotCommands(t *testing.T) {
	convey.Convey("Given CSV fixtures on disk", t, func() {
		c := writeFixtures(t)

		convey.Convey("When running top with JSON output", func() {
			out, _, err := runCLI(c, "top", "1", "ST", "--json")

			convey.Convey("Then the best striker should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var ps []types.PlayerView
				convey.So(json.Unmarshal([]byte(out), &ps), convey.ShouldBeNil)
				convey.So(ps, convey.ShouldHaveLength, 1)
				convey.So(ps[0].ID, convey.ShouldEqual, "158023")
				convey.So(ps[0].Rating, convey.ShouldEqual, 4.5)
			})
		})

		convey.Convey("When running player as a table", func() {
			out, _, err := runCLI(c, "player", "cristiano")

			convey.Convey("Then the table should hold the player", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Cristiano Ronaldo")
				convey.So(out, convey.ShouldContainSubstring, "3.000000")
			})
		})

		convey.Convey("When the user is unknown", func() {
			out, errOut, err := runCLI(c, "user", "ghost", "--json")

			convey.Convey("Then the notice should go to stderr and stdout stay valid JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(errOut, convey.ShouldContainSubstring, "User with ID 'ghost' not found.")
				convey.So(out, convey.ShouldEqual, "[]\n")
			})
		})

		convey.Convey("When N is not a number", func() {
			_, _, err := runCLI(c, "top", "many", "ST")

			convey.Convey("Then the command should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the files are missing", func() {
			c.PlayersPath = filepath.Join(t.TempDir(), "missing.csv")
			_, _, err := runCLI(c, "tags", "Dribbler")

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServeHandler(t *testing.T) {
	convey.Convey("Given a loaded service behind the HTTP handler", t, func() {
		c := writeFixtures(t)
		svc := newService(c)
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(context.Background(), svc, c)

		convey.Convey("When querying a player", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/players/20801", http.NoBody))

			convey.Convey("Then the player should be returned with a request id", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When fetching the OpenAPI document", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", http.NoBody))

			convey.Convey("Then it should be served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When exceeding the top limit", func() {
			c.MaxTopLimit = 1
			h := newHandler(context.Background(), svc, c)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/top?k=2&position=ST", http.NoBody))

			convey.Convey("Then it should be rejected", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := newService(config.New())
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
