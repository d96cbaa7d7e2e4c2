package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/playerdex/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PlayerBuckets, convey.ShouldEqual, 10_000)
				convey.So(cfg.UserBuckets, convey.ShouldEqual, 100_000)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 20)
				convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PLAYERDEX_ADDR", ":8080")
			_ = os.Setenv("PLAYERDEX_PLAYERS_PATH", "/data/players_22.csv")
			_ = os.Setenv("PLAYERDEX_PLAYER_BUCKETS", "20000")
			_ = os.Setenv("PLAYERDEX_HISTORY_LIMIT", "5")
			_ = os.Setenv("PLAYERDEX_NAME_INDEX_OVERWRITE", "true")
			_ = os.Setenv("PLAYERDEX_MAX_LOAD_FACTOR", "0.75")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PlayersPath, convey.ShouldEqual, "/data/players_22.csv")
				convey.So(cfg.PlayerBuckets, convey.ShouldEqual, 20000)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 5)
				convey.So(cfg.NameIndexOverwrite, convey.ShouldBeTrue)
				convey.So(cfg.MaxLoadFactor, convey.ShouldEqual, 0.75)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
tags_path: /data/tags.csv
user_buckets: 200000
ingest_queue_size: 512
dedupe_size: 0
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERDEX_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.TagsPath, convey.ShouldEqual, "/data/tags.csv")
				convey.So(cfg.UserBuckets, convey.ShouldEqual, 200000)
				convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 512)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 0)
				convey.So(cfg.PlayerBuckets, convey.ShouldEqual, 10_000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
history_limit: 10
player_buckets: 5000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERDEX_CONFIG", tmpFile)
			_ = os.Setenv("PLAYERDEX_ADDR", ":8080")
			_ = os.Setenv("PLAYERDEX_HISTORY_LIMIT", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")        // Overridden by env
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 30)     // Overridden by env
				convey.So(cfg.PlayerBuckets, convey.ShouldEqual, 5000)  // From file
				convey.So(cfg.UserBuckets, convey.ShouldEqual, 100_000) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERDEX_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PLAYERDEX_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PLAYERDEX_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero bucket counts", func() {
			_ = os.Setenv("PLAYERDEX_USER_BUCKETS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PLAYERDEX_PLAYER_BUCKETS", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# Catalog inputs
players_path: "players_21.csv"  # Inline comment
# Index sizing
player_buckets: 20000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLAYERDEX_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.PlayersPath, convey.ShouldEqual, "players_21.csv")
				convey.So(cfg.PlayerBuckets, convey.ShouldEqual, 20000)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PLAYERDEX_CONFIG",
		"PLAYERDEX_ADDR",
		"PLAYERDEX_PLAYERS_PATH",
		"PLAYERDEX_PLAYER_BUCKETS",
		"PLAYERDEX_USER_BUCKETS",
		"PLAYERDEX_HISTORY_LIMIT",
		"PLAYERDEX_NAME_INDEX_OVERWRITE",
		"PLAYERDEX_MAX_LOAD_FACTOR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "playerdex-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
