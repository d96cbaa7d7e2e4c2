// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PlayersPath, TagsPath and RatingsPath locate the three CSV record streams.
	PlayersPath string `koanf:"players_path"`
	TagsPath    string `koanf:"tags_path"`
	RatingsPath string `koanf:"ratings_path"`

	// PlayerBuckets and UserBuckets fix the bucket count of the two keyed tables.
	// Keep them at or above the expected number of players and users.
	PlayerBuckets int `koanf:"player_buckets"`
	UserBuckets   int `koanf:"user_buckets"`

	// MaxLoadFactor is the entries-per-bucket ratio above which bulk load warns.
	MaxLoadFactor float64 `koanf:"max_load_factor"`

	// HistoryLimit caps the number of entries returned for a user's history.
	HistoryLimit int `koanf:"history_limit"`

	// MaxTopLimit caps k for top-by-category requests over HTTP.
	MaxTopLimit int `koanf:"max_top_limit"`

	// IngestQueueSize bounds the rating record queue used during load.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// NameIndexOverwrite restores last-writer-wins behaviour for players that
	// share a full name.
	NameIndexOverwrite bool `koanf:"name_index_overwrite"`

	// DedupeSize bounds how many unknown player ids are remembered so each is
	// logged once during load. Zero means unbounded.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		PlayersPath:     "players.csv",
		TagsPath:        "tags.csv",
		RatingsPath:     "rating.csv",
		PlayerBuckets:   10_000,
		UserBuckets:     100_000,
		MaxLoadFactor:   1.0,
		HistoryLimit:    20,
		MaxTopLimit:     1_000,
		IngestQueueSize: 10_000,
		DedupeSize:      50_000,
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PlayerBuckets < 1:
		return fmt.Errorf("%w: player_buckets must be positive, got %d", ErrInvalidConfig, c.PlayerBuckets)
	case c.UserBuckets < 1:
		return fmt.Errorf("%w: user_buckets must be positive, got %d", ErrInvalidConfig, c.UserBuckets)
	case c.HistoryLimit < 1:
		return fmt.Errorf("%w: history_limit must be positive, got %d", ErrInvalidConfig, c.HistoryLimit)
	case c.MaxTopLimit < 1:
		return fmt.Errorf("%w: max_top_limit must be positive, got %d", ErrInvalidConfig, c.MaxTopLimit)
	case c.IngestQueueSize < 1:
		return fmt.Errorf("%w: ingest_queue_size must be positive, got %d", ErrInvalidConfig, c.IngestQueueSize)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.MaxLoadFactor <= 0:
		return fmt.Errorf("%w: max_load_factor must be positive, got %g", ErrInvalidConfig, c.MaxLoadFactor)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
