package service

import (
	"github.com/okian/playerdex/internal/adapters/loader"
	"github.com/okian/playerdex/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFiles sets the record files loaded by Start.
func WithFiles(files loader.Files) Option {
	return func(s *Service) {
		if files.Players != "" {
			s.files.Players = files.Players
		}
		if files.Tags != "" {
			s.files.Tags = files.Tags
		}
		if files.Ratings != "" {
			s.files.Ratings = files.Ratings
		}
	}
}

// WithPlayerBuckets sets the bucket count of the player table.
func WithPlayerBuckets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.playerBuckets = n
		}
	}
}

// WithUserBuckets sets the bucket count of the user table.
func WithUserBuckets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.userBuckets = n
		}
	}
}

// WithQueueSize sets the capacity of the rating ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithHistoryLimit caps user history results.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithMaxLoadFactor sets the load factor above which a table is reported undersized.
func WithMaxLoadFactor(f float64) Option {
	return func(s *Service) {
		if f > 0 {
			s.maxLoadFactor = f
		}
	}
}

// WithNameOverwrite keeps only the last player per full name in the name index.
func WithNameOverwrite(enabled bool) Option {
	return func(s *Service) {
		s.nameOverwrite = enabled
	}
}

// WithDedupeSize bounds how many dangling player ids are remembered for
// log suppression.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
