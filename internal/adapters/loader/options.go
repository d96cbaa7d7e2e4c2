package loader

import (
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/pkg/logger"
)

// Default loader configuration constants.
const (
	defaultQueueSize     = 10_000
	defaultMaxLoadFactor = 1.0
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithQueueSize bounds the rating queue between the reader and the ingest worker.
func WithQueueSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithMaxLoadFactor sets the entries-per-bucket ratio above which a table
// is reported as undersized.
func WithMaxLoadFactor(f float64) Option {
	return func(l *Loader) {
		if f > 0 {
			l.maxLoadFactor = f
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithDeduper sets the tracker used to log each dangling player id once.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *Loader) {
		if d != nil {
			l.deduper = d
		}
	}
}
