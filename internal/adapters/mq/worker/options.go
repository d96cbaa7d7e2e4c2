package worker

import (
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/pkg/logger"
)

// Option applies a configuration option to the IngestWorker.
type Option func(*IngestWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *IngestWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *IngestWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDeduper sets the tracker used to log each dangling player id once.
func WithDeduper(d dedupe.Deduper) Option {
	return func(w *IngestWorker) {
		if d != nil {
			w.deduper = d
		}
	}
}
