// Package worker applies queued rating records to the catalog.
//
// Exactly one IngestWorker drains a queue so catalog writes stay serialized.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/playerdex/internal/adapters/mq/queue"
	"github.com/okian/playerdex/internal/adapters/repository"
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/pkg/logger"
	"github.com/okian/playerdex/pkg/metrics"
)

// Applier folds one rating record into the catalog. An error wrapping
// repository.ErrNotFound marks a dangling rating.
type Applier interface {
	AddRating(ctx context.Context, rec queue.Record) error
}

// Queue defines how the worker receives records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Record
	Len(ctx context.Context) int
}

// Stats summarizes what the worker did with the records it drained.
type Stats struct {
	Applied          int64
	Dangling         int64
	DistinctDangling int64
}

// IngestWorker drains a Queue into an Applier.
type IngestWorker struct {
	queue   Queue
	applier Applier
	name    string
	deduper dedupe.Deduper // log suppression, may be bounded
	unknown dedupe.Deduper // every dangling player id, unbounded

	applied  atomic.Int64
	dangling atomic.Int64
	err      error // first non-dangling apply error, read after done

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewIngestWorker creates a worker with configuration options.
func NewIngestWorker(q Queue, applier Applier, opts ...Option) *IngestWorker {
	w := &IngestWorker{
		queue:    q,
		applier:  applier,
		name:     "ingest",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		unknown:  dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	if w.deduper == nil {
		w.deduper = dedupe.NewInMemoryDeduper()
	}
	return w
}

// Start runs the worker loop in a new goroutine.
func (w *IngestWorker) Start(ctx context.Context) {
	go w.Run(ctx)
}

// Run drains the queue until it is closed, ctx is done or Shutdown is called.
func (w *IngestWorker) Run(ctx context.Context) {
	defer close(w.done)

	records := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			w.fail(ctx.Err())
			return
		case <-w.shutdown:
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			w.queue.Len(ctx)
			w.process(ctx, rec)
		}
	}
}

func (w *IngestWorker) process(ctx context.Context, rec queue.Record) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessed(float64(time.Since(start).Microseconds()) / 1000)
	}()

	err := w.applier.AddRating(ctx, rec)
	switch {
	case err == nil:
		w.applied.Add(1)
	case errors.Is(err, repository.ErrNotFound):
		w.dangling.Add(1)
		metrics.RecordDanglingRating()
		w.unknown.SeenAndRecord(ctx, rec.PlayerID)
		if !w.deduper.SeenAndRecord(ctx, rec.PlayerID) {
			w.logger.Debug(ctx, "skipping ratings for unknown player",
				logger.String("player_id", rec.PlayerID),
				logger.String("user_id", rec.UserID),
			)
		}
	default:
		metrics.RecordErrorByComponent("worker", "apply_error")
		w.logger.Error(ctx, "rating not applied",
			logger.String("player_id", rec.PlayerID),
			logger.String("user_id", rec.UserID),
			logger.Error(err),
		)
		w.fail(fmt.Errorf("apply rating %s/%s: %w", rec.UserID, rec.PlayerID, err))
	}
}

// fail keeps the first error. Only the worker goroutine calls it.
func (w *IngestWorker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Wait blocks until the worker loop exits and returns the first error it
// hit, if any. Dangling ratings are not errors.
func (w *IngestWorker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return fmt.Errorf("wait for %s worker: %w", w.name, ctx.Err())
	}
}

// Shutdown stops the worker without draining the rest of the queue.
func (w *IngestWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns counters accumulated so far. Call it after Wait or
// Shutdown returns.
func (w *IngestWorker) Stats() Stats {
	return Stats{
		Applied:          w.applied.Load(),
		Dangling:         w.dangling.Load(),
		DistinctDangling: int64(w.unknown.Size()),
	}
}
