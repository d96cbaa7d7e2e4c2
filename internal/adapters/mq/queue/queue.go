// Package queue carries rating records from the bulk loader to the ingest
// worker through a bounded in-memory buffer.
package queue

import (
	"context"
	"sync"

	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10_000
)

// Record is the payload type flowing through the queue.
type Record = model.RatingRecord

// Queue provides bounded enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue blocks until r is buffered, the queue is closed (ErrClosed) or
	// ctx is done.
	Enqueue(ctx context.Context, r Record) error

	// Dequeue returns the channel records arrive on. It is closed once the
	// queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current number of buffered records and publishes it
	// to the queue size gauge.
	Len(ctx context.Context) int

	// Close stops accepting records. Buffered records stay readable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	records  chan Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan Record, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, r Record) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}

	select {
	case q.records <- r:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.records))
		return nil
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Record {
	return q.records
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.records)
	metrics.UpdateQueueSize(size)
	return size
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}
