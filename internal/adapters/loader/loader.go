// Package loader builds a catalog from the tags, players and ratings record
// streams.
//
// Tags and players are read concurrently; they touch disjoint indexes.
// Ratings are read only after every player is indexed and are applied by a
// single ingest worker behind a bounded queue. The catalog is sealed when the
// load succeeds.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/playerdex/internal/adapters/mq/queue"
	"github.com/okian/playerdex/internal/adapters/mq/worker"
	"github.com/okian/playerdex/internal/adapters/repository"
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/logger"
	"github.com/okian/playerdex/pkg/metrics"
)

// Sources are the three record streams.
type Sources struct {
	Tags    io.Reader
	Players io.Reader
	Ratings io.Reader
}

// Files names the three record files.
type Files struct {
	Tags    string
	Players string
	Ratings string
}

// Report summarizes a completed load.
type Report struct {
	Tags             int
	Players          int
	Ratings          int
	AppliedRatings   int64
	DanglingRatings  int64
	DanglingPlayers  int64
	TagsDuration     time.Duration
	PlayersDuration  time.Duration
	RatingsDuration  time.Duration
	Total            time.Duration
	Catalog          repository.Stats
	UndersizedTables []string
}

// Loader fills a catalog.
type Loader struct {
	catalog       *repository.Catalog
	queueSize     int
	maxLoadFactor float64
	deduper       dedupe.Deduper
	logger        logger.Logger
}

// New creates a Loader writing into c.
func New(c *repository.Catalog, opts ...Option) *Loader {
	l := &Loader{
		catalog:       c,
		queueSize:     defaultQueueSize,
		maxLoadFactor: defaultMaxLoadFactor,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("loader")
	}
	if l.deduper == nil {
		l.deduper = dedupe.NewInMemoryDeduper()
	}
	return l
}

// LoadFiles opens the three files and loads them.
func (l *Loader) LoadFiles(ctx context.Context, files Files) (Report, error) {
	var src Sources
	for _, f := range []struct {
		path string
		dst  *io.Reader
	}{
		{files.Tags, &src.Tags},
		{files.Players, &src.Players},
		{files.Ratings, &src.Ratings},
	} {
		fh, err := os.Open(f.path)
		if err != nil {
			return Report{}, fmt.Errorf("open %s: %w", f.path, err)
		}
		defer func() { _ = fh.Close() }()
		*f.dst = fh
	}
	return l.Load(ctx, src)
}

// Load reads every stream into the catalog and seals it.
func (l *Loader) Load(ctx context.Context, src Sources) (Report, error) {
	var rep Report
	if l.catalog.Sealed() {
		return rep, fmt.Errorf("load: %w", repository.ErrSealed)
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t0 := time.Now()
		n, err := ReadTags(gctx, src.Tags, func(r model.TagRecord) error {
			return l.catalog.AddTag(gctx, r)
		})
		rep.Tags, rep.TagsDuration = n, time.Since(t0)
		return l.stageDone(ctx, StreamTags, n, rep.TagsDuration, err)
	})
	g.Go(func() error {
		t0 := time.Now()
		n, err := ReadPlayers(gctx, src.Players, func(r model.PlayerRecord) error {
			return l.catalog.AddPlayer(gctx, r)
		})
		rep.Players, rep.PlayersDuration = n, time.Since(t0)
		return l.stageDone(ctx, StreamPlayers, n, rep.PlayersDuration, err)
	})
	if err := g.Wait(); err != nil {
		return rep, err
	}

	if err := l.loadRatings(ctx, src.Ratings, &rep); err != nil {
		return rep, err
	}

	rep.Catalog = l.catalog.Seal(ctx)
	rep.Total = time.Since(start)
	l.checkShape(ctx, &rep)

	l.logger.Info(ctx, "catalog loaded",
		logger.Int("players", rep.Catalog.Players),
		logger.Int("users", rep.Catalog.Users),
		logger.Int("tags", rep.Catalog.Tags),
		logger.Any("dangling_ratings", rep.DanglingRatings),
		logger.Float64("seconds", rep.Total.Seconds()),
	)
	return rep, nil
}

func (l *Loader) loadRatings(ctx context.Context, r io.Reader, rep *Report) error {
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t0 := time.Now()
	q := queue.NewInMemoryQueue(queue.WithCapacity(l.queueSize))
	w := worker.NewIngestWorker(q, l.catalog,
		worker.WithName(StreamRatings),
		worker.WithLogger(l.logger.Named("ingest")),
		worker.WithDeduper(l.deduper),
	)
	w.Start(rctx)

	n, readErr := ReadRatings(rctx, r, func(rec model.RatingRecord) error {
		return q.Enqueue(rctx, rec)
	})
	_ = q.Close()
	var workErr error
	if readErr != nil {
		workErr = w.Shutdown(ctx)
	} else {
		workErr = w.Wait(ctx)
	}

	st := w.Stats()
	rep.Ratings = n
	rep.AppliedRatings, rep.DanglingRatings, rep.DanglingPlayers = st.Applied, st.Dangling, st.DistinctDangling
	rep.RatingsDuration = time.Since(t0)

	if readErr != nil {
		return l.stageDone(ctx, StreamRatings, n, rep.RatingsDuration, readErr)
	}
	if err := l.stageDone(ctx, StreamRatings, n, rep.RatingsDuration, workErr); err != nil {
		return err
	}
	if st.Dangling > 0 {
		l.logger.Warn(ctx, "ratings reference unknown players",
			logger.Any("ratings", st.Dangling),
			logger.Any("players", st.DistinctDangling),
		)
	}
	return nil
}

// stageDone records metrics and logs for one finished stream.
func (l *Loader) stageDone(ctx context.Context, stream string, n int, d time.Duration, err error) error {
	if err != nil {
		if errors.Is(err, ErrMalformedRecord) {
			metrics.RecordMalformedRecord(stream)
		}
		metrics.RecordErrorByComponent("loader", stream)
		l.logger.Error(ctx, "load failed", logger.String("stream", stream), logger.Int("records", n), logger.Error(err))
		return fmt.Errorf("load %s: %w", stream, err)
	}
	metrics.AddRecordsLoaded(stream, n)
	metrics.RecordLoadStageDuration(stream, float64(d.Milliseconds()))
	l.logger.Info(ctx, stream+" loaded",
		logger.Int("records", n),
		logger.Float64("seconds", d.Seconds()),
	)
	return nil
}

// checkShape flags tables whose load factor exceeds the configured maximum.
func (l *Loader) checkShape(ctx context.Context, rep *Report) {
	tables := []struct {
		name    string
		lf      float64
		longest int
	}{
		{"players", rep.Catalog.PlayerLoadFactor, rep.Catalog.PlayerLongestChain},
		{"users", rep.Catalog.UserLoadFactor, rep.Catalog.UserLongestChain},
	}
	for _, t := range tables {
		if t.lf <= l.maxLoadFactor {
			continue
		}
		rep.UndersizedTables = append(rep.UndersizedTables, t.name)
		l.logger.Warn(ctx, "table undersized, raise its bucket count",
			logger.String("table", t.name),
			logger.Float64("load_factor", t.lf),
			logger.Int("longest_chain", t.longest),
		)
	}
}
