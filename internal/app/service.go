// Package service wires the catalog, loader and query engine into the
// facade used by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"

	"github.com/okian/playerdex/internal/adapters/loader"
	repository "github.com/okian/playerdex/internal/adapters/repository"
	"github.com/okian/playerdex/internal/domain/dedupe"
	"github.com/okian/playerdex/internal/domain/query"
	"github.com/okian/playerdex/internal/domain/types"
	"github.com/okian/playerdex/pkg/logger"
	"github.com/okian/playerdex/pkg/metrics"
)

// Service loads the catalog once and answers queries over it.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *repository.Catalog
	engine  *query.Engine

	// Configuration
	files         loader.Files
	playerBuckets int
	userBuckets   int
	queueSize     int
	historyLimit  int
	maxLoadFactor float64
	nameOverwrite bool
	dedupeSize    int

	// State
	started bool
	report  loader.Report

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		files: loader.Files{
			Players: "players.csv",
			Tags:    "tags.csv",
			Ratings: "rating.csv",
		},
		playerBuckets: repository.DefaultPlayerBuckets,
		userBuckets:   repository.DefaultUserBuckets,
		queueSize:     10_000,
		historyLimit:  query.DefaultHistoryLimit,
		maxLoadFactor: 1.0,
		dedupeSize:    50_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the configured files. Calling it again after a successful
// load is a no-op.
func (s *Service) Start(ctx context.Context) error {
	return s.start(ctx, func(l *loader.Loader) (loader.Report, error) {
		return l.LoadFiles(ctx, s.files)
	})
}

// StartFrom loads the catalog from already opened streams.
func (s *Service) StartFrom(ctx context.Context, src loader.Sources) error {
	return s.start(ctx, func(l *loader.Loader) (loader.Report, error) {
		return l.Load(ctx, src)
	})
}

func (s *Service) start(ctx context.Context, load func(*loader.Loader) (loader.Report, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "loading catalog...",
		logger.String("players", s.files.Players),
		logger.String("tags", s.files.Tags),
		logger.String("ratings", s.files.Ratings),
	)

	catalog := repository.NewCatalog(
		repository.WithPlayerBuckets(s.playerBuckets),
		repository.WithUserBuckets(s.userBuckets),
		repository.WithNameOverwrite(s.nameOverwrite),
	)
	l := loader.New(catalog,
		loader.WithQueueSize(s.queueSize),
		loader.WithMaxLoadFactor(s.maxLoadFactor),
		loader.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))),
		loader.WithLogger(s.logger.Named("loader")),
	)
	rep, err := load(l)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		return err
	}

	s.catalog = catalog
	s.engine = query.New(catalog, query.WithHistoryLimit(s.historyLimit))
	s.report = rep
	s.started = true

	s.logger.Info(ctx, "service ready",
		logger.Int("players", rep.Catalog.Players),
		logger.Int("users", rep.Catalog.Users),
		logger.Float64("seconds", rep.Total.Seconds()),
	)
	return nil
}

// Stop releases the catalog.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.catalog = nil
	s.engine = nil
	s.started = false
	s.logger.Info(context.Background(), "service stopped")
}

// Report returns the summary of the last successful load.
func (s *Service) Report() loader.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

func (s *Service) queries() (*query.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotLoaded
	}
	return s.engine, nil
}

// Player returns the player with id.
func (s *Service) Player(ctx context.Context, id string) (types.PlayerView, error) {
	e, err := s.queries()
	if err != nil {
		return types.PlayerView{}, err
	}
	p, err := e.ByID(ctx, id)
	if err != nil {
		return types.PlayerView{}, err
	}
	return types.NewPlayerView(p), nil
}

// SearchPrefix returns players whose full name starts with prefix.
func (s *Service) SearchPrefix(ctx context.Context, prefix string) ([]types.PlayerView, error) {
	e, err := s.queries()
	if err != nil {
		return nil, err
	}
	ps, err := e.ByPrefix(ctx, prefix)
	return types.NewPlayerViews(ps), err
}

// SearchTags returns players matching every tag.
func (s *Service) SearchTags(ctx context.Context, tags []string) ([]types.PlayerView, error) {
	e, err := s.queries()
	if err != nil {
		return nil, err
	}
	ps, err := e.ByTags(ctx, tags)
	return types.NewPlayerViews(ps), err
}

// Top returns the k best rated players whose positions contain position.
func (s *Service) Top(ctx context.Context, k int, position string) ([]types.PlayerView, error) {
	e, err := s.queries()
	if err != nil {
		return nil, err
	}
	ps, err := e.TopByCategory(ctx, k, position)
	return types.NewPlayerViews(ps), err
}

// UserRatings returns the rating history of userID.
func (s *Service) UserRatings(ctx context.Context, userID string) ([]types.UserRatingView, error) {
	e, err := s.queries()
	if err != nil {
		return nil, err
	}
	rs, err := e.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return types.NewUserRatingViews(rs), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"playerBuckets": s.playerBuckets,
		"userBuckets":   s.userBuckets,
		"historyLimit":  s.historyLimit,
		"dedupeSize":    s.dedupeSize,
	}
	if s.started {
		st := s.catalog.Stats(context.Background())
		stats["catalog"] = st
		stats["load"] = map[string]interface{}{
			"tags":             s.report.Tags,
			"players":          s.report.Players,
			"ratings":          s.report.Ratings,
			"danglingRatings":  s.report.DanglingRatings,
			"danglingPlayers":  s.report.DanglingPlayers,
			"seconds":          s.report.Total.Seconds(),
			"undersizedTables": s.report.UndersizedTables,
		}

		metrics.UpdateTotalPlayers(st.Players)
		metrics.UpdateTotalUsers(st.Users)
	}
	return stats
}
