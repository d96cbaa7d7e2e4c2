// Package query answers read queries over a sealed catalog. Every list
// result is ordered by global average rating, highest first, with ties kept
// in the order the underlying index produced them.
package query

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/playerdex/internal/adapters/repository"
	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/metrics"
)

// Query kinds used as metric labels.
const (
	KindByID     = "by_id"
	KindPrefix   = "prefix"
	KindTags     = "tags"
	KindTop      = "top"
	KindHistory  = "history"
	outcomeOK    = "ok"
	outcomeMiss  = "not_found"
	outcomeEmpty = "empty_query"
)

// Engine resolves queries against a Store.
type Engine struct {
	store        repository.Store
	historyLimit int
}

// New creates an Engine reading from store.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{store: store, historyLimit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HistoryLimit returns the cap applied by UserHistory.
func (e *Engine) HistoryLimit() int { return e.historyLimit }

// ByID returns the player with id.
func (e *Engine) ByID(ctx context.Context, id string) (model.Player, error) {
	start := time.Now()
	p, err := e.store.Player(ctx, id)
	if err != nil {
		observe(KindByID, start, 0, err)
		return model.Player{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	observe(KindByID, start, 1, nil)
	return *p, nil
}

// ByPrefix returns players whose full name starts with prefix, compared
// case-insensitively. The empty prefix matches every player.
func (e *Engine) ByPrefix(ctx context.Context, prefix string) ([]model.Player, error) {
	start := time.Now()
	out := e.resolve(ctx, e.store.NameIDs(ctx, prefix))
	if len(out) == 0 {
		err := fmt.Errorf("%w: prefix %q", ErrNotFound, prefix)
		observe(KindPrefix, start, 0, err)
		return out, err
	}
	sortByAverage(out)
	observe(KindPrefix, start, len(out), nil)
	return out, nil
}

// ByTags returns players matching every tag. A player matches a tag when one
// of its raw tag fields is a prefix of that tag.
func (e *Engine) ByTags(ctx context.Context, tags []string) ([]model.Player, error) {
	start := time.Now()
	if len(tags) == 0 {
		observe(KindTags, start, 0, ErrEmptyQuery)
		return []model.Player{}, ErrEmptyQuery
	}

	ids := e.store.TagIDs(ctx, tags[0])
	for _, tag := range tags[1:] {
		if len(ids) == 0 {
			break
		}
		next := make(map[string]struct{})
		for _, id := range e.store.TagIDs(ctx, tag) {
			next[id] = struct{}{}
		}
		ids = slices.DeleteFunc(ids, func(id string) bool {
			_, keep := next[id]
			return !keep
		})
	}

	out := e.resolve(ctx, ids)
	if len(out) == 0 {
		err := fmt.Errorf("%w: tags %q", ErrNotFound, tags)
		observe(KindTags, start, 0, err)
		return out, err
	}
	sortByAverage(out)
	observe(KindTags, start, len(out), nil)
	return out, nil
}

// TopByCategory returns at most k players whose positions contain category.
// A non-positive k yields an empty result.
func (e *Engine) TopByCategory(ctx context.Context, k int, category string) ([]model.Player, error) {
	start := time.Now()
	out := []model.Player{}
	if k <= 0 {
		observe(KindTop, start, 0, nil)
		return out, nil
	}
	for p := range e.store.Players(ctx) {
		if strings.Contains(p.Positions, category) {
			out = append(out, *p)
		}
	}
	sortByAverage(out)
	if len(out) > k {
		out = out[:k]
	}
	observe(KindTop, start, len(out), nil)
	return out, nil
}

// UserHistory returns the ratings userID submitted, ordered by the user's
// rating and then by global average, both descending, capped at the
// engine's history limit.
func (e *Engine) UserHistory(ctx context.Context, userID string) ([]model.UserRating, error) {
	start := time.Now()
	h, err := e.store.History(ctx, userID)
	if err != nil {
		observe(KindHistory, start, 0, err)
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	out := make([]model.UserRating, 0, h.Len())
	for _, entry := range h.Entries {
		out = append(out, model.UserRating{Player: *entry.Subject, UserRating: entry.Rating})
	}
	slices.SortStableFunc(out, func(a, b model.UserRating) int {
		if c := cmp.Compare(b.UserRating, a.UserRating); c != 0 {
			return c
		}
		return cmp.Compare(b.Average, a.Average)
	})
	if len(out) > e.historyLimit {
		out = out[:e.historyLimit]
	}
	observe(KindHistory, start, len(out), nil)
	return out, nil
}

// resolve maps ids to player snapshots, skipping ids with no player.
func (e *Engine) resolve(ctx context.Context, ids []string) []model.Player {
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, err := e.store.Player(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func sortByAverage(ps []model.Player) {
	slices.SortStableFunc(ps, func(a, b model.Player) int {
		return cmp.Compare(b.Average, a.Average)
	})
}

func observe(kind string, start time.Time, results int, err error) {
	outcome := outcomeOK
	switch {
	case errors.Is(err, ErrEmptyQuery):
		outcome = outcomeEmpty
	case err != nil:
		outcome = outcomeMiss
	}
	metrics.RecordQuery(kind, outcome, float64(time.Since(start).Microseconds())/1000, results)
}
