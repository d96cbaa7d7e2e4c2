package repository

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/okian/playerdex/internal/domain/index"
	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/metrics"
)

// Catalog owns every index built during bulk load.
//
// Writes: AddTag touches only the tag trie and AddPlayer touches only the
// player table and name trie, so one tag writer and one player writer may run
// side by side. AddRating must run after all players are added and from a
// single goroutine. Once Seal is called, writes fail with ErrSealed and the
// catalog may be read from any number of goroutines without locking.
type Catalog struct {
	playerBuckets int
	userBuckets   int
	nameOpts      []index.NameOption

	players *index.KeyedTable[*model.Player]
	users   *index.KeyedTable[*model.History]
	names   *index.NameTrie
	tags    *index.TagTrie

	sealed atomic.Bool
}

var _ Store = (*Catalog)(nil)

// NewCatalog creates an empty, writable catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		playerBuckets: DefaultPlayerBuckets,
		userBuckets:   DefaultUserBuckets,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.players = index.NewKeyedTable[*model.Player](c.playerBuckets)
	c.users = index.NewKeyedTable[*model.History](c.userBuckets)
	c.names = index.NewNameTrie(c.nameOpts...)
	c.tags = index.NewTagTrie()
	return c
}

// AddTag indexes a raw tag field for a player id. The id is not required to
// be a known player.
func (c *Catalog) AddTag(_ context.Context, rec model.TagRecord) error {
	if c.sealed.Load() {
		return ErrSealed
	}
	c.tags.Insert(rec.Tag, rec.PlayerID)
	return nil
}

// AddPlayer stores a player and indexes its full name.
func (c *Catalog) AddPlayer(_ context.Context, rec model.PlayerRecord) error {
	if c.sealed.Load() {
		return ErrSealed
	}
	p := rec.Player()
	c.players.Insert(p.ID, p)
	c.names.Insert(p.LongName, p.ID)
	return nil
}

// AddRating folds a rating into the player's aggregate and appends it to the
// user's history. A rating for an unknown player changes nothing and returns
// an error wrapping ErrNotFound.
func (c *Catalog) AddRating(_ context.Context, rec model.RatingRecord) error {
	if c.sealed.Load() {
		return ErrSealed
	}
	p, ok := c.players.Lookup(rec.PlayerID)
	if !ok {
		return fmt.Errorf("player %s: %w", rec.PlayerID, ErrNotFound)
	}
	p.Add(rec.Rating)

	h, ok := c.users.Lookup(rec.UserID)
	if !ok {
		h = model.NewHistory(rec.UserID)
		c.users.Upsert(rec.UserID, h)
	}
	h.Append(p, rec.Rating)
	return nil
}

// Seal freezes the catalog and publishes its shape to metrics.
func (c *Catalog) Seal(ctx context.Context) Stats {
	c.sealed.Store(true)
	st := c.Stats(ctx)
	metrics.UpdateTotalPlayers(st.Players)
	metrics.UpdateTotalUsers(st.Users)
	metrics.UpdateTableShape("players", st.PlayerLoadFactor, st.PlayerLongestChain)
	metrics.UpdateTableShape("users", st.UserLoadFactor, st.UserLongestChain)
	return st
}

// Sealed reports whether Seal was called.
func (c *Catalog) Sealed() bool { return c.sealed.Load() }

func (c *Catalog) Player(_ context.Context, id string) (*model.Player, error) {
	p, ok := c.players.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (c *Catalog) NameIDs(_ context.Context, prefix string) []string {
	return c.names.Search(prefix)
}

func (c *Catalog) TagIDs(_ context.Context, tag string) []string {
	return c.tags.Search(tag)
}

func (c *Catalog) Players(_ context.Context) iter.Seq[*model.Player] {
	return func(yield func(*model.Player) bool) {
		for _, p := range c.players.All() {
			if !yield(p) {
				return
			}
		}
	}
}

func (c *Catalog) History(_ context.Context, userID string) (*model.History, error) {
	h, ok := c.users.Lookup(userID)
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return h, nil
}

func (c *Catalog) Stats(_ context.Context) Stats {
	return Stats{
		Players:            c.players.Len(),
		Users:              c.users.Len(),
		Names:              c.names.Names(),
		Tags:               c.tags.Tags(),
		PlayerBuckets:      c.players.Buckets(),
		UserBuckets:        c.users.Buckets(),
		PlayerLoadFactor:   c.players.LoadFactor(),
		UserLoadFactor:     c.users.LoadFactor(),
		PlayerLongestChain: c.players.LongestChain(),
		UserLongestChain:   c.users.LongestChain(),
		Sealed:             c.sealed.Load(),
	}
}
