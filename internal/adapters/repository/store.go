// Package repository holds the catalog built by bulk load: the player and
// user tables plus the name and tag tries.
package repository

import (
	"context"
	"iter"

	"github.com/okian/playerdex/internal/domain/model"
)

// Stats describes the size and shape of a catalog.
type Stats struct {
	Players            int     `json:"players"`
	Users              int     `json:"users"`
	Names              int     `json:"names"`
	Tags               int     `json:"tags"`
	PlayerBuckets      int     `json:"player_buckets"`
	UserBuckets        int     `json:"user_buckets"`
	PlayerLoadFactor   float64 `json:"player_load_factor"`
	UserLoadFactor     float64 `json:"user_load_factor"`
	PlayerLongestChain int     `json:"player_longest_chain"`
	UserLongestChain   int     `json:"user_longest_chain"`
	Sealed             bool    `json:"sealed"`
}

// Store provides read access to a loaded catalog.
type Store interface {
	// Player returns the player with id.
	// Returns ErrNotFound if the id is unknown.
	Player(ctx context.Context, id string) (*model.Player, error)

	// NameIDs returns the ids of players whose lower-cased full name starts
	// with the lower-cased prefix, in trie order.
	NameIDs(ctx context.Context, prefix string) []string

	// TagIDs returns the ids of players carrying a tag field that is a prefix
	// of tag.
	TagIDs(ctx context.Context, tag string) []string

	// Players yields every player in table order.
	Players(ctx context.Context) iter.Seq[*model.Player]

	// History returns the rating history of userID.
	// Returns ErrNotFound if the user never rated a known player.
	History(ctx context.Context, userID string) (*model.History, error)

	// Stats reports counts and table shape.
	Stats(ctx context.Context) Stats
}
