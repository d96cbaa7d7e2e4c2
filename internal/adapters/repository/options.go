package repository

import "github.com/okian/playerdex/internal/domain/index"

// Default table sizes.
const (
	DefaultPlayerBuckets = 10_000
	DefaultUserBuckets   = 100_000
)

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithPlayerBuckets sets the bucket count of the player table.
func WithPlayerBuckets(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.playerBuckets = n
		}
	}
}

// WithUserBuckets sets the bucket count of the user table.
func WithUserBuckets(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.userBuckets = n
		}
	}
}

// WithNameOverwrite keeps only the last player inserted under a full name.
func WithNameOverwrite(enabled bool) Option {
	return func(c *Catalog) {
		if enabled {
			c.nameOpts = append(c.nameOpts, index.WithOverwrite())
		}
	}
}
