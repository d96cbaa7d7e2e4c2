package querybench

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/playerdex/internal/adapters/loader"
	"github.com/okian/playerdex/internal/domain/model"
	"github.com/okian/playerdex/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pool holds the values queries are sampled from.
type Pool struct {
	PlayerIDs []string
	Prefixes  []string
	Tags      []string
	Positions []string
	Users     []string
}

// fold lower-cases s the same way the name index does.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// distinct collects values once, in first-seen order.
type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: make(map[string]struct{})}
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

// LoadPool reads the CSV files named in config and collects the values
// queries are drawn from. Only the first distinct users of the ratings file
// are sampled.
func LoadPool(ctx context.Context, config *Config) (*Pool, error) {
	ids, prefixes, positions := newDistinct(), newDistinct(), newDistinct()
	tags, users := newDistinct(), newDistinct()

	if err := readFile(config.PlayersPath, func(f *os.File) error {
		_, err := loader.ReadPlayers(ctx, f, func(p model.PlayerRecord) error {
			ids.add(p.ID)
			name := []rune(fold(p.LongName))
			prefixes.add(string(name[:min(prefixRunes, len(name))]))
			for pos := range strings.SplitSeq(p.Positions, ",") {
				positions.add(strings.TrimSpace(pos))
			}
			return nil
		})
		return err
	}); err != nil {
		return nil, err
	}

	if err := readFile(config.TagsPath, func(f *os.File) error {
		_, err := loader.ReadTags(ctx, f, func(t model.TagRecord) error {
			tags.add(t.Tag)
			return nil
		})
		return err
	}); err != nil {
		return nil, err
	}

	if err := readFile(config.RatingsPath, func(f *os.File) error {
		_, err := loader.ReadRatings(ctx, f, func(r model.RatingRecord) error {
			users.add(r.UserID)
			if len(users.values) >= maxSampledUsers {
				return errSampleFull
			}
			return nil
		})
		if errors.Is(err, errSampleFull) {
			return nil
		}
		return err
	}); err != nil {
		return nil, err
	}

	pool := &Pool{
		PlayerIDs: ids.values,
		Prefixes:  prefixes.values,
		Tags:      tags.values,
		Positions: positions.values,
		Users:     users.values,
	}
	logger.Get().Info(ctx, "sample pool loaded",
		logger.Int("players", len(pool.PlayerIDs)),
		logger.Int("prefixes", len(pool.Prefixes)),
		logger.Int("tags", len(pool.Tags)),
		logger.Int("positions", len(pool.Positions)),
		logger.Int("users", len(pool.Users)))
	return pool, nil
}

func readFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}

// kinds returns the query kinds the pool can feed.
func (p *Pool) kinds() []Kind {
	var out []Kind
	if len(p.PlayerIDs) > 0 {
		out = append(out, KindPlayer)
	}
	if len(p.Prefixes) > 0 {
		out = append(out, KindPrefix)
	}
	if len(p.Tags) > 0 {
		out = append(out, KindTags)
	}
	if len(p.Positions) > 0 {
		out = append(out, KindTop)
	}
	if len(p.Users) > 0 {
		out = append(out, KindUser)
	}
	return out
}

// BuildQueries draws n queries from pool. The same seed yields the same
// queries.
func BuildQueries(pool *Pool, n, maxK int, seed uint64) ([]Query, error) {
	kinds := pool.kinds()
	if len(kinds) == 0 {
		return nil, ErrEmptyPool
	}
	if maxK < 1 {
		maxK = defaultMaxK
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pick := func(s []string) string { return s[rng.IntN(len(s))] }

	queries := make([]Query, 0, n)
	for range n {
		var q Query
		switch kind := kinds[rng.IntN(len(kinds))]; kind {
		case KindPlayer:
			q = Query{Kind: kind, ID: pick(pool.PlayerIDs)}
			q.Path = "/players/" + url.PathEscape(q.ID)
		case KindPrefix:
			q = Query{Kind: kind, Path: "/players", Prefix: pick(pool.Prefixes)}
			q.Params = url.Values{"prefix": {q.Prefix}}
		case KindTags:
			q = Query{Kind: kind, Path: "/players/search"}
			for range 1 + rng.IntN(2) {
				if t := pick(pool.Tags); !slices.Contains(q.Tags, t) {
					q.Tags = append(q.Tags, t)
				}
			}
			q.Params = url.Values{"tag": q.Tags}
		case KindTop:
			q = Query{Kind: kind, Path: "/top", K: 1 + rng.IntN(maxK), Position: pick(pool.Positions)}
			q.Params = url.Values{"k": {strconv.Itoa(q.K)}, "position": {q.Position}}
		case KindUser:
			q = Query{Kind: kind, ID: pick(pool.Users)}
			q.Path = "/users/" + url.PathEscape(q.ID) + "/ratings"
		}
		queries = append(queries, q)
	}
	return queries, nil
}
