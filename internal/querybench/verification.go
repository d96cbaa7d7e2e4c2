package querybench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/playerdex/internal/domain/types"
)

// Verify decodes a 200 response body for q and returns every invariant it
// breaks. Result lists must be ordered by global rating, highest first, and
// user histories by user rating then global rating.
func Verify(q Query, body []byte) []string {
	switch q.Kind {
	case KindPlayer:
		var p types.PlayerView
		if err := json.Unmarshal(body, &p); err != nil {
			return []string{fmt.Sprintf("decode player: %v", err)}
		}
		if p.ID != q.ID {
			return []string{fmt.Sprintf("asked for player %s, got %s", q.ID, p.ID)}
		}
		return nil

	case KindUser:
		var rs []types.UserRatingView
		if err := json.Unmarshal(body, &rs); err != nil {
			return []string{fmt.Sprintf("decode user history: %v", err)}
		}
		return verifyHistory(rs)

	default:
		var ps []types.PlayerView
		if err := json.Unmarshal(body, &ps); err != nil {
			return []string{fmt.Sprintf("decode players: %v", err)}
		}
		return verifyPlayers(q, ps)
	}
}

func verifyPlayers(q Query, ps []types.PlayerView) []string {
	var out []string
	for i, p := range ps {
		if i > 0 && p.Rating > ps[i-1].Rating {
			out = append(out, fmt.Sprintf("%s: entry %d (%s, %.6f) rated above entry %d (%.6f)",
				q.Kind, i, p.ID, p.Rating, i-1, ps[i-1].Rating))
		}
		switch q.Kind {
		case KindPrefix:
			if !strings.HasPrefix(fold(p.LongName), fold(q.Prefix)) {
				out = append(out, fmt.Sprintf("prefix: %q does not start with %q", p.LongName, q.Prefix))
			}
		case KindTop:
			if !strings.Contains(p.Positions, q.Position) {
				out = append(out, fmt.Sprintf("top: %s positions %q lack %q", p.ID, p.Positions, q.Position))
			}
		}
	}
	if q.Kind == KindTop && len(ps) > q.K {
		out = append(out, fmt.Sprintf("top: asked for %d, got %d", q.K, len(ps)))
	}
	return out
}

func verifyHistory(rs []types.UserRatingView) []string {
	var out []string
	for i := 1; i < len(rs); i++ {
		prev, cur := rs[i-1], rs[i]
		if cur.UserRating > prev.UserRating ||
			(cur.UserRating == prev.UserRating && cur.Rating > prev.Rating) {
			out = append(out, fmt.Sprintf("user: entry %d (%.1f, %.6f) ordered after entry %d (%.1f, %.6f)",
				i, cur.UserRating, cur.Rating, i-1, prev.UserRating, prev.Rating))
		}
	}
	return out
}
