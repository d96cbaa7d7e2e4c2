// Package types contains the JSON views shared by the HTTP API and CLI output
package types

import "github.com/okian/playerdex/internal/domain/model"

// PlayerView is a player with its global rating statistics
type PlayerView struct {
	ID          string  `json:"sofifa_id"`
	ShortName   string  `json:"short_name"`
	LongName    string  `json:"long_name"`
	Positions   string  `json:"player_positions"`
	Nationality string  `json:"nationality"`
	Club        string  `json:"club_name"`
	League      string  `json:"league_name"`
	Rating      float64 `json:"rating"`
	Count       int     `json:"count"`
}

// UserRatingView is one entry of a user's rating history
type UserRatingView struct {
	PlayerView
	UserRating float64 `json:"user_rating"`
}

// NewPlayerView converts p.
func NewPlayerView(p model.Player) PlayerView {
	return PlayerView{
		ID:          p.ID,
		ShortName:   p.ShortName,
		LongName:    p.LongName,
		Positions:   p.Positions,
		Nationality: p.Nationality,
		Club:        p.Club,
		League:      p.League,
		Rating:      p.Average,
		Count:       p.Count,
	}
}

// NewPlayerViews converts ps, preserving order. It never returns nil so an
// empty result encodes as [].
func NewPlayerViews(ps []model.Player) []PlayerView {
	out := make([]PlayerView, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPlayerView(p))
	}
	return out
}

// NewUserRatingViews converts rs, preserving order.
func NewUserRatingViews(rs []model.UserRating) []UserRatingView {
	out := make([]UserRatingView, 0, len(rs))
	for _, r := range rs {
		out = append(out, UserRatingView{PlayerView: NewPlayerView(r.Player), UserRating: r.UserRating})
	}
	return out
}
