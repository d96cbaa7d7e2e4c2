// Package model contains domain models passed between layers.
package model

import "github.com/okian/playerdex/internal/domain/rating"

// Player is one catalog entity. Descriptive fields are fixed at load; the
// embedded Aggregate changes only while ratings are ingested.
type Player struct {
	ID          string // sofifa id
	ShortName   string
	LongName    string // indexed for prefix search
	Positions   string // comma separated, e.g. "RW, ST, CF"
	Nationality string
	Club        string
	League      string

	rating.Aggregate
}

// History is the rating history of one user over catalog players.
type History = rating.History[*Player]

// NewHistory creates an empty history for userID.
func NewHistory(userID string) *History { return rating.NewHistory[*Player](userID) }

// UserRating pairs a rating a user gave with a snapshot of the rated player,
// whose Average and Count are the global statistics.
type UserRating struct {
	Player
	UserRating float64
}
