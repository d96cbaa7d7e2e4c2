package model

// TagRecord is one row of the tags stream: a raw tag field attached to a player.
type TagRecord struct {
	PlayerID string
	Tag      string
}

// PlayerRecord is one row of the players stream.
type PlayerRecord struct {
	ID          string
	ShortName   string
	LongName    string
	Positions   string
	Nationality string
	Club        string
	League      string
}

// Player builds an unrated Player from the record.
func (r PlayerRecord) Player() *Player {
	return &Player{
		ID:          r.ID,
		ShortName:   r.ShortName,
		LongName:    r.LongName,
		Positions:   r.Positions,
		Nationality: r.Nationality,
		Club:        r.Club,
		League:      r.League,
	}
}

// RatingRecord is one row of the ratings stream.
type RatingRecord struct {
	UserID   string
	PlayerID string
	Rating   float64
}
