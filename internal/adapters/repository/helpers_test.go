package repository

import "github.com/okian/playerdex/internal/domain/model"

func recordFor(id, name, positions string) model.PlayerRecord {
	return model.PlayerRecord{ID: id, ShortName: name, LongName: name, Positions: positions}
}

func ratingFor(user, player string, v float64) model.RatingRecord {
	return model.RatingRecord{UserID: user, PlayerID: player, Rating: v}
}

func tagFor(player, tag string) model.TagRecord {
	return model.TagRecord{PlayerID: player, Tag: tag}
}
