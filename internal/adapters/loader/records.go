package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/playerdex/internal/domain/model"
)

// Record stream names, also used as metric and log labels.
const (
	StreamTags    = "tags"
	StreamPlayers = "players"
	StreamRatings = "ratings"
)

const (
	tagColumns    = 3 // user_id,sofifa_id,tag
	playerColumns = 7 // sofifa_id,short_name,long_name,player_positions,nationality,club_name,league_name
	ratingColumns = 3 // user_id,sofifa_id,rating
)

// malformed wraps ErrMalformedRecord with the stream and line it came from.
func malformed(stream string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s", ErrMalformedRecord, stream, line, fmt.Sprintf(format, args...))
}

// readCSV parses every data row of r with parse and hands the result to emit.
// The first row is a header and is skipped. It returns the number of rows
// emitted.
func readCSV[T any](
	ctx context.Context,
	stream string,
	r io.Reader,
	columns int,
	parse func(line int, fields []string) (T, error),
	emit func(T) error,
) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, malformed(stream, 1, "%v", err)
	}

	n := 0
	for {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return n, malformed(stream, line, "%v", err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) != columns {
			return n, malformed(stream, line, "want %d fields, got %d", columns, len(fields))
		}
		v, err := parse(line, fields)
		if err != nil {
			return n, err
		}
		if err := emit(v); err != nil {
			return n, err
		}
		n++
	}
}

func parseTag(_ int, f []string) (model.TagRecord, error) {
	return model.TagRecord{PlayerID: f[1], Tag: f[2]}, nil
}

func parsePlayer(_ int, f []string) (model.PlayerRecord, error) {
	return model.PlayerRecord{
		ID:          f[0],
		ShortName:   f[1],
		LongName:    f[2],
		Positions:   f[3],
		Nationality: f[4],
		Club:        f[5],
		League:      f[6],
	}, nil
}

func parseRating(line int, f []string) (model.RatingRecord, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f[2]), 64)
	if err != nil {
		return model.RatingRecord{}, malformed(StreamRatings, line, "rating %q: %v", f[2], err)
	}
	return model.RatingRecord{UserID: f[0], PlayerID: f[1], Rating: v}, nil
}

// ReadTags streams tag records from r.
func ReadTags(ctx context.Context, r io.Reader, emit func(model.TagRecord) error) (int, error) {
	return readCSV(ctx, StreamTags, r, tagColumns, parseTag, emit)
}

// ReadPlayers streams player records from r.
func ReadPlayers(ctx context.Context, r io.Reader, emit func(model.PlayerRecord) error) (int, error) {
	return readCSV(ctx, StreamPlayers, r, playerColumns, parsePlayer, emit)
}

// ReadRatings streams rating records from r.
func ReadRatings(ctx context.Context, r io.Reader, emit func(model.RatingRecord) error) (int, error) {
	return readCSV(ctx, StreamRatings, r, ratingColumns, parseRating, emit)
}
