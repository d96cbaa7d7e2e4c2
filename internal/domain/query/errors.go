package query

import "errors"

// Sentinel kinds for query outcomes. Neither is fatal; callers report them
// and keep serving.
var (
	ErrNotFound   = errors.New("no match")
	ErrEmptyQuery = errors.New("empty query")
)
