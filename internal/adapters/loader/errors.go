package loader

import "errors"

// Sentinel kinds for load errors.
var (
	// ErrMalformedRecord marks a record with the wrong shape. It aborts the load.
	ErrMalformedRecord = errors.New("malformed record")
)
