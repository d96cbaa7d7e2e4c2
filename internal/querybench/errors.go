package querybench

import "errors"

// Sentinel kinds for bench errors.
var (
	ErrUnhealthy  = errors.New("service unhealthy")
	ErrEmptyPool  = errors.New("nothing to sample")
	ErrViolations = errors.New("responses violated ordering invariants")
	errSampleFull = errors.New("sample full")
)
