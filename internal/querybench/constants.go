package querybench

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusNotFound = 404
)

// Sampling constants.
const (
	prefixRunes      = 3
	maxSampledUsers  = 5000
	maxViolationLogs = 20
	defaultMaxK      = 50
)

// Runner configuration constants.
const (
	ProgressInterval     = time.Second
	PercentageMultiplier = 100
)

// RequestIDHeader is sent with every bench request so server logs can be
// matched to the run.
const RequestIDHeader = "X-Request-ID"
