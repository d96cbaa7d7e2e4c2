package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotLoaded = errors.New("catalog not loaded")
)
