package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound = errors.New("not found")
	ErrSealed   = errors.New("catalog is sealed")
)
