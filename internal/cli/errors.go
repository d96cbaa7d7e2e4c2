package cli

import "errors"

// Sentinel kinds for command errors. Both are reported to the user before
// they are returned.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid usage")
)
