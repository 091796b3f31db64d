package cli

import "errors"

// Sentinel errors for the console adapter.
var (
	ErrMissingSong   = errors.New("no song given and stdin is not a terminal")
	ErrUnknownFormat = errors.New("unknown output format")
)
