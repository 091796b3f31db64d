package features

import "errors"

// Sentinel kinds for matrix construction errors.
var (
	ErrRaggedRows    = errors.New("rows have different lengths")
	ErrRowOutOfRange = errors.New("row index out of range")
)
