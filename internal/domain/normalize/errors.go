package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrEmptyMatrix   = errors.New("cannot normalize an empty matrix")
	ErrZeroVariance  = errors.New("column has zero variance")
	ErrNonFinite     = errors.New("column statistics are not finite")
	ErrUnknownPolicy = errors.New("unknown zero-variance policy")
)
