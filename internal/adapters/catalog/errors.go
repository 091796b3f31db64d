package catalog

import "errors"

// Sentinel errors for catalog sources.
var (
	ErrMalformedRecord   = errors.New("malformed catalog record")
	ErrMissingColumn     = errors.New("missing catalog column")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrOpenCatalog       = errors.New("open catalog failed")
)
