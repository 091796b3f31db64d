package ranking

import "errors"

// Sentinel kinds for ranking errors. Both indicate a caller bug.
var (
	ErrQueryOutOfRange     = errors.New("query index out of range")
	ErrCandidateOutOfRange = errors.New("candidate index out of range")
)
