package service

import "errors"

// Sentinel errors returned by Service. Callers match them with errors.Is.
var (
	ErrInvalidK     = errors.New("invalid recommendation count")
	ErrSongNotFound = errors.New("song not found")
	ErrNotLoaded    = errors.New("catalog not loaded")
	ErrNoSource     = errors.New("no catalog source configured")
)
