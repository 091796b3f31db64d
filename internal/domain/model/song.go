// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Valid ranges for record fields.
const (
	MinPopularity = 0
	MaxPopularity = 100
	MinKey        = 0
	MaxKey        = 11
)

// ErrInvalidSong is returned by Validate for records that are not well formed.
var ErrInvalidSong = errors.New("invalid song record")

// Song is one catalog entry. Fields mirror the catalog columns.
type Song struct {
	TrackID    string // unique track identifier
	TrackName  string
	ArtistName string

	Genre      string
	Popularity int // 0-100
	Year       int

	Danceability     float64 // 0-1
	Energy           float64 // 0-1
	Key              int     // pitch class, 0-11
	Loudness         float64 // dB, usually negative
	Mode             int     // 0 minor, 1 major
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64 // BPM
	DurationMS       int
	TimeSignature    int
}

// Validate reports whether s is complete and within the ranges the feature
// pipeline relies on.
func (s Song) Validate() error {
	switch {
	case strings.TrimSpace(s.TrackID) == "":
		return fmt.Errorf("%w: missing track_id", ErrInvalidSong)
	case s.Popularity < MinPopularity || s.Popularity > MaxPopularity:
		return fmt.Errorf("%w: popularity %d out of range", ErrInvalidSong, s.Popularity)
	case s.Key < MinKey || s.Key > MaxKey:
		return fmt.Errorf("%w: key %d out of range", ErrInvalidSong, s.Key)
	case s.Mode != 0 && s.Mode != 1:
		return fmt.Errorf("%w: mode %d must be 0 or 1", ErrInvalidSong, s.Mode)
	case s.DurationMS <= 0:
		return fmt.Errorf("%w: duration_ms %d must be positive", ErrInvalidSong, s.DurationMS)
	}

	floats := []struct {
		name string
		v    float64
	}{
		{"danceability", s.Danceability},
		{"energy", s.Energy},
		{"loudness", s.Loudness},
		{"speechiness", s.Speechiness},
		{"acousticness", s.Acousticness},
		{"instrumentalness", s.Instrumentalness},
		{"liveness", s.Liveness},
		{"valence", s.Valence},
		{"tempo", s.Tempo},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSong, f.name)
		}
	}
	return nil
}

// MatchesIdentifier reports whether ident equals the track id or the track
// name, ignoring case.
func (s Song) MatchesIdentifier(ident string) bool {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return false
	}
	return strings.EqualFold(s.TrackID, ident) || strings.EqualFold(s.TrackName, ident)
}
