// Package catalog reads and writes song catalogs.
//
// A catalog is a sequence of song records addressed by column name. Sources
// reject malformed rows before anything downstream sees them, so every song
// returned by Load has passed model.Song.Validate.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/songsim/internal/domain/model"
)

// Source produces the catalog in a stable order.
type Source interface {
	Load(ctx context.Context) ([]model.Song, error)
}

// Column names shared by every catalog format.
const (
	ColArtistName       = "artist_name"
	ColTrackName        = "track_name"
	ColTrackID          = "track_id"
	ColPopularity       = "popularity"
	ColYear             = "year"
	ColGenre            = "genre"
	ColDanceability     = "danceability"
	ColEnergy           = "energy"
	ColKey              = "key"
	ColLoudness         = "loudness"
	ColMode             = "mode"
	ColSpeechiness      = "speechiness"
	ColAcousticness     = "acousticness"
	ColInstrumentalness = "instrumentalness"
	ColLiveness         = "liveness"
	ColValence          = "valence"
	ColTempo            = "tempo"
	ColDurationMS       = "duration_ms"
	ColTimeSignature    = "time_signature"
)

// Columns lists the required columns in the order WriteCSV emits them.
var Columns = []string{
	ColArtistName, ColTrackName, ColTrackID, ColPopularity, ColYear, ColGenre,
	ColDanceability, ColEnergy, ColKey, ColLoudness, ColMode, ColSpeechiness,
	ColAcousticness, ColInstrumentalness, ColLiveness, ColValence, ColTempo,
	ColDurationMS, ColTimeSignature,
}

// NewSource picks a Source from the file extension of path.
func NewSource(path string, opts ...Option) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSource(path, opts...), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSource(path, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}
