package testcatalog

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/songsim/internal/adapters/catalog"
	"github.com/okian/songsim/internal/domain/model"
	"github.com/okian/songsim/pkg/logger"
)

const directoryPermission = 0o750

var (
	adjectives = []string{"Blue", "Electric", "Quiet", "Golden", "Broken", "Midnight", "Wild", "Hollow", "Neon", "Silver"}
	nouns      = []string{"River", "Engine", "Garden", "Signal", "Harbor", "Echo", "Fever", "Mirror", "Highway", "Orchard"}
	artists    = []string{"The Lanterns", "Nova Ray", "Kettle Drum", "Mara Vale", "Static Bloom", "Oak & Iron", "Juno Park", "Velvet Static"}
)

// Generate returns n well-formed songs. The same seed always yields the same
// catalog, track ids included.
func Generate(n int, seed int64) []model.Song {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible fixtures, not security
	songs := make([]model.Song, n)
	for i := range songs {
		songs[i] = generateSong(rng)
	}
	return songs
}

func generateSong(rng *rand.Rand) model.Song {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}
	genre := Genres[rng.Intn(len(Genres))]
	energy := rng.Float64()

	return model.Song{
		TrackID:          id.String(),
		TrackName:        adjectives[rng.Intn(len(adjectives))] + " " + nouns[rng.Intn(len(nouns))],
		ArtistName:       artists[rng.Intn(len(artists))],
		Genre:            genre,
		Popularity:       rng.Intn(model.MaxPopularity + 1),
		Year:             minYear + rng.Intn(maxYear-minYear+1),
		Danceability:     rng.Float64(),
		Energy:           energy,
		Key:              rng.Intn(model.MaxKey + 1),
		Loudness:         minLoudness + energy*(maxLoudness-minLoudness)*0.7 + rng.Float64()*(maxLoudness-minLoudness)*0.3,
		Mode:             rng.Intn(2),
		Speechiness:      rng.Float64() * 0.5,
		Acousticness:     (1 - energy) * rng.Float64(),
		Instrumentalness: rng.Float64(),
		Liveness:         rng.Float64() * 0.6,
		Valence:          rng.Float64(),
		Tempo:            minTempo + rng.Float64()*(maxTempo-minTempo),
		DurationMS:       minDurationMS + rng.Intn(maxDurationMS-minDurationMS),
		TimeSignature:    []int{3, 4, 4, 4, 5}[rng.Intn(5)],
	}
}

// WriteCatalog writes songs to path, choosing CSV or SQLite by extension.
func WriteCatalog(ctx context.Context, path, table string, songs []model.Song) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := catalog.WriteCSV(f, songs); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".db", ".sqlite", ".sqlite3":
		if err := catalog.WriteSQLite(ctx, path, table, songs); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", catalog.ErrUnsupportedFormat, path)
	}

	logger.Get().Info(ctx, "catalog written", logger.String("path", path), logger.Int("songs", len(songs)))
	return nil
}
