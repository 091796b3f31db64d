package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/songsim/internal/domain/model"
	"github.com/okian/songsim/pkg/logger"
)

// CSVSource loads a catalog from a CSV file with a header row.
type CSVSource struct {
	path     string
	settings settings
}

// NewCSVSource returns a Source reading path.
func NewCSVSource(path string, opts ...Option) *CSVSource {
	return &CSVSource{path: path, settings: newSettings(opts)}
}

// Load reads the whole file. Columns are addressed by header name and extra
// columns are ignored.
func (s *CSVSource) Load(ctx context.Context) ([]model.Song, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenCatalog, err)
	}
	defer func() { _ = f.Close() }()

	songs, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if l := s.settings.logger; l != nil {
		l.Debug(ctx, "catalog loaded", logger.String("path", s.path), logger.Int("songs", len(songs)))
	}
	return songs, nil
}

// ReadCSV decodes a catalog from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Song, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRecord, err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var songs []model.Song
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		song, err := decodeRecord(func(col string) string { return record[index[col]] })
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return index, nil
}

// fieldParser accumulates the first parse failure so a record can be decoded
// in one pass.
type fieldParser struct {
	get func(col string) string
	err error
}

func (p *fieldParser) str(col string) string {
	return strings.TrimSpace(p.get(col))
}

func (p *fieldParser) integer(col string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.str(col))
	if err != nil {
		p.err = fmt.Errorf("%w: column %q: %w", ErrMalformedRecord, col, err)
	}
	return v
}

func (p *fieldParser) number(col string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.str(col), 64)
	if err != nil {
		p.err = fmt.Errorf("%w: column %q: %w", ErrMalformedRecord, col, err)
	}
	return v
}

// decodeRecord builds a Song from column lookups and validates it.
func decodeRecord(get func(col string) string) (model.Song, error) {
	p := &fieldParser{get: get}
	song := model.Song{
		TrackID:          p.str(ColTrackID),
		TrackName:        p.str(ColTrackName),
		ArtistName:       p.str(ColArtistName),
		Genre:            p.str(ColGenre),
		Popularity:       p.integer(ColPopularity),
		Year:             p.integer(ColYear),
		Danceability:     p.number(ColDanceability),
		Energy:           p.number(ColEnergy),
		Key:              p.integer(ColKey),
		Loudness:         p.number(ColLoudness),
		Mode:             p.integer(ColMode),
		Speechiness:      p.number(ColSpeechiness),
		Acousticness:     p.number(ColAcousticness),
		Instrumentalness: p.number(ColInstrumentalness),
		Liveness:         p.number(ColLiveness),
		Valence:          p.number(ColValence),
		Tempo:            p.number(ColTempo),
		DurationMS:       p.integer(ColDurationMS),
		TimeSignature:    p.integer(ColTimeSignature),
	}
	if p.err != nil {
		return model.Song{}, p.err
	}
	if err := song.Validate(); err != nil {
		return model.Song{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return song, nil
}

// WriteCSV writes songs with a header row in Columns order.
func WriteCSV(w io.Writer, songs []model.Song) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, s := range songs {
		if err := cw.Write(encodeRecord(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRecord(s model.Song) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		s.ArtistName,
		s.TrackName,
		s.TrackID,
		strconv.Itoa(s.Popularity),
		strconv.Itoa(s.Year),
		s.Genre,
		f(s.Danceability),
		f(s.Energy),
		strconv.Itoa(s.Key),
		f(s.Loudness),
		strconv.Itoa(s.Mode),
		f(s.Speechiness),
		f(s.Acousticness),
		f(s.Instrumentalness),
		f(s.Liveness),
		f(s.Valence),
		f(s.Tempo),
		strconv.Itoa(s.DurationMS),
		strconv.Itoa(s.TimeSignature),
	}
}
