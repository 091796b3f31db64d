// Package features turns song records into fixed-length numeric vectors.
//
// Column order is a contract shared with the normalizer and the ranker:
// both operate positionally on the matrix produced here.
package features

import (
	"math"

	"github.com/okian/songsim/internal/domain/model"
)

// Dimensions is the length of every feature vector.
const Dimensions = 15

// Column positions within a feature vector.
const (
	ColAge = iota
	ColDanceability
	ColEnergy
	ColKeyCos
	ColKeySin
	ColLoudness
	ColMode
	ColSpeechiness
	ColAcousticness
	ColInstrumentalness
	ColLiveness
	ColValence
	ColTempo
	ColLogDuration
	ColTimeSignature
)

// ColumnNames labels each column, indexed by the Col* constants.
var ColumnNames = [Dimensions]string{
	"age",
	"danceability",
	"energy",
	"key_cos",
	"key_sin",
	"loudness",
	"mode",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
	"log_duration",
	"time_signature",
}

// Vectorizer defaults and bounds.
const (
	DefaultReferenceYear = 2025
	MinTempo             = 40.0
	MaxTempo             = 200.0
	pitchClasses         = 12
)

// Vector is one row of the feature matrix.
type Vector []float64

// Vectorizer maps song records to feature vectors.
type Vectorizer struct {
	referenceYear int
}

// NewVectorizer creates a vectorizer with configuration options.
func NewVectorizer(opts ...Option) *Vectorizer {
	v := &Vectorizer{
		referenceYear: DefaultReferenceYear,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ReferenceYear returns the year used for the age column.
func (v *Vectorizer) ReferenceYear() int {
	return v.referenceYear
}

// Vectorize converts a single record. It assumes the record passed
// model.Song.Validate.
func (v *Vectorizer) Vectorize(s model.Song) Vector {
	// Key is cyclic: 11 sits next to 0, so it is placed on the unit circle.
	theta := 2 * math.Pi * float64(s.Key) / pitchClasses

	out := make(Vector, Dimensions)
	out[ColAge] = float64(v.referenceYear - s.Year)
	out[ColDanceability] = s.Danceability
	out[ColEnergy] = s.Energy
	out[ColKeyCos] = math.Cos(theta)
	out[ColKeySin] = math.Sin(theta)
	out[ColLoudness] = s.Loudness
	out[ColMode] = float64(s.Mode)
	out[ColSpeechiness] = s.Speechiness
	out[ColAcousticness] = s.Acousticness
	out[ColInstrumentalness] = s.Instrumentalness
	out[ColLiveness] = s.Liveness
	out[ColValence] = s.Valence
	out[ColTempo] = ClampTempo(s.Tempo)
	out[ColLogDuration] = math.Log(float64(s.DurationMS))
	out[ColTimeSignature] = float64(s.TimeSignature)
	return out
}

// Matrix vectorizes every record, preserving record order.
func (v *Vectorizer) Matrix(songs []model.Song) *Matrix {
	m := &Matrix{
		rows: len(songs),
		cols: Dimensions,
		data: make([]float64, 0, len(songs)*Dimensions),
	}
	for _, s := range songs {
		m.data = append(m.data, v.Vectorize(s)...)
	}
	return m
}

// ClampTempo bounds a detected tempo to [MinTempo, MaxTempo].
func ClampTempo(bpm float64) float64 {
	return math.Max(MinTempo, math.Min(MaxTempo, bpm))
}
