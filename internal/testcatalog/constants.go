package testcatalog

// Genres used by the generator.
var Genres = []string{
	"rock", "pop", "jazz", "hip-hop", "classical", "electronic", "folk", "metal",
}

// Feature ranges for generated songs.
const (
	minYear       = 1950
	maxYear       = 2024
	minLoudness   = -35.0
	maxLoudness   = -1.0
	minTempo      = 30.0 // below the vectorizer clamp on purpose
	maxTempo      = 230.0
	minDurationMS = 60_000
	maxDurationMS = 600_000
)

// Runner configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
	progressEvery           = 500
)
