// Package types contains common types used across the application
package types

// Recommendation is one ranked result as shown to callers.
type Recommendation struct {
	Rank       int     `json:"rank" yaml:"rank"`
	TrackID    string  `json:"track_id" yaml:"track_id"`
	TrackName  string  `json:"track_name" yaml:"track_name"`
	ArtistName string  `json:"artist_name" yaml:"artist_name"`
	Genre      string  `json:"genre" yaml:"genre"`
	Popularity int     `json:"popularity" yaml:"popularity"`
	Distance   float64 `json:"distance" yaml:"distance"`
}

// SongSummary identifies the query song in responses.
type SongSummary struct {
	Index      int    `json:"index" yaml:"index"`
	TrackID    string `json:"track_id" yaml:"track_id"`
	TrackName  string `json:"track_name" yaml:"track_name"`
	ArtistName string `json:"artist_name" yaml:"artist_name"`
	Genre      string `json:"genre" yaml:"genre"`
	Popularity int    `json:"popularity" yaml:"popularity"`
}

// RecommendResponse bundles the query song with its recommendations.
type RecommendResponse struct {
	Query   SongSummary      `json:"query" yaml:"query"`
	Results []Recommendation `json:"results" yaml:"results"`
}
