package testcatalog

import (
	"errors"
	"fmt"

	"github.com/okian/songsim/internal/domain/filter"
	"github.com/okian/songsim/internal/domain/types"
)

// ErrInvalidResponse marks a response that breaks a ranking guarantee.
var ErrInvalidResponse = errors.New("invalid recommendation response")

// VerifyResponse checks the guarantees every recommendation response makes:
// at most k results, consecutive ranks, non-decreasing distances, the query
// song excluded, and both filters honored.
func VerifyResponse(q Query, resp types.RecommendResponse) error {
	if len(resp.Results) > q.K {
		return fmt.Errorf("%w: %d results for k=%d", ErrInvalidResponse, len(resp.Results), q.K)
	}

	popularity, err := filter.ParsePopularity(q.Popularity)
	if err != nil {
		return err
	}
	genre, err := filter.ParseGenre(q.Genre)
	if err != nil {
		return err
	}

	for i, r := range resp.Results {
		switch {
		case r.Rank != i+1:
			return fmt.Errorf("%w: result %d has rank %d", ErrInvalidResponse, i, r.Rank)
		case i > 0 && r.Distance < resp.Results[i-1].Distance:
			return fmt.Errorf("%w: distance decreases at rank %d", ErrInvalidResponse, r.Rank)
		case r.TrackID == resp.Query.TrackID:
			return fmt.Errorf("%w: query song returned at rank %d", ErrInvalidResponse, r.Rank)
		case !popularity.Allows(r.Popularity):
			return fmt.Errorf("%w: popularity %d fails %s filter", ErrInvalidResponse, r.Popularity, popularity)
		case !genre.Allows(r.Genre, resp.Query.Genre):
			return fmt.Errorf("%w: genre %q fails %s filter", ErrInvalidResponse, r.Genre, genre)
		}
	}
	return nil
}
