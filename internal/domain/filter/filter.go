// Package filter selects the catalog entries eligible for ranking against a
// query song.
package filter

import (
	"fmt"
	"strings"

	"github.com/okian/songsim/internal/domain/model"
)

// PopularityThreshold splits underground from popular songs.
const PopularityThreshold = 50

// Popularity restricts candidates by popularity.
type Popularity int

const (
	PopularityAny Popularity = iota
	Underground              // popularity < 50
	Popular                  // popularity >= 50
)

// Allows reports whether a song with the given popularity passes p.
func (p Popularity) Allows(popularity int) bool {
	switch p {
	case PopularityAny:
		return true
	case Underground:
		return popularity < PopularityThreshold
	case Popular:
		return popularity >= PopularityThreshold
	default:
		panic(fmt.Sprintf("filter: unhandled popularity filter %d", int(p)))
	}
}

func (p Popularity) String() string {
	switch p {
	case PopularityAny:
		return "none"
	case Underground:
		return "underground"
	case Popular:
		return "popular"
	default:
		return fmt.Sprintf("popularity(%d)", int(p))
	}
}

// ParsePopularity accepts none/any/"", u/underground and p/popular.
func ParsePopularity(s string) (Popularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any":
		return PopularityAny, nil
	case "u", "underground":
		return Underground, nil
	case "p", "popular":
		return Popular, nil
	default:
		return PopularityAny, fmt.Errorf("%w: popularity %q", ErrUnknownFilter, s)
	}
}

// Genre restricts candidates relative to the query song's genre.
type Genre int

const (
	GenreAny Genre = iota
	SameGenre
	DifferentGenre
)

// Allows reports whether a candidate genre passes g for the query genre.
func (g Genre) Allows(candidate, query string) bool {
	switch g {
	case GenreAny:
		return true
	case SameGenre:
		return candidate == query
	case DifferentGenre:
		return candidate != query
	default:
		panic(fmt.Sprintf("filter: unhandled genre filter %d", int(g)))
	}
}

func (g Genre) String() string {
	switch g {
	case GenreAny:
		return "none"
	case SameGenre:
		return "same"
	case DifferentGenre:
		return "different"
	default:
		return fmt.Sprintf("genre(%d)", int(g))
	}
}

// ParseGenre accepts none/any/"", same and different.
func ParseGenre(s string) (Genre, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any":
		return GenreAny, nil
	case "same":
		return SameGenre, nil
	case "different":
		return DifferentGenre, nil
	default:
		return GenreAny, fmt.Errorf("%w: genre %q", ErrUnknownFilter, s)
	}
}

// Criteria combines both filter axes. The zero value admits every song.
type Criteria struct {
	Popularity Popularity
	Genre      Genre
}

// BuildCandidates returns, in catalog order, the indices of every song other
// than query that passes both filters.
func BuildCandidates(songs []model.Song, c Criteria, query int) ([]int, error) {
	if query < 0 || query >= len(songs) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrQueryOutOfRange, query, len(songs))
	}
	queryGenre := songs[query].Genre

	out := make([]int, 0, len(songs)-1)
	for i, s := range songs {
		if i == query {
			continue
		}
		if !c.Popularity.Allows(s.Popularity) {
			continue
		}
		if !c.Genre.Allows(s.Genre, queryGenre) {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}
