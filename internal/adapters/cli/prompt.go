// Package cli holds the interactive console adapter: prompting for query
// parameters and rendering recommendation results.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/okian/songsim/internal/domain/filter"
)

// Prompter asks the user for each query parameter. Implementations re-ask
// until the answer is valid.
type Prompter interface {
	AskSong(exists func(ident string) error) (string, error)
	AskK(maxK, defaultK int) (int, error)
	AskPopularity() (filter.Popularity, error)
	AskGenre() (filter.Genre, error)
}

// Input is what the command line supplied. Zero values mean "not given".
type Input struct {
	Song       string
	K          int
	Popularity string
	Genre      string
}

// Query is a fully resolved recommendation request.
type Query struct {
	Song    string
	K       int
	Filters filter.Criteria
}

// Resolve fills in everything in missing from in. With a prompter, missing
// values are asked for; without one, K falls back to defaultK and the
// filters to none, and a missing song is an error.
func Resolve(in Input, p Prompter, exists func(string) error, maxK, defaultK int) (Query, error) {
	var q Query
	var err error

	q.Song = strings.TrimSpace(in.Song)
	if q.Song == "" {
		if p == nil {
			return Query{}, ErrMissingSong
		}
		if q.Song, err = p.AskSong(exists); err != nil {
			return Query{}, err
		}
	}

	q.K = in.K
	if q.K == 0 {
		if p == nil {
			q.K = defaultK
		} else if q.K, err = p.AskK(maxK, defaultK); err != nil {
			return Query{}, err
		}
	}

	if in.Popularity != "" || p == nil {
		if q.Filters.Popularity, err = filter.ParsePopularity(in.Popularity); err != nil {
			return Query{}, err
		}
	} else if q.Filters.Popularity, err = p.AskPopularity(); err != nil {
		return Query{}, err
	}

	if in.Genre != "" || p == nil {
		if q.Filters.Genre, err = filter.ParseGenre(in.Genre); err != nil {
			return Query{}, err
		}
	} else if q.Filters.Genre, err = p.AskGenre(); err != nil {
		return Query{}, err
	}

	return q, nil
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter returns a terminal prompter. opts are passed to every
// survey.AskOne call.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (s *SurveyPrompter) ask(p survey.Prompt, out interface{}, v survey.Validator) error {
	opts := s.opts
	if v != nil {
		opts = append(append([]survey.AskOpt{}, opts...), survey.WithValidator(v))
	}
	return survey.AskOne(p, out, opts...)
}

// AskSong asks for a track id or name until exists accepts it.
func (s *SurveyPrompter) AskSong(exists func(string) error) (string, error) {
	var ident string
	prompt := &survey.Input{
		Message: "Song (track id or name):",
	}
	err := s.ask(prompt, &ident, func(ans interface{}) error {
		str, _ := ans.(string)
		if strings.TrimSpace(str) == "" {
			return errors.New("a song is required")
		}
		if exists == nil {
			return nil
		}
		return exists(str)
	})
	return strings.TrimSpace(ident), err
}

// AskK asks for the number of recommendations in [1, maxK].
func (s *SurveyPrompter) AskK(maxK, defaultK int) (int, error) {
	var raw string
	prompt := &survey.Input{
		Message: fmt.Sprintf("How many recommendations (1-%d)?", maxK),
		Default: strconv.Itoa(defaultK),
	}
	err := s.ask(prompt, &raw, func(ans interface{}) error {
		str, _ := ans.(string)
		_, err := ParseK(str, maxK)
		return err
	})
	if err != nil {
		return 0, err
	}
	return ParseK(raw, maxK)
}

// Option labels for the filter prompts.
const (
	popularityNone        = "No popularity filter"
	popularityUnderground = "Underground (popularity < 50)"
	popularityPopular     = "Popular (popularity >= 50)"

	genreNone      = "Any genre"
	genreSame      = "Same genre"
	genreDifferent = "Different genre"
)

// AskPopularity asks which popularity band to keep.
func (s *SurveyPrompter) AskPopularity() (filter.Popularity, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Filter by popularity?",
		Options: []string{popularityNone, popularityUnderground, popularityPopular},
		Default: popularityNone,
	}
	if err := s.ask(prompt, &choice, nil); err != nil {
		return filter.PopularityAny, err
	}

	switch choice {
	case popularityUnderground:
		return filter.Underground, nil
	case popularityPopular:
		return filter.Popular, nil
	default:
		return filter.PopularityAny, nil
	}
}

// AskGenre asks how candidate genres relate to the query song.
func (s *SurveyPrompter) AskGenre() (filter.Genre, error) {
	var choice string
	prompt := &survey.Select{
		Message: "Filter by genre?",
		Options: []string{genreNone, genreSame, genreDifferent},
		Default: genreNone,
	}
	if err := s.ask(prompt, &choice, nil); err != nil {
		return filter.GenreAny, err
	}

	switch choice {
	case genreSame:
		return filter.SameGenre, nil
	case genreDifferent:
		return filter.DifferentGenre, nil
	default:
		return filter.GenreAny, nil
	}
}

// ParseK parses a recommendation count and checks it is in [1, maxK].
func ParseK(s string, maxK int) (int, error) {
	k, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a whole number between 1 and %d", maxK)
	}
	if k < 1 || k > maxK {
		return 0, fmt.Errorf("enter a whole number between 1 and %d", maxK)
	}
	return k, nil
}
