package filter_test

import (
	"errors"
	"testing"

	"github.com/okian/songsim/internal/domain/filter"
	"github.com/okian/songsim/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func catalog() []model.Song {
	return []model.Song{
		{TrackID: "1", TrackName: "A", Genre: "rock", Popularity: 40},
		{TrackID: "2", TrackName: "B", Genre: "pop", Popularity: 60},
		{TrackID: "3", TrackName: "C", Genre: "rock", Popularity: 70},
	}
}

func TestBuildCandidates(t *testing.T) {
	Convey("Given three songs with popularity [40,60,70] and genres [rock,pop,rock]", t, func() {
		songs := catalog()

		Convey("When no filter is applied", func() {
			got, err := filter.BuildCandidates(songs, filter.Criteria{}, 0)

			Convey("Then every other index is returned in order", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []int{1, 2})
			})
		})

		Convey("When filtering for popular songs", func() {
			got, err := filter.BuildCandidates(songs, filter.Criteria{Popularity: filter.Popular}, 0)

			Convey("Then both other songs qualify", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []int{1, 2})
			})
		})

		Convey("When filtering for a different genre", func() {
			got, err := filter.BuildCandidates(songs, filter.Criteria{Genre: filter.DifferentGenre}, 0)

			Convey("Then only the pop song qualifies", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []int{1})
			})
		})

		Convey("When filtering for the same genre", func() {
			got, _ := filter.BuildCandidates(songs, filter.Criteria{Genre: filter.SameGenre}, 0)

			Convey("Then only the other rock song qualifies", func() {
				So(got, ShouldResemble, []int{2})
			})
		})

		Convey("When filtering for underground songs", func() {
			got, _ := filter.BuildCandidates(songs, filter.Criteria{Popularity: filter.Underground}, 2)

			Convey("Then only songs below the threshold qualify", func() {
				So(got, ShouldResemble, []int{0})
			})
		})

		Convey("When both filters exclude everything", func() {
			got, err := filter.BuildCandidates(songs, filter.Criteria{Popularity: filter.Underground, Genre: filter.DifferentGenre}, 0)

			Convey("Then the result is empty and not an error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When querying any index", func() {
			Convey("Then the query never appears in its candidates", func() {
				for q := range songs {
					got, err := filter.BuildCandidates(songs, filter.Criteria{}, q)
					So(err, ShouldBeNil)
					So(got, ShouldNotContain, q)
					So(len(got), ShouldEqual, len(songs)-1)
				}
			})
		})

		Convey("When the query index is out of range", func() {
			_, err := filter.BuildCandidates(songs, filter.Criteria{}, 3)

			Convey("Then it returns ErrQueryOutOfRange", func() {
				So(errors.Is(err, filter.ErrQueryOutOfRange), ShouldBeTrue)
			})
		})
	})
}

func TestPopularity_Allows(t *testing.T) {
	Convey("Given the popularity threshold", t, func() {
		Convey("Then 49 is underground and 50 is popular", func() {
			So(filter.Underground.Allows(49), ShouldBeTrue)
			So(filter.Underground.Allows(50), ShouldBeFalse)
			So(filter.Popular.Allows(50), ShouldBeTrue)
			So(filter.Popular.Allows(49), ShouldBeFalse)
			So(filter.PopularityAny.Allows(0), ShouldBeTrue)
		})
	})
}

func TestParseFilters(t *testing.T) {
	Convey("Given filter tokens", t, func() {
		Convey("Then popularity tokens parse case-insensitively", func() {
			for token, want := range map[string]filter.Popularity{
				"":            filter.PopularityAny,
				"none":        filter.PopularityAny,
				"U":           filter.Underground,
				"underground": filter.Underground,
				"p":           filter.Popular,
				" Popular ":   filter.Popular,
			} {
				got, err := filter.ParsePopularity(token)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then genre tokens parse case-insensitively", func() {
			for token, want := range map[string]filter.Genre{
				"":          filter.GenreAny,
				"NONE":      filter.GenreAny,
				"same":      filter.SameGenre,
				"Different": filter.DifferentGenre,
			} {
				got, err := filter.ParseGenre(token)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then unknown tokens are rejected", func() {
			_, err := filter.ParsePopularity("famous")
			So(errors.Is(err, filter.ErrUnknownFilter), ShouldBeTrue)
			_, err = filter.ParseGenre("similar")
			So(errors.Is(err, filter.ErrUnknownFilter), ShouldBeTrue)
		})

		Convey("Then String round-trips through Parse", func() {
			for _, p := range []filter.Popularity{filter.PopularityAny, filter.Underground, filter.Popular} {
				got, err := filter.ParsePopularity(p.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, p)
			}
			for _, g := range []filter.Genre{filter.GenreAny, filter.SameGenre, filter.DifferentGenre} {
				got, err := filter.ParseGenre(g.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, g)
			}
		})
	})
}
