package ranking_test

import (
	"errors"
	"testing"

	"github.com/okian/songsim/internal/domain/features"
	"github.com/okian/songsim/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func mustMatrix(rows [][]float64) *features.Matrix {
	m, err := features.NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

func TestDistances(t *testing.T) {
	Convey("Given rows [[0,0],[3,4],[6,8]]", t, func() {
		m := mustMatrix([][]float64{{0, 0}, {3, 4}, {6, 8}})

		Convey("When computing distances from row 0 to candidates [1,2]", func() {
			got, err := ranking.Distances(0, []int{1, 2}, m)

			Convey("Then the distances are 5 and 10 in candidate order", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].Index, ShouldEqual, 1)
				So(got[0].Distance, ShouldAlmostEqual, 5.0, tolerance)
				So(got[1].Index, ShouldEqual, 2)
				So(got[1].Distance, ShouldAlmostEqual, 10.0, tolerance)
			})
		})

		Convey("When the query is out of range", func() {
			_, err := ranking.Distances(5, []int{1}, m)

			Convey("Then it returns ErrQueryOutOfRange", func() {
				So(errors.Is(err, ranking.ErrQueryOutOfRange), ShouldBeTrue)
				So(errors.Is(err, features.ErrRowOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When a candidate is out of range", func() {
			_, err := ranking.Distances(0, []int{1, -1}, m)

			Convey("Then it returns ErrCandidateOutOfRange", func() {
				So(errors.Is(err, ranking.ErrCandidateOutOfRange), ShouldBeTrue)
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given a matrix with unordered and tied distances", t, func() {
		m := mustMatrix([][]float64{
			{0, 0}, // query
			{6, 8}, // 10
			{3, 4}, // 5
			{0, 5}, // 5, tie with row 2
			{1, 0}, // 1
			{4, 3}, // 5, tie with rows 2 and 3
		})
		candidates := []int{1, 2, 3, 4, 5}

		Convey("When ranking all candidates", func() {
			got, err := ranking.Rank(0, candidates, m, 10)

			Convey("Then results ascend by distance and ties keep candidate order", func() {
				So(err, ShouldBeNil)
				idx := make([]int, len(got))
				for i, r := range got {
					idx[i] = r.Index
				}
				So(idx, ShouldResemble, []int{4, 2, 3, 5, 1})
			})
		})

		Convey("When the candidate order differs", func() {
			got, err := ranking.Rank(0, []int{5, 3, 2}, m, 3)

			Convey("Then tied entries follow that order", func() {
				So(err, ShouldBeNil)
				So([]int{got[0].Index, got[1].Index, got[2].Index}, ShouldResemble, []int{5, 3, 2})
			})
		})

		Convey("When k is smaller than the candidate count", func() {
			got, err := ranking.Rank(0, candidates, m, 2)

			Convey("Then truncation happens after sorting", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].Index, ShouldEqual, 4)
				So(got[1].Index, ShouldEqual, 2)
			})
		})

		Convey("When k exceeds the candidate count", func() {
			got, err := ranking.Rank(0, candidates, m, 20)

			Convey("Then exactly len(candidates) results are returned", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, len(candidates))
			})
		})

		Convey("When ranking the same input twice", func() {
			a, errA := ranking.Rank(0, candidates, m, 3)
			b, errB := ranking.Rank(0, candidates, m, 3)

			Convey("Then the output is identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the candidate set is empty", func() {
			got, err := ranking.Rank(0, nil, m, 5)

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When k is zero", func() {
			got, err := ranking.Rank(0, candidates, m, 0)

			Convey("Then nothing is returned", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When ranking does not modify the candidate slice", func() {
			in := []int{1, 2, 3}
			_, err := ranking.Rank(0, in, m, 3)

			Convey("Then the caller's candidates keep their order", func() {
				So(err, ShouldBeNil)
				So(in, ShouldResemble, []int{1, 2, 3})
			})
		})
	})
}

func TestEuclidean(t *testing.T) {
	Convey("Given two vectors", t, func() {
		Convey("Then the distance is symmetric and zero to itself", func() {
			a := []float64{1, 2, 3}
			b := []float64{4, 6, 3}
			So(ranking.Euclidean(a, b), ShouldAlmostEqual, 5.0, tolerance)
			So(ranking.Euclidean(b, a), ShouldAlmostEqual, 5.0, tolerance)
			So(ranking.Euclidean(a, a), ShouldEqual, 0)
		})
	})
}
