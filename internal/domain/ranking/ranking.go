// Package ranking orders candidates by Euclidean distance to a query row.
//
// Search is exact and brute force over the candidate set.
package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/okian/songsim/internal/domain/features"
)

// Result pairs a candidate's catalog index with its distance to the query.
type Result struct {
	Distance float64
	Index    int
}

// Distances computes the distance from the query row to each candidate row,
// in candidate order.
func Distances(query int, candidates []int, m *features.Matrix) ([]Result, error) {
	q, err := m.Row(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryOutOfRange, err)
	}

	out := make([]Result, 0, len(candidates))
	for _, idx := range candidates {
		row, err := m.Row(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCandidateOutOfRange, err)
		}
		out = append(out, Result{Distance: Euclidean(q, row), Index: idx})
	}
	return out, nil
}

// Rank returns the k nearest candidates in ascending distance. Equal
// distances keep their candidate order. Fewer than k results are returned
// when there are fewer candidates; k <= 0 yields none.
func Rank(query int, candidates []int, m *features.Matrix, k int) ([]Result, error) {
	results, err := Distances(query, candidates, m)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	k = max(k, 0)
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Euclidean returns the L2 distance between two equal-length vectors.
func Euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
