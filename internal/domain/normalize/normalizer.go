// Package normalize rescales feature columns to zero mean and unit variance.
//
// Statistics are computed once over the whole catalog. Normalize never
// mutates its input: it returns a new matrix alongside the statistics used.
package normalize

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/songsim/internal/domain/features"
)

// zeroVarianceEpsilon is the relative threshold below which a column's
// standard deviation is treated as zero.
const zeroVarianceEpsilon = 1e-9

// Stats holds per-column statistics.
type Stats struct {
	Mean   []float64
	StdDev []float64
	// ZeroVariance lists columns that were constant across the catalog.
	ZeroVariance []int
}

// Scale z-scores v against column col. Zero-variance columns yield 0.
func (s Stats) Scale(col int, v float64) float64 {
	if s.isZeroVariance(col) {
		return 0
	}
	return (v - s.Mean[col]) / s.StdDev[col]
}

func (s Stats) isZeroVariance(col int) bool {
	for _, c := range s.ZeroVariance {
		if c == col {
			return true
		}
	}
	return false
}

// Normalizer computes z-score statistics and applies them.
type Normalizer struct {
	policy      Policy
	columnNames []string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{policy: PolicyZero}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Policy returns the configured zero-variance policy.
func (n *Normalizer) Policy() Policy {
	return n.policy
}

// Fit computes the mean and population standard deviation (divisor N) of
// every column.
func (n *Normalizer) Fit(m *features.Matrix) (Stats, error) {
	rows, cols := m.Rows(), m.Cols()
	if rows == 0 {
		return Stats{}, ErrEmptyMatrix
	}

	st := Stats{
		Mean:   make([]float64, cols),
		StdDev: make([]float64, cols),
	}
	for j := 0; j < cols; j++ {
		col := m.Column(j)

		var sum float64
		for _, v := range col {
			sum += v
		}
		mean := sum / float64(rows)

		var sq float64
		for _, v := range col {
			d := v - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(rows))

		if math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(std) || math.IsInf(std, 0) {
			return Stats{}, fmt.Errorf("%w: column %s", ErrNonFinite, n.columnName(j))
		}

		st.Mean[j] = mean
		st.StdDev[j] = std
		if std <= zeroVarianceEpsilon*math.Max(1, math.Abs(mean)) {
			if n.policy == PolicyFail {
				return Stats{}, fmt.Errorf("%w: column %s", ErrZeroVariance, n.columnName(j))
			}
			st.ZeroVariance = append(st.ZeroVariance, j)
		}
	}
	return st, nil
}

// Normalize fits statistics on m and returns the rescaled copy.
func (n *Normalizer) Normalize(m *features.Matrix) (*features.Matrix, Stats, error) {
	st, err := n.Fit(m)
	if err != nil {
		return nil, Stats{}, err
	}
	out := m.Map(func(_, col int, v float64) float64 {
		return st.Scale(col, v)
	})
	return out, st, nil
}

func (n *Normalizer) columnName(j int) string {
	if j < len(n.columnNames) && n.columnNames[j] != "" {
		return n.columnNames[j]
	}
	return strconv.Itoa(j)
}
