package features

import "fmt"

// Matrix is a dense row-major matrix. It is immutable once built; every
// transformation returns a new Matrix.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix copies rows into a new Matrix. All rows must have equal length.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	m := &Matrix{rows: len(rows)}
	if len(rows) == 0 {
		return m, nil
	}
	m.cols = len(rows[0])
	m.data = make([]float64, 0, len(rows)*m.cols)
	for i, r := range rows {
		if len(r) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, i, len(r), m.cols)
		}
		m.data = append(m.data, r...)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Row returns a view of row i. Callers must not modify it.
func (m *Matrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrRowOutOfRange, i, m.rows)
	}
	start := i * m.cols
	return m.data[start : start+m.cols : start+m.cols], nil
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// Map returns a new Matrix with fn applied to every cell.
func (m *Matrix) Map(fn func(row, col int, v float64) float64) *Matrix {
	out := &Matrix{
		rows: m.rows,
		cols: m.cols,
		data: make([]float64, len(m.data)),
	}
	for idx, v := range m.data {
		out.data[idx] = fn(idx/m.cols, idx%m.cols, v)
	}
	return out
}
