package cable

import (
	"fmt"
	"math"
)

// Matrix is a dense labelled float64 matrix: one row per skeleton, one
// column per volume. Rows and Cols are fixed at construction; values are
// row-major.
type Matrix struct {
	// Rows holds skeleton IDs in presentation order.
	Rows []string

	// Cols holds volume names in presentation order.
	Cols []string

	rowIdx map[string]int
	colIdx map[string]int
	data   []float64
}

// NewMatrix allocates a zero matrix with the given labels.
func NewMatrix(rows, cols []string) *Matrix {
	m := &Matrix{
		Rows:   append([]string(nil), rows...),
		Cols:   append([]string(nil), cols...),
		rowIdx: make(map[string]int, len(rows)),
		colIdx: make(map[string]int, len(cols)),
		data:   make([]float64, len(rows)*len(cols)),
	}
	for i, r := range m.Rows {
		m.rowIdx[r] = i
	}
	for j, c := range m.Cols {
		m.colIdx[c] = j
	}

	return m
}

// At returns the value at row i, column j. Panics on out-of-range access,
// matching slice semantics.
func (m *Matrix) At(i, j int) float64 { return m.data[i*len(m.Cols)+j] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.data[i*len(m.Cols)+j] = v }

// AtLabel returns the value addressed by labels.
func (m *Matrix) AtLabel(row, col string) (float64, error) {
	i, ok := m.rowIdx[row]
	if !ok {
		return 0, fmt.Errorf("%w: row %q", ErrLabelNotFound, row)
	}
	j, ok := m.colIdx[col]
	if !ok {
		return 0, fmt.Errorf("%w: column %q", ErrLabelNotFound, col)
	}

	return m.At(i, j), nil
}

// Row returns a copy of the values of one labelled row.
func (m *Matrix) Row(row string) ([]float64, error) {
	i, ok := m.rowIdx[row]
	if !ok {
		return nil, fmt.Errorf("%w: row %q", ErrLabelNotFound, row)
	}
	out := make([]float64, len(m.Cols))
	copy(out, m.data[i*len(m.Cols):(i+1)*len(m.Cols)])

	return out, nil
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	copy(out.data, m.data)

	return out
}

// AsMask returns a copy with every nonzero cell set to 1.
func (m *Matrix) AsMask() *Matrix {
	out := m.Clone()
	for i, v := range out.data {
		if v != 0 {
			out.data[i] = 1
		}
	}

	return out
}

// sameShape reports whether other carries identical labels in identical
// order.
func (m *Matrix) sameShape(other *Matrix) bool {
	if len(m.Rows) != len(other.Rows) || len(m.Cols) != len(other.Cols) {
		return false
	}
	for i, r := range m.Rows {
		if other.Rows[i] != r {
			return false
		}
	}
	for j, c := range m.Cols {
		if other.Cols[j] != c {
			return false
		}
	}

	return true
}

// applyMask zeroes cells whose mask entry is zero.
func (m *Matrix) applyMask(mask *Matrix) error {
	if !m.sameShape(mask) {
		return ErrShapeMismatch
	}
	for i := range m.data {
		if mask.data[i] == 0 {
			m.data[i] = 0
		}
	}

	return nil
}

// normaliseRows divides each row by its sum; zero-sum rows stay zero.
func (m *Matrix) normaliseRows() {
	nc := len(m.Cols)
	for i := range m.Rows {
		var sum float64
		for j := 0; j < nc; j++ {
			sum += m.At(i, j)
		}
		if sum == 0 || math.IsNaN(sum) {
			continue
		}
		for j := 0; j < nc; j++ {
			m.Set(i, j, m.At(i, j)/sum)
		}
	}
}

// scaleCols divides each column by the matching divisor.
func (m *Matrix) scaleCols(divisors []float64) {
	nc := len(m.Cols)
	for j := 0; j < nc; j++ {
		d := divisors[j]
		if d == 0 {
			continue
		}
		for i := range m.Rows {
			m.Set(i, j, m.At(i, j)/d)
		}
	}
}
