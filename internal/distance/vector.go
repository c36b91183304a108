package distance

import (
	"math"

	"github.com/rotisserie/eris"
)

// Vector is a per-site or per-event input column. A length-1 vector is
// broadcast across its whole axis.
type Vector []float64

// Scalar returns a length-1 vector that broadcasts v.
func Scalar(v float64) Vector { return Vector{v} }

// At returns element i, broadcasting length-1 vectors.
func (v Vector) At(i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

// Fits reports whether v can be broadcast to an axis of length n.
func (v Vector) Fits(n int) bool {
	return len(v) == n || len(v) == 1
}

func (v Vector) finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// column pairs an input vector with its field name for error reporting.
type column struct {
	name string
	v    Vector
}

// axisLength returns the broadcast length of a set of columns: the longest
// column, provided every other column is length 1 or the same.
func axisLength(axis string, cols ...column) (int, error) {
	n := longest(cols)
	for _, c := range cols {
		if !c.v.Fits(n) {
			return 0, eris.Wrapf(ErrShape, "%s field %s has length %d, want 1 or %d", axis, c.name, len(c.v), n)
		}
	}
	return n, nil
}

func longest(cols []column) int {
	n := 0
	for _, c := range cols {
		n = max(n, len(c.v))
	}
	return n
}

// Matrix is a dense row-major sites x events matrix of distances in km.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// Set stores entry (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

// Row returns site i's distances. The slice aliases the matrix.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// col returns a copy of event j's distances.
func (m *Matrix) col(j int) []float64 {
	out := make([]float64, m.Rows)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}

// Min returns the smallest entry, or +Inf for an empty matrix.
func (m *Matrix) Min() float64 {
	lo := math.Inf(1)
	for _, v := range m.Data {
		if v < lo {
			lo = v
		}
	}
	return lo
}

// ToRows copies the matrix into a slice of rows.
func (m *Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}
