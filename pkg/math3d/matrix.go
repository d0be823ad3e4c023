// Package math3d provides the generic matrix and vector algebra used by
// tinyrender.
//
// A Matrix carries its shape in its type: the row and column extents are
// dimension types (D1 through D4, or any type implementing Dim). Adding a
// 2x3 matrix to a 3x2 one, or multiplying matrices whose inner dimensions
// differ, does not compile. Only constructors that take slices check their
// input at run time and report ErrDimensionMismatch.
package math3d

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number is the set of element types a Matrix can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Float is the set of element types that support Dot, Cross, Magnitude
// and Normalize.
type Float interface {
	constraints.Float
}

// Dim is a dimension type. Its zero value reports the extent it stands for.
type Dim interface {
	Len() int
}

// Dimension types for the common extents.
type (
	D1 struct{}
	D2 struct{}
	D3 struct{}
	D4 struct{}
)

func (D1) Len() int { return 1 }
func (D2) Len() int { return 2 }
func (D3) Len() int { return 3 }
func (D4) Len() int { return 4 }

var (
	// ErrDimensionMismatch is returned when slice input does not match the
	// static shape of the matrix being built.
	ErrDimensionMismatch = errors.New("math3d: dimension mismatch")

	// ErrZeroMagnitude is returned when normalizing a zero-length vector.
	ErrZeroMagnitude = errors.New("math3d: zero magnitude")

	// ErrNonFinite is returned when normalizing a vector with a NaN or
	// infinite component.
	ErrNonFinite = errors.New("math3d: non-finite component")
)

// Matrix is an R x C grid of T stored row-major.
// Matrix values are immutable: every operation returns a new value.
// The zero value is the zero matrix.
type Matrix[T Number, R, C Dim] struct {
	elems []T
}

func dims[R, C Dim]() (rows, cols int) {
	var r R
	var c C
	return r.Len(), c.Len()
}

func zero[T Number, R, C Dim]() Matrix[T, R, C] {
	r, c := dims[R, C]()
	return Matrix[T, R, C]{elems: make([]T, r*c)}
}

// data returns the backing elements, materializing the zero matrix for the
// zero value. Callers must not modify the result.
func (m Matrix[T, R, C]) data() []T {
	if m.elems == nil {
		r, c := dims[R, C]()
		return make([]T, r*c)
	}
	return m.elems
}

// Fill returns a matrix with every cell set to v.
func Fill[T Number, R, C Dim](v T) Matrix[T, R, C] {
	m := zero[T, R, C]()
	for i := range m.elems {
		m.elems[i] = v
	}
	return m
}

// FromRow returns a matrix with row repeated in every row.
func FromRow[T Number, R, C Dim](row ...T) (Matrix[T, R, C], error) {
	r, c := dims[R, C]()
	if len(row) != c {
		return Matrix[T, R, C]{}, fmt.Errorf("%w: row has %d elements, want %d", ErrDimensionMismatch, len(row), c)
	}
	m := zero[T, R, C]()
	for i := range r {
		for j := range c {
			m.elems[i*c+j] = row[j]
		}
	}
	return m, nil
}

// FromRows returns a matrix built from a full 2-D literal.
func FromRows[T Number, R, C Dim](rows ...[]T) (Matrix[T, R, C], error) {
	r, c := dims[R, C]()
	if len(rows) != r {
		return Matrix[T, R, C]{}, fmt.Errorf("%w: got %d rows, want %d", ErrDimensionMismatch, len(rows), r)
	}
	m := zero[T, R, C]()
	for i, row := range rows {
		if len(row) != c {
			return Matrix[T, R, C]{}, fmt.Errorf("%w: row %d has %d elements, want %d", ErrDimensionMismatch, i, len(row), c)
		}
		for j, v := range row {
			m.elems[i*c+j] = v
		}
	}
	return m, nil
}

// FromSlice returns a matrix holding a copy of elems in row-major order.
func FromSlice[T Number, R, C Dim](elems []T) (Matrix[T, R, C], error) {
	r, c := dims[R, C]()
	if len(elems) != r*c {
		return Matrix[T, R, C]{}, fmt.Errorf("%w: got %d elements, want %dx%d", ErrDimensionMismatch, len(elems), r, c)
	}
	m := zero[T, R, C]()
	copy(m.elems, elems)
	return m, nil
}

// Must returns m, panicking if err is not nil. It is intended for
// literals in tests and package-level variables.
func Must[T Number, R, C Dim](m Matrix[T, R, C], err error) Matrix[T, R, C] {
	if err != nil {
		panic(err)
	}
	return m
}

// Identity returns the N x N identity matrix.
func Identity[T Number, N Dim]() Matrix[T, N, N] {
	m := zero[T, N, N]()
	n, _ := dims[N, N]()
	for i := range n {
		m.elems[i*n+i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix[T, R, C]) Rows() int {
	r, _ := dims[R, C]()
	return r
}

// Cols returns the number of columns.
func (m Matrix[T, R, C]) Cols() int {
	_, c := dims[R, C]()
	return c
}

// Len returns the number of elements (Rows * Cols).
func (m Matrix[T, R, C]) Len() int {
	r, c := dims[R, C]()
	return r * c
}

// At returns the element at (row, col). It panics if either index is out
// of range.
func (m Matrix[T, R, C]) At(row, col int) T {
	r, c := dims[R, C]()
	if row < 0 || row >= r || col < 0 || col >= c {
		panic(fmt.Sprintf("math3d: index (%d, %d) out of range for %dx%d matrix", row, col, r, c))
	}
	return m.data()[row*c+col]
}

// Elems returns a copy of the elements in row-major order.
func (m Matrix[T, R, C]) Elems() []T {
	out := make([]T, m.Len())
	copy(out, m.data())
	return out
}

// Row returns row i as a vector.
func (m Matrix[T, R, C]) Row(i int) Matrix[T, D1, C] {
	r, c := dims[R, C]()
	if i < 0 || i >= r {
		panic(fmt.Sprintf("math3d: row %d out of range for %dx%d matrix", i, r, c))
	}
	out := zero[T, D1, C]()
	copy(out.elems, m.data()[i*c:(i+1)*c])
	return out
}

// Col returns column j as a vector.
func (m Matrix[T, R, C]) Col(j int) Matrix[T, D1, R] {
	r, c := dims[R, C]()
	if j < 0 || j >= c {
		panic(fmt.Sprintf("math3d: column %d out of range for %dx%d matrix", j, r, c))
	}
	src := m.data()
	out := zero[T, D1, R]()
	for i := range r {
		out.elems[i] = src[i*c+j]
	}
	return out
}

// Add returns the elementwise sum m + o.
func (m Matrix[T, R, C]) Add(o Matrix[T, R, C]) Matrix[T, R, C] {
	a, b := m.data(), o.data()
	out := zero[T, R, C]()
	for i := range out.elems {
		out.elems[i] = a[i] + b[i]
	}
	return out
}

// Sub returns the elementwise difference m - o.
func (m Matrix[T, R, C]) Sub(o Matrix[T, R, C]) Matrix[T, R, C] {
	a, b := m.data(), o.data()
	out := zero[T, R, C]()
	for i := range out.elems {
		out.elems[i] = a[i] - b[i]
	}
	return out
}

// Negate returns -m.
func (m Matrix[T, R, C]) Negate() Matrix[T, R, C] {
	a := m.data()
	out := zero[T, R, C]()
	for i := range out.elems {
		out.elems[i] = -a[i]
	}
	return out
}

// Scale returns m with every element multiplied by s.
func (m Matrix[T, R, C]) Scale(s T) Matrix[T, R, C] {
	a := m.data()
	out := zero[T, R, C]()
	for i := range out.elems {
		out.elems[i] = a[i] * s
	}
	return out
}

// Equal reports whether m and o hold exactly the same elements.
// There is no tolerance: float matrices that differ by rounding are not
// equal.
func (m Matrix[T, R, C]) Equal(o Matrix[T, R, C]) bool {
	a, b := m.data(), o.data()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String formats the matrix as nested rows, e.g. [[1 2] [3 4]].
func (m Matrix[T, R, C]) String() string {
	r, c := dims[R, C]()
	d := m.data()
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range r {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, d[i*c:(i+1)*c])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Mul returns the matrix product a * b. The inner dimension M is shared by
// both operands' types.
func Mul[T Number, R, M, C Dim](a Matrix[T, R, M], b Matrix[T, M, C]) Matrix[T, R, C] {
	r, m := dims[R, M]()
	_, c := dims[M, C]()
	ad, bd := a.data(), b.data()
	out := zero[T, R, C]()
	for i := range r {
		for j := range c {
			var sum T
			for k := range m {
				sum += ad[i*m+k] * bd[k*c+j]
			}
			out.elems[i*c+j] = sum
		}
	}
	return out
}

// Transpose returns m with rows and columns swapped.
func Transpose[T Number, R, C Dim](m Matrix[T, R, C]) Matrix[T, C, R] {
	r, c := dims[R, C]()
	src := m.data()
	out := zero[T, C, R]()
	for i := range r {
		for j := range c {
			out.elems[j*r+i] = src[i*c+j]
		}
	}
	return out
}
