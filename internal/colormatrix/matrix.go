// Package colormatrix implements 5×4 affine color matrices over RGBA
// vectors.
//
// A Matrix m maps a pixel v to v' with
//
//	v'[j] = v[0]*m[0][j] + v[1]*m[1][j] + v[2]*m[2][j] + v[3]*m[3][j] + m[4][j]
//
// Rows 0–3 hold the coefficients of the R, G, B and A inputs, row 4 is the
// offset. No saturation happens here; out-of-range results are clamped by
// whichever pixel format encodes them.
package colormatrix

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/AnyUserName/colorfx/internal/pixel"
)

// ErrSingular is returned by Invert when the matrix has no inverse.
var ErrSingular = errors.New("colormatrix: matrix is singular")

// Matrix is an affine color transform. The zero value maps everything to
// transparent black; use Identity as a starting point.
type Matrix [5][4]float32

// Identity returns the matrix that leaves every vector unchanged.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{0, 0, 0, 0},
	}
}

// FromLinear builds a matrix without translation from a 4×4 map laid out
// the same way (row i = input channel i).
func FromLinear(l [4][4]float32) Matrix {
	var m Matrix
	copy(m[:4], l[:])
	return m
}

// IsIdentity reports whether m is exactly the identity.
func (m *Matrix) IsIdentity() bool {
	return *m == Identity()
}

// IsFinite reports whether every element is a finite number.
func (m *Matrix) IsFinite() bool {
	for _, row := range m {
		for _, v := range row {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}

// HasOffset reports whether m carries a non-zero translation row.
func (m *Matrix) HasOffset() bool {
	return m[4] != [4]float32{}
}

// Transform returns the transformed copy of v.
func (m *Matrix) Transform(v pixel.Vector4) pixel.Vector4 {
	return pixel.Vector4{
		v[0]*m[0][0] + v[1]*m[1][0] + v[2]*m[2][0] + v[3]*m[3][0] + m[4][0],
		v[0]*m[0][1] + v[1]*m[1][1] + v[2]*m[2][1] + v[3]*m[3][1] + m[4][1],
		v[0]*m[0][2] + v[1]*m[1][2] + v[2]*m[2][2] + v[3]*m[3][2] + m[4][2],
		v[0]*m[0][3] + v[1]*m[1][3] + v[2]*m[2][3] + v[3]*m[3][3] + m[4][3],
	}
}

// TransformRow transforms every vector of row in place.
// Elements are independent of each other.
func (m *Matrix) TransformRow(row []pixel.Vector4) {
	mm := *m
	for i := range row {
		row[i] = mm.Transform(row[i])
	}
}

// Mul returns the matrix that applies a first and then b.
func Mul(a, b Matrix) Matrix {
	var c Matrix
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a[i][k] * b[k][j]
			}
			if i == 4 {
				s += b[4][j]
			}
			c[i][j] = s
		}
	}
	return c
}

// Chain composes the matrices in application order. An empty chain is
// the identity.
func Chain(ms ...Matrix) Matrix {
	out := Identity()
	for _, m := range ms {
		out = Mul(out, m)
	}
	return out
}

// Invert returns the matrix undoing m. The computation runs in float64
// on the homogeneous 5×5 form.
func Invert(m Matrix) (Matrix, error) {
	var a [5][10]float64
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			a[i][j] = float64(m[i][j])
		}
		if i == 4 {
			a[i][4] = 1
		}
		a[i][5+i] = 1
	}

	// Gauss-Jordan with partial pivoting.
	for col := 0; col < 5; col++ {
		pivot := col
		for r := col + 1; r < 5; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-9 {
			return Matrix{}, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]

		inv := 1 / a[col][col]
		for j := range a[col] {
			a[col][j] *= inv
		}
		for r := 0; r < 5; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for j := range a[r] {
				a[r][j] -= f * a[col][j]
			}
		}
	}

	var out Matrix
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = float32(a[i][5+j])
		}
	}
	return out, nil
}

// String formats the matrix as five rows of four numbers.
func (m Matrix) String() string {
	var sb strings.Builder
	for i, row := range m {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%8.4f %8.4f %8.4f %8.4f", row[0], row[1], row[2], row[3])
	}
	return sb.String()
}
