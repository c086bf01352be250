package geom

import (
	"math"

	"github.com/npillmayer/arithm"
)

// Matrix is a 2D affine transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translation creates a translation matrix.
func Translation(v arithm.Pair) Matrix {
	return Matrix{A: 1, C: v.X(), E: 1, F: v.Y()}
}

// Scaling creates a scaling matrix. A negative factor flips along the axis.
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// Rotation creates a rotation matrix (angle in radians).
func Rotation(angle float64) Matrix {
	if angle == 0 {
		return Identity()
	}
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m*n, i.e. the transformation applying n first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p arithm.Pair) arithm.Pair {
	return arithm.P(m.A*p.X()+m.B*p.Y()+m.C, m.D*p.X()+m.E*p.Y()+m.F)
}

// ApplyVector transforms a vector, ignoring the translation part.
// Bézier handles relative to their anchor are vectors.
func (m Matrix) ApplyVector(v arithm.Pair) arithm.Pair {
	return arithm.P(m.A*v.X()+m.B*v.Y(), m.D*v.X()+m.E*v.Y())
}

// Determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix. The second return value is false if
// m is singular, in which case the identity is returned.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1.0 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}, true
}

// IsIdentity is true if m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
