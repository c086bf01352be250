package geom

import (
	"fmt"

	"github.com/npillmayer/arithm"
)

// Transform is a scale/flip/rotate operation around an arbitrary pivot,
// followed by a translation.
type Transform struct {
	Pivot    arithm.Pair
	ScaleX   float64 // negative values flip horizontally
	ScaleY   float64 // negative values flip vertically
	Rotation float64 // radians
	Offset   arithm.Pair
}

// NoTransform is the identity transform.
var NoTransform = Transform{ScaleX: 1, ScaleY: 1}

// Uniform creates a transform scaling uniformly by s and rotating by
// rotation (radians) around pivot.
func Uniform(pivot arithm.Pair, s, rotation float64) Transform {
	return Transform{Pivot: pivot, ScaleX: s, ScaleY: s, Rotation: rotation}
}

// IsIdentity is true if t leaves every point unchanged. The pivot is
// irrelevant in that case.
func (t Transform) IsIdentity() bool {
	return t.ScaleX == 1 && t.ScaleY == 1 && t.Rotation == 0 &&
		t.Offset.X() == 0 && t.Offset.Y() == 0
}

// Matrix composes t into an affine matrix, in the order
// translate-to-pivot, scale/flip, rotate, translate-back, offset.
func (t Transform) Matrix() Matrix {
	if t.IsIdentity() {
		return Identity()
	}
	back := Add(t.Pivot, t.Offset)
	m := Translation(arithm.P(-t.Pivot.X(), -t.Pivot.Y()))
	m = Scaling(t.ScaleX, t.ScaleY).Multiply(m)
	m = Rotation(t.Rotation).Multiply(m)
	return Translation(back).Multiply(m)
}

// Inverse returns the matrix undoing t. It fails for zero scale factors.
func (t Transform) Inverse() (Matrix, bool) {
	inv, ok := t.Matrix().Invert()
	if !ok {
		tracer().Debugf("transform %s is not invertible", t)
	}
	return inv, ok
}

// Apply transforms a single point. Identity transforms return p unchanged.
func (t Transform) Apply(p arithm.Pair) arithm.Pair {
	if t.IsIdentity() {
		return p
	}
	return t.Matrix().Apply(p)
}

// Points transforms a point set, returning a new slice.
func (t Transform) Points(pts []arithm.Pair) []arithm.Pair {
	out := make([]arithm.Pair, len(pts))
	if t.IsIdentity() {
		copy(out, pts)
		return out
	}
	m := t.Matrix()
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

func (t Transform) String() string {
	return fmt.Sprintf("T[pivot=%v scale=(%g,%g) rot=%.4f off=%v]",
		t.Pivot, t.ScaleX, t.ScaleY, t.Rotation, t.Offset)
}
