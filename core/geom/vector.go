package geom

import (
	"math"

	"github.com/npillmayer/arithm"
)

// Add returns a+b.
func Add(a, b arithm.Pair) arithm.Pair {
	return arithm.P(a.X()+b.X(), a.Y()+b.Y())
}

// Sub returns a-b.
func Sub(a, b arithm.Pair) arithm.Pair {
	return arithm.P(a.X()-b.X(), a.Y()-b.Y())
}

// Scale multiplies both coordinates of v by s.
func Scale(v arithm.Pair, s float64) arithm.Pair {
	return arithm.P(v.X()*s, v.Y()*s)
}

// ScaleXY multiplies v's coordinates by sx and sy respectively.
func ScaleXY(v arithm.Pair, sx, sy float64) arithm.Pair {
	return arithm.P(v.X()*sx, v.Y()*sy)
}

// Lerp interpolates linearly between a (t=0) and b (t=1).
func Lerp(a, b arithm.Pair, t float64) arithm.Pair {
	return arithm.P(a.X()+(b.X()-a.X())*t, a.Y()+(b.Y()-a.Y())*t)
}

// Length is the euclidean length of v.
func Length(v arithm.Pair) float64 {
	return math.Hypot(v.X(), v.Y())
}

// Near reports whether a and b differ by at most tolerance in each coordinate.
func Near(a, b arithm.Pair, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance && math.Abs(a.Y()-b.Y()) <= tolerance
}

// Radians converts degrees (as entered on the edit surface) to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
