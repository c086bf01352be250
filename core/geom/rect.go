package geom

import (
	"fmt"
	"math"

	"github.com/npillmayer/arithm"
)

// Rect is an axis-aligned rectangle. TopL holds the minimum coordinates,
// BotR the maximum ones.
type Rect struct {
	TopL, BotR arithm.Pair
}

// R creates a rectangle from its extremal coordinates.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{TopL: arithm.P(math.Min(x0, x1), math.Min(y0, y1)),
		BotR: arithm.P(math.Max(x0, x1), math.Max(y0, y1))}
}

// Width returns the difference between x-coordinates of bottom-right and
// top-left corner.
func (r Rect) Width() float64 {
	return r.BotR.X() - r.TopL.X()
}

// Height returns the difference between y-coordinates of bottom-right and
// top-left corner.
func (r Rect) Height() float64 {
	return r.BotR.Y() - r.TopL.Y()
}

// Center returns the midpoint of r.
func (r Rect) Center() arithm.Pair {
	return Lerp(r.TopL, r.BotR, 0.5)
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		TopL: arithm.P(math.Min(r.TopL.X(), s.TopL.X()), math.Min(r.TopL.Y(), s.TopL.Y())),
		BotR: arithm.P(math.Max(r.BotR.X(), s.BotR.X()), math.Max(r.BotR.Y(), s.BotR.Y())),
	}
}

// Expand grows r by d on every side. Negative d shrinks it.
func (r Rect) Expand(d float64) Rect {
	return Rect{
		TopL: arithm.P(r.TopL.X()-d, r.TopL.Y()-d),
		BotR: arithm.P(r.BotR.X()+d, r.BotR.Y()+d),
	}
}

// Translate shifts r along v.
func (r Rect) Translate(v arithm.Pair) Rect {
	return Rect{TopL: Add(r.TopL, v), BotR: Add(r.BotR, v)}
}

// IsDegenerate is true for rectangles which cannot serve as a placement
// reference: inverted extents or non-finite coordinates.
func (r Rect) IsDegenerate() bool {
	for _, f := range []float64{r.TopL.X(), r.TopL.Y(), r.BotR.X(), r.BotR.Y()} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return r.Width() < 0 || r.Height() < 0
}

// Near reports whether corners of r and s are within tolerance.
func (r Rect) Near(s Rect, tolerance float64) bool {
	return Near(r.TopL, s.TopL, tolerance) && Near(r.BotR, s.BotR, tolerance)
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%.3f,%.3f)-(%.3f,%.3f)]", r.TopL.X(), r.TopL.Y(), r.BotR.X(), r.BotR.Y())
}
