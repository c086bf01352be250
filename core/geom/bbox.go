package geom

import (
	"math"

	"github.com/npillmayer/arithm"
)

// PointsBBox returns the bounding box of a point set. The second return
// value is false for an empty set.
func PointsBBox(pts []arithm.Pair) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minx, maxx = math.Min(minx, p.X()), math.Max(maxx, p.X())
		miny, maxy = math.Min(miny, p.Y()), math.Max(maxy, p.Y())
	}
	return Rect{TopL: arithm.P(minx, miny), BotR: arithm.P(maxx, maxy)}, true
}

// CubicBBox returns the exact bounding box of the cubic Bézier curve from
// p0 to p3 with control points c1 and c2. Extrema are found as roots of the
// curve's derivative, so handles pulling beyond the curve do not inflate
// the box.
func CubicBBox(p0, c1, c2, p3 arithm.Pair) Rect {
	xs := cubicExtrema(p0.X(), c1.X(), c2.X(), p3.X())
	ys := cubicExtrema(p0.Y(), c1.Y(), c2.Y(), p3.Y())
	return Rect{TopL: arithm.P(xs[0], ys[0]), BotR: arithm.P(xs[1], ys[1])}
}

// cubicExtrema returns min and max of a 1D cubic Bézier over t ∈ [0,1].
func cubicExtrema(p0, p1, p2, p3 float64) [2]float64 {
	lo, hi := math.Min(p0, p3), math.Max(p0, p3)
	if p1 >= lo && p1 <= hi && p2 >= lo && p2 <= hi {
		return [2]float64{lo, hi} // hull inside end points
	}
	// B'(t)/3 = a t² + b t + c
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0
	for _, t := range quadRoots(a, b, c) {
		if t <= 0 || t >= 1 {
			continue
		}
		v := cubicAt(p0, p1, p2, p3, t)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return [2]float64{lo, hi}
}

func cubicAt(p0, p1, p2, p3, t float64) float64 {
	mt := 1 - t
	return mt*mt*mt*p0 + 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t*p3
}

func quadRoots(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// UnionAll folds a list of optional rectangles. The second return value is
// false if no rectangle was present.
func UnionAll(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	r := rects[0]
	for _, s := range rects[1:] {
		r = r.Union(s)
	}
	return r, true
}
