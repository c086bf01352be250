package geom

import (
	"math"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestVectorOps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	v := Add(arithm.P(1, 2), arithm.P(3, 4))
	assert.Equal(t, 4.0, v.X())
	assert.Equal(t, 6.0, v.Y())
	w := Scale(arithm.P(1, -2), 3)
	assert.Equal(t, arithm.P(3, -6), w)
	assert.Equal(t, arithm.P(2, 2), Sub(arithm.P(3, 4), arithm.P(1, 2)))
	assert.InDelta(t, 5.0, Length(arithm.P(3, 4)), 1e-12)
	assert.InDelta(t, math.Pi/2, Radians(90), 1e-12)
	assert.InDelta(t, 180.0, Degrees(math.Pi), 1e-12)
}

func TestTransformIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	pts := []arithm.Pair{arithm.P(0.1, 0.3), arithm.P(17.25, -3.5), arithm.P(100, 1e-9)}
	id := Uniform(arithm.P(0.3, 0.7), 1, 0)
	assert.True(t, id.IsIdentity())
	out := id.Points(pts)
	assert.Equal(t, pts, out)
	assert.True(t, id.Matrix().IsIdentity())
}

func TestTransformOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	// scale by 2 around (10,10), then rotate by 90°, then shift
	tr := Transform{
		Pivot:    arithm.P(10, 10),
		ScaleX:   2,
		ScaleY:   2,
		Rotation: Radians(90),
		Offset:   arithm.P(5, 0),
	}
	p := tr.Apply(arithm.P(11, 10)) // (1,0) from pivot → (2,0) → (0,2) → (10,12) → (15,12)
	assert.InDelta(t, 15.0, p.X(), 1e-9)
	assert.InDelta(t, 12.0, p.Y(), 1e-9)
}

func TestTransformFlip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	flip := Transform{Pivot: arithm.P(50, 0), ScaleX: -1, ScaleY: 1}
	p := flip.Apply(arithm.P(0, 7))
	assert.InDelta(t, 100.0, p.X(), 1e-12)
	assert.InDelta(t, 7.0, p.Y(), 1e-12)
	// flipping twice is the identity
	q := flip.Apply(p)
	assert.InDelta(t, 0.0, q.X(), 1e-12)
}

func TestTransformInverse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	pts := []arithm.Pair{arithm.P(0, 0), arithm.P(100, 0), arithm.P(100, 40), arithm.P(3, 40)}
	box, ok := PointsBBox(pts)
	assert.True(t, ok)
	tr := Transform{Pivot: box.Center(), ScaleX: 1.5, ScaleY: -0.5, Rotation: Radians(33),
		Offset: arithm.P(-12, 8)}
	moved := tr.Points(pts)
	inv, ok := tr.Inverse()
	assert.True(t, ok)
	back := make([]arithm.Pair, len(moved))
	for i, p := range moved {
		back[i] = inv.Apply(p)
	}
	box2, _ := PointsBBox(back)
	assert.True(t, box.Near(box2, 1e-9), "expected %s, got %s", box, box2)
	_, ok = Transform{ScaleX: 0, ScaleY: 1}.Inverse()
	assert.False(t, ok)
}

func TestTransformRepeatable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	tr := Transform{Pivot: arithm.P(1, 2), ScaleX: 0.75, ScaleY: 0.75, Rotation: 0.3}
	m1 := tr.Matrix()
	m2 := tr.Matrix()
	assert.Equal(t, m1, m2)
	twice := m1.Multiply(m1)
	p := twice.Apply(arithm.P(5, 5))
	q := tr.Apply(tr.Apply(arithm.P(5, 5)))
	assert.True(t, Near(p, q, 1e-9))
}

func TestCubicBBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	// symmetric arch: control points at height 100, curve peaks at 75
	r := CubicBBox(arithm.P(0, 0), arithm.P(0, 100), arithm.P(100, 100), arithm.P(100, 0))
	assert.InDelta(t, 0.0, r.TopL.X(), 1e-9)
	assert.InDelta(t, 100.0, r.BotR.X(), 1e-9)
	assert.InDelta(t, 0.0, r.TopL.Y(), 1e-9)
	assert.InDelta(t, 75.0, r.BotR.Y(), 1e-9)
	// straight line degenerates to end points
	l := CubicBBox(arithm.P(0, 0), arithm.P(10, 0), arithm.P(20, 0), arithm.P(30, 0))
	assert.Equal(t, 0.0, l.Height())
	assert.Equal(t, 30.0, l.Width())
}

func TestRect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.geom")
	defer teardown()
	//
	r := R(10, 0, 0, 20)
	assert.Equal(t, 10.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
	u := r.Union(R(-5, 5, 3, 30))
	assert.Equal(t, R(-5, 0, 10, 30), u)
	assert.Equal(t, R(-1, -1, 11, 21), r.Expand(1))
	assert.False(t, r.IsDegenerate())
	assert.True(t, Rect{TopL: arithm.P(1, 0), BotR: arithm.P(0, 0)}.IsDegenerate())
	assert.True(t, R(0, 0, math.NaN(), 1).IsDegenerate())
	_, ok := PointsBBox(nil)
	assert.False(t, ok)
	all, ok := UnionAll([]Rect{r, R(-5, 5, 3, 30)})
	assert.True(t, ok)
	assert.Equal(t, u, all)
	_, ok = UnionAll(nil)
	assert.False(t, ok)
}
