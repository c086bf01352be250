package glyph

import (
	"math/cmplx"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/arithm/jhobby"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/geom"
)

// HobbyStroke creates a curve path through knots, with handles found by
// John Hobby's spline algorithm (as known from MetaFont/MetaPost). If cycle
// is set, the path is closed smoothly.
func HobbyStroke(knots []arithm.Pair, cycle bool) (Path, error) {
	if len(knots) < 2 {
		return Path{}, core.Error(core.EINVALID, "a stroke needs at least 2 knots, have %d", len(knots))
	}
	builder := jhobby.Nullpath()
	for i, k := range knots {
		builder.Knot(k)
		if i < len(knots)-1 || cycle {
			builder.Curve()
		}
	}
	var hpath jhobby.HobbyPath
	var controls jhobby.SplineControls
	if cycle {
		hpath, controls = builder.Cycle()
	} else {
		hpath, controls = builder.End()
	}
	controls = jhobby.FindHobbyControls(hpath, controls)
	n := hpath.N()
	p := Path{Segments: make([]Segment, n), Closed: cycle}
	for i := 0; i < n; i++ {
		z := hpath.Z(i)
		seg := Segment{Point: z}
		if cycle || i > 0 {
			seg.In = handle(z, controls.PreControl(i))
		}
		if cycle || i < n-1 {
			seg.Out = handle(z, controls.PostControl(i))
		}
		p.Segments[i] = seg
	}
	tracer().Debugf("hobby stroke with %d knots, cycle=%v", n, cycle)
	return p, nil
}

func handle(anchor, control arithm.Pair) arithm.Pair {
	if cmplx.IsNaN(control.C()) {
		return arithm.Origin
	}
	return geom.Sub(control, anchor)
}
