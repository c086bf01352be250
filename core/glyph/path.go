package glyph

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core/geom"
)

// Segment is an anchor point of a curve stroke, together with its incoming
// and outgoing Bézier handles. Handles are relative to the anchor.
type Segment struct {
	Point arithm.Pair
	In    arithm.Pair
	Out   arithm.Pair
}

// Path is a single stroke. It is either a polyline (Points) or a curve
// (Segments); a path carrying both is treated as a curve.
type Path struct {
	Points   []arithm.Pair
	Segments []Segment
	Closed   bool
	GroupID  string // "component-<index>" for paths contributed by a component
}

const groupPrefix = "component-"

// GroupID returns the group tag for component index i.
func GroupID(i int) string {
	return groupPrefix + strconv.Itoa(i)
}

// ParseGroupID extracts the component index from a group tag.
func ParseGroupID(id string) (int, bool) {
	if !strings.HasPrefix(id, groupPrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(id[len(groupPrefix):])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// IsCurve is true for segment based paths.
func (p Path) IsCurve() bool {
	return len(p.Segments) > 0
}

// IsEmpty is true if p has no geometry.
func (p Path) IsEmpty() bool {
	return len(p.Points) == 0 && len(p.Segments) == 0
}

// Clone returns a deep copy of p.
func (p Path) Clone() Path {
	c := Path{Closed: p.Closed, GroupID: p.GroupID}
	if p.Points != nil {
		c.Points = append([]arithm.Pair(nil), p.Points...)
	}
	if p.Segments != nil {
		c.Segments = append([]Segment(nil), p.Segments...)
	}
	return c
}

// Transform applies an affine matrix. Anchors and points are transformed as
// points, handles as vectors.
func (p Path) Transform(m geom.Matrix) Path {
	c := Path{Closed: p.Closed, GroupID: p.GroupID}
	if p.Points != nil {
		c.Points = make([]arithm.Pair, len(p.Points))
		for i, pt := range p.Points {
			c.Points[i] = m.Apply(pt)
		}
	}
	if p.Segments != nil {
		c.Segments = make([]Segment, len(p.Segments))
		for i, s := range p.Segments {
			c.Segments[i] = Segment{
				Point: m.Apply(s.Point),
				In:    m.ApplyVector(s.In),
				Out:   m.ApplyVector(s.Out),
			}
		}
	}
	return c
}

// Translate shifts p along v. Handles are unaffected.
func (p Path) Translate(v arithm.Pair) Path {
	c := p.Clone()
	for i := range c.Points {
		c.Points[i] = geom.Add(c.Points[i], v)
	}
	for i := range c.Segments {
		c.Segments[i].Point = geom.Add(c.Segments[i].Point, v)
	}
	return c
}

// BBox returns the geometric bounding box of p, exact for curves.
func (p Path) BBox() (geom.Rect, bool) {
	if !p.IsCurve() {
		return geom.PointsBBox(p.Points)
	}
	segs := p.Segments
	box, _ := geom.PointsBBox([]arithm.Pair{segs[0].Point})
	n := len(segs) - 1
	if p.Closed && len(segs) > 1 {
		n = len(segs)
	}
	for i := 0; i < n; i++ {
		a, b := segs[i], segs[(i+1)%len(segs)]
		box = box.Union(geom.CubicBBox(a.Point, geom.Add(a.Point, a.Out),
			geom.Add(b.Point, b.In), b.Point))
	}
	return box, true
}

// Equal compares two paths exactly.
func (p Path) Equal(q Path) bool {
	return p.Near(q, 0)
}

// Near compares two paths, allowing coordinates to differ by tolerance.
func (p Path) Near(q Path, tolerance float64) bool {
	if p.Closed != q.Closed || p.GroupID != q.GroupID ||
		len(p.Points) != len(q.Points) || len(p.Segments) != len(q.Segments) {
		return false
	}
	for i := range p.Points {
		if !geom.Near(p.Points[i], q.Points[i], tolerance) {
			return false
		}
	}
	for i := range p.Segments {
		a, b := p.Segments[i], q.Segments[i]
		if !geom.Near(a.Point, b.Point, tolerance) || !geom.Near(a.In, b.In, tolerance) ||
			!geom.Near(a.Out, b.Out, tolerance) {
			return false
		}
	}
	return true
}

// --- JSON -----------------------------------------------------------------

// xy is the JSON form of a pair.
type xy [2]float64

func toXY(p arithm.Pair) xy {
	return xy{p.X(), p.Y()}
}

func (v xy) pair() arithm.Pair {
	return arithm.P(v[0], v[1])
}

type jsonSegment struct {
	Point xy  `json:"p"`
	In    *xy `json:"in,omitempty"`
	Out   *xy `json:"out,omitempty"`
}

type jsonPath struct {
	Points   []xy          `json:"points,omitempty"`
	Segments []jsonSegment `json:"segments,omitempty"`
	Closed   bool          `json:"closed,omitempty"`
	GroupID  string        `json:"groupId,omitempty"`
}

// MarshalJSON encodes pairs as [x, y] arrays.
func (p Path) MarshalJSON() ([]byte, error) {
	jp := jsonPath{Closed: p.Closed, GroupID: p.GroupID}
	for _, pt := range p.Points {
		jp.Points = append(jp.Points, toXY(pt))
	}
	for _, s := range p.Segments {
		js := jsonSegment{Point: toXY(s.Point)}
		if s.In.X() != 0 || s.In.Y() != 0 {
			in := toXY(s.In)
			js.In = &in
		}
		if s.Out.X() != 0 || s.Out.Y() != 0 {
			out := toXY(s.Out)
			js.Out = &out
		}
		jp.Segments = append(jp.Segments, js)
	}
	return json.Marshal(jp)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (p *Path) UnmarshalJSON(data []byte) error {
	var jp jsonPath
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	*p = Path{Closed: jp.Closed, GroupID: jp.GroupID}
	for _, v := range jp.Points {
		p.Points = append(p.Points, v.pair())
	}
	for _, js := range jp.Segments {
		s := Segment{Point: js.Point.pair()}
		if js.In != nil {
			s.In = js.In.pair()
		}
		if js.Out != nil {
			s.Out = js.Out.pair()
		}
		p.Segments = append(p.Segments, s)
	}
	return nil
}
