package glyph

import (
	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core/geom"
)

// GlyphData is the ordered list of paths rendered for exactly one character.
// A nil or empty GlyphData denotes an undrawn glyph.
type GlyphData []Path

// Drawn is true if g has at least one path.
func (g GlyphData) Drawn() bool {
	return len(g) > 0
}

// Clone returns a deep copy of g.
func (g GlyphData) Clone() GlyphData {
	if g == nil {
		return nil
	}
	c := make(GlyphData, len(g))
	for i, p := range g {
		c[i] = p.Clone()
	}
	return c
}

// Equal compares path lists exactly.
func (g GlyphData) Equal(h GlyphData) bool {
	return g.Near(h, 0)
}

// Near compares path lists with a coordinate tolerance.
func (g GlyphData) Near(h GlyphData, tolerance float64) bool {
	if len(g) != len(h) {
		return false
	}
	for i := range g {
		if !g[i].Near(h[i], tolerance) {
			return false
		}
	}
	return true
}

// BBox computes the bounding box over all paths, grown by half the stroke
// thickness on every side. Curves are measured exactly. The second return
// value is false if there is no geometry.
func (g GlyphData) BBox(thickness float64) (geom.Rect, bool) {
	boxes := make([]geom.Rect, 0, len(g))
	for _, p := range g {
		if p.IsEmpty() {
			continue
		}
		if b, ok := p.BBox(); ok {
			boxes = append(boxes, b)
		}
	}
	box, found := geom.UnionAll(boxes)
	if !found {
		return geom.Rect{}, false
	}
	if thickness > 0 {
		box = box.Expand(thickness / 2)
	}
	return box, true
}

// Transform applies an affine matrix to every path.
func (g GlyphData) Transform(m geom.Matrix) GlyphData {
	if g == nil {
		return nil
	}
	c := make(GlyphData, len(g))
	for i, p := range g {
		c[i] = p.Transform(m)
	}
	return c
}

// Apply applies a pivot transform to every path. Identity transforms
// return an unchanged copy.
func (g GlyphData) Apply(t geom.Transform) GlyphData {
	if t.IsIdentity() {
		return g.Clone()
	}
	return g.Transform(t.Matrix())
}

// Translate shifts every path along v.
func (g GlyphData) Translate(v arithm.Pair) GlyphData {
	if g == nil {
		return nil
	}
	c := make(GlyphData, len(g))
	for i, p := range g {
		c[i] = p.Translate(v)
	}
	return c
}

// Tag returns a copy with every path's group ID set to id.
func (g GlyphData) Tag(id string) GlyphData {
	c := g.Clone()
	for i := range c {
		c[i].GroupID = id
	}
	return c
}

// Group returns the paths contributed by component index i.
func (g GlyphData) Group(i int) GlyphData {
	id := GroupID(i)
	var sel GlyphData
	for _, p := range g {
		if p.GroupID == id {
			sel = append(sel, p)
		}
	}
	return sel
}

// Before returns the paths contributed by components with an index lower
// than i.
func (g GlyphData) Before(i int) GlyphData {
	var sel GlyphData
	for _, p := range g {
		if j, ok := ParseGroupID(p.GroupID); ok && j < i {
			sel = append(sel, p)
		}
	}
	return sel
}

// Source provides read access to glyph data by codepoint.
type Source interface {
	Glyph(code rune) (GlyphData, bool)
}

// Map is a plain in-memory Source.
type Map map[rune]GlyphData

// Glyph implements Source.
func (m Map) Glyph(code rune) (GlyphData, bool) {
	g, ok := m[code]
	return g, ok
}
