package composite

import (
	"sort"

	"github.com/npillmayer/glyphlink/core/glyph"
)

// Patch replaces the contribution of component index in current with
// freshly placed geometry of that component, read from the generator's
// source. All other paths are kept as they are.
//
// The second return value is false if patching is infeasible: the
// component contributed no paths, a box needed for placement is missing
// or degenerate, or the component's placed box changed while a later
// component is placed relative to the accumulated geometry. Callers then
// fall back to Generate.
func (g *Generator) Patch(ch *glyph.Character, current glyph.GlyphData, index int) (glyph.GlyphData, bool) {
	names := ch.Components()
	if index < 0 || index >= len(names) {
		return nil, false
	}
	old := current.Group(index)
	if !old.Drawn() {
		tracer().Debugf("patch %s[%d]: no prior contribution", ch.Name, index)
		return nil, false
	}
	c, ok := g.resolve(names[index])
	if !ok {
		return nil, false
	}
	base := c.ch
	if index > 0 {
		if base, ok = g.ctx.Lookup.Character(names[0]); !ok {
			return nil, false
		}
	}
	var prev *glyph.Character
	if index > 0 {
		if prev, ok = g.ctx.Lookup.Character(names[index-1]); !ok {
			return nil, false
		}
	}
	placed, pl, ok := g.place(ch, index, c, prev, base.Code, current.Before(index))
	if !ok {
		tracer().Debugf("patch %s[%d]: cannot place component", ch.Name, index)
		return nil, false
	}
	oldBox, ok := old.BBox(g.ctx.Thickness)
	if !ok || oldBox.IsDegenerate() {
		return nil, false
	}
	if !pl.Box.Near(oldBox, 0) && laterFollowsAccumulation(ch, index) {
		tracer().Debugf("patch %s[%d]: box changed %s → %s, later components would move",
			ch.Name, index, oldBox, pl.Box)
		return nil, false
	}
	id := glyph.GroupID(index)
	patched := make(glyph.GlyphData, 0, len(current)-len(old)+len(placed))
	inserted := false
	for _, p := range current {
		if p.GroupID == id {
			if !inserted {
				patched = append(patched, placed...)
				inserted = true
			}
			continue
		}
		patched = append(patched, p.Clone())
	}
	return patched, true
}

// PatchAll patches several components in ascending index order. It fails
// if any single patch fails.
func (g *Generator) PatchAll(ch *glyph.Character, current glyph.GlyphData, indices []int) (glyph.GlyphData, bool) {
	inx := append([]int(nil), indices...)
	sort.Ints(inx)
	data, ok := current, len(inx) > 0
	for k, i := range inx {
		if k > 0 && inx[k-1] == i {
			continue
		}
		if data, ok = g.Patch(ch, data, i); !ok {
			return nil, false
		}
	}
	return data, ok
}

// laterFollowsAccumulation is true if any component after index is placed
// relative to the geometry accumulated before it.
func laterFollowsAccumulation(ch *glyph.Character, index int) bool {
	for j := index + 1; j < len(ch.Components()); j++ {
		if ch.TransformAt(j).Mode != glyph.ModeAbsolute {
			return true
		}
	}
	return false
}
