package composite

import (
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/geom"
	"github.com/npillmayer/glyphlink/core/glyph"
)

// Generator builds derived glyph geometry from components.
type Generator struct {
	ctx   Context
	depth int // nesting of on-the-fly ephemeral components
}

// Ephemeral components nested deeper than this are treated as undrawn.
const maxEphemeralDepth = 8

// New creates a generator for ctx.
func New(ctx Context) *Generator {
	return &Generator{ctx: ctx}
}

// Context returns the generator's inputs.
func (g *Generator) Context() Context {
	return g.ctx
}

// WithSource returns a generator reading component geometry from src.
func (g *Generator) WithSource(src glyph.Source) *Generator {
	ctx := g.ctx
	ctx.Source = src
	return &Generator{ctx: ctx}
}

// Placement describes where one component ended up.
type Placement struct {
	Index  int
	Code   rune
	Auto   arithm.Pair // automatic placement in relative mode
	Offset arithm.Pair // translation actually applied
	Box    geom.Rect   // placed bounding box
}

// component is a resolved, drawn component.
type component struct {
	ch   *glyph.Character
	data glyph.GlyphData
}

// Generate synthesizes the geometry of ch. If any component is unknown or
// undrawn, no geometry is produced and the error (code EMISSING) names
// all missing components.
func (g *Generator) Generate(ch *glyph.Character) (glyph.GlyphData, error) {
	data, _, err := g.Layout(ch)
	return data, err
}

// Layout is Generate, additionally reporting the placement of every
// component.
func (g *Generator) Layout(ch *glyph.Character) (glyph.GlyphData, []Placement, error) {
	names := ch.Components()
	if len(names) == 0 {
		return nil, nil, core.Error(core.EINVALID, "%s has no components", ch.Name)
	}
	comps := make([]component, len(names))
	var missing []string
	for i, n := range names {
		c, ok := g.resolve(n)
		if !ok {
			missing = appendUnique(missing, n)
			continue
		}
		comps[i] = c
	}
	if len(missing) > 0 {
		tracer().Debugf("cannot generate %s, missing %v", ch.Name, missing)
		return nil, nil, core.Error(core.EMISSING, "%s: missing components %s",
			ch.Name, strings.Join(missing, ", "))
	}
	var acc glyph.GlyphData
	placements := make([]Placement, 0, len(comps))
	for i, c := range comps {
		var prev *glyph.Character
		if i > 0 {
			prev = comps[i-1].ch
		}
		placed, pl, ok := g.place(ch, i, c, prev, comps[0].ch.Code, acc)
		if !ok {
			return nil, nil, core.Error(core.EMISSING, "%s: component %s has no usable outline",
				ch.Name, c.ch.Name)
		}
		acc = append(acc, placed...)
		placements = append(placements, pl)
	}
	return acc, placements, nil
}

// Missing lists the components of ch which are unknown or undrawn.
func (g *Generator) Missing(ch *glyph.Character) []string {
	var missing []string
	for _, n := range ch.Components() {
		if _, ok := g.resolve(n); !ok {
			missing = appendUnique(missing, n)
		}
	}
	return missing
}

func (g *Generator) resolve(name string) (component, bool) {
	if g.ctx.Lookup == nil || g.ctx.Source == nil {
		return component{}, false
	}
	ch, ok := g.ctx.Lookup.Character(name)
	if !ok {
		return component{}, false
	}
	data, ok := g.ctx.Source.Glyph(ch.Code)
	if (!ok || !data.Drawn()) && ch.Ephemeral && g.depth < maxEphemeralDepth {
		// ephemeral pairs are never stored, their geometry is built on demand
		nested := &Generator{ctx: g.ctx, depth: g.depth + 1}
		var err error
		if data, err = nested.Generate(ch); err != nil {
			return component{}, false
		}
	}
	if !data.Drawn() {
		return component{}, false
	}
	return component{ch: ch, data: data}, true
}

// place shapes component c (index i of ch) and moves it into position
// against the accumulated geometry acc. It fails if a box it depends on
// is unavailable or degenerate.
func (g *Generator) place(ch *glyph.Character, i int, c component, prev *glyph.Character,
	base rune, acc glyph.GlyphData) (glyph.GlyphData, Placement, bool) {
	//
	th := g.ctx.Thickness
	natural, ok := c.data.BBox(th)
	if !ok || natural.IsDegenerate() {
		return nil, Placement{}, false
	}
	t := ch.TransformAt(i)
	shaped := c.data.Apply(geom.Uniform(natural.Center(), t.EffectiveScale(), geom.Radians(t.Rotation)))
	box, ok := shaped.BBox(th)
	if !ok || box.IsDegenerate() {
		return nil, Placement{}, false
	}
	auto := arithm.Origin
	if i > 0 {
		accBox, ok := acc.BBox(th)
		if ok && !accBox.IsDegenerate() {
			auto = g.autoOffset(ch, t, c.ch, prev, base, box, accBox)
		} else if t.Mode != glyph.ModeAbsolute {
			return nil, Placement{}, false
		}
	}
	offset := geom.Add(auto, t.Offset())
	if t.Mode == glyph.ModeAbsolute {
		offset = t.Offset()
	}
	placed := shaped.Translate(offset).Tag(glyph.GroupID(i))
	pl := Placement{
		Index:  i,
		Code:   c.ch.Code,
		Auto:   auto,
		Offset: offset,
		Box:    box.Translate(offset),
	}
	return placed, pl, true
}

// autoOffset computes the automatic placement of a component with box
// against the accumulated box. Absolute components get the placement a
// relative one would have received.
func (g *Generator) autoOffset(ch *glyph.Character, t glyph.ComponentTransform, comp, prev *glyph.Character,
	base rune, box, accBox geom.Rect) arithm.Pair {
	//
	if t.Mode != glyph.ModeTouching && g.isMark(comp) {
		return g.attach(comp, base, box, accBox)
	}
	dx := accBox.BotR.X() - box.TopL.X()
	if t.Mode != glyph.ModeTouching && ch.Kind() == glyph.KindKern && prev != nil {
		dx += bearing(prev.RSB, g.ctx.Metrics.DefaultRSB)
		dx += bearing(comp.LSB, g.ctx.Metrics.DefaultLSB)
		dx += g.ctx.Pairs.kern(prev.Code, comp.Code)
	}
	return arithm.P(dx, 0)
}

func (g *Generator) isMark(comp *glyph.Character) bool {
	if comp.Class == glyph.ClassMark {
		return true
	}
	_, ok := g.ctx.Rules.attachmentFor(comp.Name, g.ctx.expander())
	return ok
}

// attach places a mark centered over (or under) the accumulated box.
// An entry in the positioning table for (base, mark) takes precedence.
func (g *Generator) attach(mark *glyph.Character, base rune, box, accBox geom.Rect) arithm.Pair {
	if v, ok := g.ctx.Pairs.position(base, mark.Code); ok {
		return v
	}
	rule, _ := g.ctx.Rules.attachmentFor(mark.Name, g.ctx.expander())
	gap := rule.Gap
	if gap == 0 {
		gap = g.ctx.Metrics.MarkGap
	}
	dx := accBox.Center().X() - box.Center().X()
	var dy float64
	if rule.Anchor == AnchorBelow {
		dy = accBox.BotR.Y() + gap - box.TopL.Y()
	} else {
		dy = accBox.TopL.Y() - gap - box.BotR.Y()
	}
	switch rule.Axis {
	case AxisHorizontal:
		dy = 0
	case AxisVertical:
		dx = 0
	}
	return arithm.P(dx, dy)
}

func bearing(v, dflt float64) float64 {
	if v == 0 {
		return dflt
	}
	return v
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
