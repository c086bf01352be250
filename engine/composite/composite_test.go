package composite

import (
	"math"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/glyphlink/core/geom"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(x0, y0, x1, y1 float64) glyph.Path {
	return glyph.Path{Points: []arithm.Pair{
		arithm.P(x0, y0), arithm.P(x1, y0), arithm.P(x1, y1), arithm.P(x0, y1),
	}, Closed: true}
}

func fixture(t *testing.T, more ...*glyph.Character) (*glyph.Index, glyph.Map) {
	chars := []*glyph.Character{
		{Name: "A", Code: 'A', RSB: 5},
		{Name: "B", Code: 'B', LSB: 7},
		{Name: "C", Code: 'C'},
		{Name: "acutecomb", Code: 0x301, Class: glyph.ClassMark},
	}
	inx, err := glyph.NewIndex(append(chars, more...)...)
	require.NoError(t, err)
	src := glyph.Map{
		'A':   {rect(0, 0, 100, 100)},
		'B':   {rect(0, 0, 50, 100)},
		0x301: {rect(0, 0, 20, 10)},
	}
	return inx, src
}

func generator(inx *glyph.Index, src glyph.Source) *Generator {
	return New(Context{
		Lookup:  inx,
		Source:  src,
		Metrics: config.Metrics{MarkGap: 10},
		Pairs:   NewPairs(),
	})
}

func groupBox(t *testing.T, g glyph.GlyphData, i int) geom.Rect {
	box, ok := g.Group(i).BBox(0)
	require.True(t, ok, "component %d has no paths", i)
	return box
}

func TestAdjacentPlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ab := &glyph.Character{Name: "AB", Code: 0xE000, Link: []string{"A", "B"}}
	inx, src := fixture(t, ab)
	data, err := generator(inx, src).Generate(ab)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "component-0", data[0].GroupID)
	assert.Equal(t, "component-1", data[1].GroupID)
	assert.True(t, groupBox(t, data, 1).Near(geom.R(100, 0, 150, 100), 0))
}

func TestWideningShiftsFollower(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ab := &glyph.Character{Name: "AB", Code: 0xE000, Link: []string{"A", "B"}}
	inx, src := fixture(t, ab)
	before, err := generator(inx, src).Generate(ab)
	require.NoError(t, err)
	//
	src['A'] = glyph.GlyphData{rect(0, 0, 120, 100)}
	gen := generator(inx, src)
	_, ok := gen.Patch(ab, before, 0)
	assert.False(t, ok, "patching A would leave B in place")
	after, err := gen.Generate(ab)
	require.NoError(t, err)
	assert.Equal(t, 120.0, groupBox(t, after, 1).TopL.X())
	moved := src['B'][0].Translate(arithm.P(120, 0))
	moved.GroupID = glyph.GroupID(1)
	assert.True(t, after.Group(1)[0].Equal(moved), "B is only translated")
}

func TestDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ch := &glyph.Character{Name: "Aacute", Code: 'Á', Link: []string{"A", "acutecomb"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 1.5, Rotation: 30, X: 2}}}
	inx, src := fixture(t, ch)
	gen := generator(inx, src)
	d1, p1, err := gen.Layout(ch)
	require.NoError(t, err)
	d2, p2, err := gen.Layout(ch)
	require.NoError(t, err)
	assert.True(t, d1.Equal(d2))
	assert.Equal(t, p1, p2)
}

func TestMarkAttachment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ch := &glyph.Character{Name: "Aacute", Code: 'Á', Link: []string{"A", "acutecomb"}}
	inx, src := fixture(t, ch)
	gen := generator(inx, src)
	_, pl, err := gen.Layout(ch)
	require.NoError(t, err)
	require.Len(t, pl, 2)
	// centered over A, gap of 10 above its top edge
	assert.True(t, geom.Near(pl[1].Offset, arithm.P(40, -20), 1e-9), pl[1].Offset)
	assert.True(t, pl[1].Box.Near(geom.R(40, -20, 60, -10), 1e-9))
	//
	gen.ctx.Rules = Rules{Attachments: []Attachment{{Class: "acute*", Axis: AxisHorizontal}}}
	_, pl, err = gen.Layout(ch)
	require.NoError(t, err)
	assert.True(t, geom.Near(pl[1].Offset, arithm.P(40, 0), 1e-9), pl[1].Offset)
	//
	gen.ctx.Rules = Rules{Attachments: []Attachment{{Class: "acutecomb", Anchor: AnchorBelow, Gap: 4}}}
	_, pl, err = gen.Layout(ch)
	require.NoError(t, err)
	assert.True(t, geom.Near(pl[1].Offset, arithm.P(40, 104), 1e-9), pl[1].Offset)
	//
	gen.ctx.Pairs.Positioning[PairKey{'A', 0x301}] = arithm.P(5, 5)
	_, pl, err = gen.Layout(ch)
	require.NoError(t, err)
	assert.True(t, geom.Near(pl[1].Offset, arithm.P(5, 5), 0))
}

func TestPlacementModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	inx, src := fixture(t)
	gen := generator(inx, src)
	layout := func(ch *glyph.Character) []Placement {
		_, pl, err := gen.Layout(ch)
		require.NoError(t, err)
		return pl
	}
	touching := &glyph.Character{Name: "t", Link: []string{"A", "B"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 1, X: 3, Mode: glyph.ModeTouching}}}
	assert.Equal(t, 103.0, layout(touching)[1].Box.TopL.X())
	//
	absolute := &glyph.Character{Name: "a", Link: []string{"A", "B"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 1, X: 10, Y: 20, Mode: glyph.ModeAbsolute}}}
	pl := layout(absolute)
	assert.True(t, pl[1].Box.Near(geom.R(10, 20, 60, 120), 0))
	assert.True(t, geom.Near(pl[1].Auto, arithm.P(100, 0), 0), "auto placement is still reported")
	//
	scaled := &glyph.Character{Name: "s", Link: []string{"A", "B"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 2}}}
	assert.True(t, layout(scaled)[1].Box.Near(geom.R(100, -50, 200, 150), 1e-9))
	//
	gen.ctx.Pairs.Kerning[PairKey{'A', 'B'}] = -2
	kerned := &glyph.Character{Name: "k", Kern: []string{"A", "B"}}
	assert.Equal(t, 110.0, layout(kerned)[1].Box.TopL.X(), "100 + rsb 5 + lsb 7 - 2")
}

func TestMissingComponents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ch := &glyph.Character{Name: "x", Link: []string{"A", "ghost", "C", "ghost"}}
	inx, src := fixture(t)
	gen := generator(inx, src)
	data, err := gen.Generate(ch)
	assert.Nil(t, data)
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Contains(t, core.UserMessage(err), "ghost, C")
	assert.Equal(t, []string{"ghost", "C"}, gen.Missing(ch))
}

func TestPatchEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ch := &glyph.Character{Name: "Aacute", Code: 'Á', Link: []string{"A", "acutecomb"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 1.2, Rotation: 10, X: 3, Y: -1}}}
	inx, src := fixture(t, ch)
	current, err := generator(inx, src).Generate(ch)
	require.NoError(t, err)
	//
	src[0x301] = glyph.GlyphData{rect(0, 0, 30, 12)}
	gen := generator(inx, src)
	patched, ok := gen.Patch(ch, current, 1)
	require.True(t, ok)
	full, err := gen.Generate(ch)
	require.NoError(t, err)
	assert.True(t, patched.Near(full, 1e-9))
	assert.True(t, patched.Group(0).Equal(current.Group(0)), "base paths untouched")
	//
	// inner change of the base keeps its box, so the mark stays put
	src['A'] = glyph.GlyphData{rect(0, 0, 100, 100), rect(20, 40, 80, 60)}
	gen = generator(inx, src)
	patched, ok = gen.Patch(ch, full, 0)
	require.True(t, ok)
	full, err = gen.Generate(ch)
	require.NoError(t, err)
	assert.True(t, patched.Near(full, 1e-9))
	assert.Len(t, patched, 3)
}

func TestPatchInfeasible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	ch := &glyph.Character{Name: "Aacute", Code: 'Á', Link: []string{"A", "acutecomb"}}
	inx, src := fixture(t, ch)
	gen := generator(inx, src)
	current, err := gen.Generate(ch)
	require.NoError(t, err)
	//
	_, ok := gen.Patch(ch, current.Before(1), 1)
	assert.False(t, ok, "no prior contribution")
	_, ok = gen.Patch(ch, current, 5)
	assert.False(t, ok, "index out of range")
	//
	src[0x301] = glyph.GlyphData{rect(0, 0, math.NaN(), 10)}
	_, ok = gen.Patch(ch, current, 1)
	assert.False(t, ok, "degenerate box")
}

func TestPatchAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.composite")
	defer teardown()
	//
	aa := &glyph.Character{Name: "AA", Code: 0xE001, Link: []string{"A", "A"},
		CompositeTransform: []glyph.ComponentTransform{{Scale: 1}, {Scale: 1, X: 120, Mode: glyph.ModeAbsolute}}}
	inx, src := fixture(t, aa)
	current, err := generator(inx, src).Generate(aa)
	require.NoError(t, err)
	//
	src['A'] = glyph.GlyphData{rect(0, 0, 90, 100)}
	gen := generator(inx, src)
	patched, ok := gen.PatchAll(aa, current, []int{1, 0})
	require.True(t, ok, "second copy is absolute, so the first may change its box")
	full, err := gen.Generate(aa)
	require.NoError(t, err)
	assert.True(t, patched.Near(full, 1e-9))
}

func TestPairsPurge(t *testing.T) {
	p := NewPairs()
	p.Positioning[PairKey{'A', 0x301}] = arithm.P(1, 1)
	p.Kerning[PairKey{'V', 'A'}] = -40
	p.Kerning[PairKey{'V', 'o'}] = -20
	assert.Equal(t, 2, p.Purge('A'))
	assert.Len(t, p.Kerning, 1)
	assert.Empty(t, p.Positioning)
}
