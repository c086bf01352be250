package glyph

import (
	"encoding/json"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x0, y0, x1, y1 float64) Path {
	return Path{Points: []arithm.Pair{
		arithm.P(x0, y0), arithm.P(x1, y0), arithm.P(x1, y1), arithm.P(x0, y1),
	}, Closed: true}
}

func TestCharacterKind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	ch := &Character{Name: "Aacute", Link: []string{"A", "acute"}}
	assert.Equal(t, KindLink, ch.Kind())
	assert.Equal(t, []string{"A", "acute"}, ch.Components())
	assert.NoError(t, ch.Validate())
	assert.Equal(t, []int{0}, ch.IndicesOf("A"))
	//
	ch.Kern = []string{"A", "V"}
	err := ch.Validate()
	assert.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
	//
	ch.SetDerivation(KindPosition, []string{"A", "acute"})
	assert.Equal(t, KindPosition, ch.Kind())
	assert.Nil(t, ch.Link)
	assert.Nil(t, ch.Kern)
	ch.Sever()
	assert.Equal(t, KindNone, ch.Kind())
	assert.Nil(t, ch.Components())
}

func TestCharacterValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	self := &Character{Name: "A", Link: []string{"A"}}
	assert.Equal(t, core.ECYCLE, core.Code(self.Validate()))
	neg := &Character{Name: "B", Link: []string{"A"},
		CompositeTransform: []ComponentTransform{{Scale: -1}}}
	assert.Equal(t, core.EINVALID, core.Code(neg.Validate()))
	pair := &Character{Name: "AV", Kern: []string{"A"}}
	assert.Equal(t, core.EINVALID, core.Code(pair.Validate()))
	assert.Equal(t, core.EINVALID, core.Code((&Character{}).Validate()))
}

func TestCharacterClone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	ch := &Character{Name: "x", Link: []string{"a"},
		CompositeTransform: []ComponentTransform{{Scale: 2}}}
	c := ch.Clone()
	c.Link[0] = "b"
	c.CompositeTransform[0].Scale = 3
	assert.Equal(t, "a", ch.Link[0])
	assert.Equal(t, 2.0, ch.CompositeTransform[0].Scale)
	assert.Equal(t, ComponentTransform{Scale: 1}, ch.TransformAt(5))
}

func TestParseNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	k, err := ParseKind("Kern")
	assert.NoError(t, err)
	assert.Equal(t, KindKern, k)
	c, err := ParseClass("mark")
	assert.NoError(t, err)
	assert.Equal(t, ClassMark, c)
	m, err := ParseMode("touching")
	assert.NoError(t, err)
	assert.Equal(t, ModeTouching, m)
	_, err = ParseMode("sideways")
	assert.Error(t, err)
	assert.Equal(t, 1.0, ComponentTransform{}.EffectiveScale())
}

func TestGroupIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	assert.Equal(t, "component-3", GroupID(3))
	i, ok := ParseGroupID("component-12")
	assert.True(t, ok)
	assert.Equal(t, 12, i)
	_, ok = ParseGroupID("stroke-1")
	assert.False(t, ok)
	_, ok = ParseGroupID("component--1")
	assert.False(t, ok)
	//
	g := GlyphData{tagged(box(0, 0, 1, 1), 0), box(0, 0, 2, 2), box(0, 0, 3, 3)}
	g[1].GroupID = GroupID(1)
	g[2].GroupID = GroupID(2)
	assert.Len(t, g.Group(1), 1)
	assert.Len(t, g.Before(2), 2)
}

func tagged(p Path, i int) Path {
	p.GroupID = GroupID(i)
	return p
}

func TestGlyphBBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	g := GlyphData{box(0, 0, 100, 50), box(20, -10, 40, 10)}
	r, ok := g.BBox(0)
	require.True(t, ok)
	assert.Equal(t, 0.0, r.TopL.X())
	assert.Equal(t, -10.0, r.TopL.Y())
	assert.Equal(t, 100.0, r.BotR.X())
	assert.Equal(t, 50.0, r.BotR.Y())
	thick, _ := g.BBox(4)
	assert.Equal(t, -2.0, thick.TopL.X())
	assert.Equal(t, 102.0, thick.BotR.X())
	_, ok = GlyphData{}.BBox(2)
	assert.False(t, ok)
}

func TestCurveBBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	arch := Path{Segments: []Segment{
		{Point: arithm.P(0, 0), Out: arithm.P(0, 100)},
		{Point: arithm.P(100, 0), In: arithm.P(0, 100)},
	}}
	r, ok := arch.BBox()
	require.True(t, ok)
	assert.InDelta(t, 75.0, r.BotR.Y(), 1e-9)
	moved := arch.Translate(arithm.P(10, 0))
	assert.Equal(t, arithm.P(0, 100), moved.Segments[0].Out)
	assert.Equal(t, arithm.P(10, 0), moved.Segments[0].Point)
}

func TestPathJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	g := GlyphData{
		tagged(box(0, 0, 10, 10), 0),
		{Segments: []Segment{{Point: arithm.P(1, 2), Out: arithm.P(3, 0)}, {Point: arithm.P(5, 5)}}},
	}
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groupId":"component-0"`)
	var back GlyphData
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, g.Equal(back))
}

func TestIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	inx, err := NewIndex(
		&Character{Name: "A", Code: 'A'},
		&Character{Name: "acute", Code: 0x301, Class: ClassMark},
		&Character{Name: "acute.cap"},
		&Character{Name: "grave", Code: 0x300, Class: ClassMark},
	)
	require.NoError(t, err)
	assert.Equal(t, 4, inx.Len())
	ch, ok := inx.Character("acute.cap")
	require.True(t, ok)
	assert.Equal(t, firstPrivateCode, ch.Code)
	assert.Equal(t, []string{"acute", "acute.cap"}, inx.Expand("acute*"))
	assert.Equal(t, []string{"grave"}, inx.Expand("grave"))
	assert.Empty(t, inx.Expand("breve"))
	//
	err = inx.Add(&Character{Name: "B", Code: 'A'})
	assert.Equal(t, core.EINVALID, core.Code(err))
	inx.Remove(0x301)
	_, ok = inx.Character("acute")
	assert.False(t, ok)
	assert.Equal(t, []string{"acute.cap"}, inx.Expand("acute*"))
	all := inx.All()
	assert.Equal(t, rune('A'), all[0].Code)
	codes, unknown := Codes(inx, []string{"A", "nope"})
	assert.Equal(t, []rune{'A'}, codes)
	assert.Equal(t, []string{"nope"}, unknown)
}

func TestHobbyStroke(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	knots := []arithm.Pair{arithm.P(0, 0), arithm.P(50, 50), arithm.P(100, 65)}
	p, err := HobbyStroke(knots, false)
	require.NoError(t, err)
	require.Len(t, p.Segments, 3)
	for i, k := range knots {
		assert.InDelta(t, k.X(), p.Segments[i].Point.X(), 1e-9)
		assert.InDelta(t, k.Y(), p.Segments[i].Point.Y(), 1e-9)
	}
	assert.Equal(t, arithm.Origin, p.Segments[0].In)
	assert.Equal(t, arithm.Origin, p.Segments[2].Out)
	r, ok := p.BBox()
	require.True(t, ok)
	assert.True(t, r.TopL.X() <= 1e-9)
	assert.True(t, r.BotR.X() >= 100-1e-9)
	_, err = HobbyStroke(knots[:1], false)
	assert.Error(t, err)
}

func TestSuggestComponents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	inx, err := NewIndex(
		&Character{Name: "A", Code: 'A'},
		&Character{Name: "acutecomb", Code: 0x301, Class: ClassMark},
	)
	require.NoError(t, err)
	names, missing := SuggestComponents('Á', inx)
	assert.Equal(t, []string{"A", "acutecomb"}, names)
	assert.Empty(t, missing)
	names, missing = SuggestComponents('Ā', inx)
	assert.Nil(t, names)
	assert.Equal(t, []rune{0x304}, missing)
	names, _ = SuggestComponents('B', inx)
	assert.Nil(t, names)
}

func TestFingerprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphlink.glyph")
	defer teardown()
	//
	g := GlyphData{box(0, 0, 10, 10)}
	meta := &Character{Name: "o", Code: 'o'}
	f1, err := Fingerprint(g, meta)
	require.NoError(t, err)
	f2, _ := Fingerprint(g.Clone(), meta.Clone())
	assert.Equal(t, f1, f2)
	f3, _ := Fingerprint(GlyphData{box(0, 0, 10, 11)}, meta)
	assert.NotEqual(t, f1, f3)
	meta.RSB = 5
	f4, _ := Fingerprint(g, meta)
	assert.NotEqual(t, f1, f4)
}
