/*
Package fontimport reads glyph outlines from TrueType/OpenType fonts and turns
them into glyph data, for bulk import of authored glyphs.

Outlines are returned in font units with the y axis growing downward and the
baseline at y=0. Quadratic segments are converted to cubic handles.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontimport

import (
	"fmt"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/geom"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'glyphlink.import'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.import")
}

// Font wraps a parsed font.
type Font struct {
	f    *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6
}

// Parse parses TrueType or OpenType font data.
func Parse(data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font")
	}
	return &Font{f: f, ppem: fixed.I(int(f.UnitsPerEm()))}, nil
}

// Outline is an imported glyph.
type Outline struct {
	Name    string
	Code    rune
	Advance float64
	Data    glyph.GlyphData
}

// Outline loads the glyph for rune r.
func (font *Font) Outline(r rune) (Outline, error) {
	x, err := font.f.GlyphIndex(&font.buf, r)
	if err != nil {
		return Outline{}, core.WrapError(err, core.EINTERNAL, "glyph lookup for U+%04X failed", r)
	}
	if x == 0 {
		return Outline{}, core.Error(core.EMISSING, "font has no glyph for U+%04X", r)
	}
	name, err := font.f.GlyphName(&font.buf, x)
	if err != nil || name == "" {
		name = fmt.Sprintf("uni%04X", r)
	}
	adv, err := font.f.GlyphAdvance(&font.buf, x, font.ppem, xfont.HintingNone)
	if err != nil {
		return Outline{}, core.WrapError(err, core.EINTERNAL, "cannot get advance of %s", name)
	}
	segs, err := font.f.LoadGlyph(&font.buf, x, font.ppem, nil)
	if err != nil {
		return Outline{}, core.WrapError(err, core.EINTERNAL, "cannot load outline of %s", name)
	}
	tracer().Debugf("imported %s (U+%04X) with %d segments", name, r, len(segs))
	return Outline{Name: name, Code: r, Advance: float26_6(adv), Data: convert(segs)}, nil
}

// Import loads outlines for several runes and registers a character for each
// of them. Runes missing from the font are skipped and reported.
func (font *Font) Import(runes []rune, inx *glyph.Index) (glyph.Map, []rune, error) {
	data := make(glyph.Map, len(runes))
	var missing []rune
	for _, r := range runes {
		o, err := font.Outline(r)
		if core.Is(err, core.EMISSING) {
			missing = append(missing, r)
			continue
		} else if err != nil {
			return nil, missing, err
		}
		ch, exists := inx.ByCode(r)
		if !exists {
			ch = &glyph.Character{Name: o.Name, Code: r, Advance: o.Advance}
			if err := inx.Add(ch); err != nil {
				return nil, missing, err
			}
		}
		data[ch.Code] = o.Data
	}
	return data, missing, nil
}

func float26_6(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

func point(p fixed.Point26_6) arithm.Pair {
	return arithm.P(float26_6(p.X), float26_6(p.Y))
}

// convert turns sfnt segments into closed curve paths.
func convert(segs sfnt.Segments) glyph.GlyphData {
	var paths glyph.GlyphData
	var cur []glyph.Segment
	flush := func() {
		if len(cur) == 0 {
			return
		}
		// contours usually repeat their start point at the end
		n := len(cur)
		if n > 1 && geom.Near(cur[0].Point, cur[n-1].Point, 1e-9) {
			cur[0].In = cur[n-1].In
			cur = cur[:n-1]
		}
		paths = append(paths, glyph.Path{Segments: cur, Closed: true})
		cur = nil
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			cur = append(cur, glyph.Segment{Point: point(s.Args[0])})
		case sfnt.SegmentOpLineTo:
			cur = append(cur, glyph.Segment{Point: point(s.Args[0])})
		case sfnt.SegmentOpQuadTo:
			p0 := cur[len(cur)-1].Point
			q, p3 := point(s.Args[0]), point(s.Args[1])
			c1 := geom.Lerp(p0, q, 2.0/3)
			c2 := geom.Lerp(p3, q, 2.0/3)
			cur[len(cur)-1].Out = geom.Sub(c1, p0)
			cur = append(cur, glyph.Segment{Point: p3, In: geom.Sub(c2, p3)})
		case sfnt.SegmentOpCubeTo:
			p0 := cur[len(cur)-1].Point
			c1, c2, p3 := point(s.Args[0]), point(s.Args[1]), point(s.Args[2])
			cur[len(cur)-1].Out = geom.Sub(c1, p0)
			cur = append(cur, glyph.Segment{Point: p3, In: geom.Sub(c2, p3)})
		}
	}
	flush()
	return paths
}
