package glyphdef

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/core/glyph/fontimport"
	"github.com/npillmayer/glyphlink/engine/composite"
)

// Project is the result of building definitions: characters, authored
// geometry, rules and pair tables, ready to open a session with.
type Project struct {
	Index    *glyph.Index
	Authored glyph.Map
	Rules    composite.Rules
	Pairs    *composite.Pairs
	Missing  []rune // requested for import but not in the font
}

// Build turns definitions into a project. Outlines are imported from font,
// which may be nil.
func (d *Definitions) Build(font *fontimport.Font) (*Project, error) {
	inx, err := glyph.NewIndex()
	if err != nil {
		return nil, err
	}
	p := &Project{Index: inx, Authored: glyph.Map{}, Pairs: composite.NewPairs()}
	var autos []*glyph.Character
	var imports []rune
	for i := range d.Characters {
		def := &d.Characters[i]
		ch, auto, err := def.character()
		if err != nil {
			return nil, err
		}
		if err := inx.Add(ch); err != nil {
			return nil, err
		}
		if auto {
			autos = append(autos, ch)
		}
		if len(def.Knots) > 0 {
			knots := make([]arithm.Pair, len(def.Knots))
			for k, kn := range def.Knots {
				knots[k] = arithm.P(kn[0], kn[1])
			}
			path, err := glyph.HobbyStroke(knots, def.Cycle)
			if err != nil {
				return nil, core.WrapError(err, core.EINVALID, "cannot build stroke of %s", ch.Name)
			}
			p.Authored[ch.Code] = glyph.GlyphData{path}
		} else if ch.Kind() == glyph.KindNone && !auto {
			imports = append(imports, ch.Code)
		}
	}
	imports = append(imports, []rune(d.Import)...)
	if font != nil && len(imports) > 0 {
		outlines, missing, err := font.Import(imports, inx)
		if err != nil {
			return nil, err
		}
		for c, g := range outlines {
			if _, authored := p.Authored[c]; !authored {
				p.Authored[c] = g
			}
		}
		p.Missing = missing
		tracer().Infof("imported %d outlines, %d not in font", len(outlines), len(missing))
	}
	for _, ch := range autos {
		names, missing := glyph.SuggestComponents(ch.Code, inx)
		if len(names) == 0 {
			return nil, core.Error(core.EMISSING, "%s: no components for decomposition, missing %s",
				ch.Name, codeList(missing))
		}
		ch.SetDerivation(glyph.KindLink, names)
		if err := ch.Validate(); err != nil {
			return nil, err
		}
	}
	if err := d.tables(p, inx); err != nil {
		return nil, err
	}
	return p, nil
}

// character converts a definition. The second return value requests
// automatic components.
func (def *CharDef) character() (*glyph.Character, bool, error) {
	ch := &glyph.Character{
		Name:      def.Name,
		Code:      rune(def.Code),
		Ephemeral: def.Ephemeral,
		LSB:       def.LSB,
		RSB:       def.RSB,
		Advance:   def.Advance,
	}
	if def.Char != "" {
		r, size := utf8.DecodeRuneInString(def.Char)
		if r == utf8.RuneError || size != len(def.Char) {
			return nil, false, core.Error(core.EINVALID, "%s: char must be a single character, is %q",
				def.Name, def.Char)
		}
		ch.Code = r
	}
	var err error
	if ch.Class, err = glyph.ParseClass(def.Class); err != nil {
		return nil, false, err
	}
	auto := false
	derivations := []struct {
		kind  glyph.Kind
		comps Components
	}{
		{glyph.KindLink, def.Link}, {glyph.KindComposite, def.Composite},
		{glyph.KindPosition, def.Position}, {glyph.KindKern, def.Kern},
	}
	for _, d := range derivations {
		kind, comps := d.kind, d.comps
		if comps.Empty() {
			continue
		}
		if ch.Kind() != glyph.KindNone || auto {
			return nil, false, core.Error(core.EINVALID, "%s has more than one derivation", def.Name)
		}
		if comps.Auto {
			if kind != glyph.KindLink {
				return nil, false, core.Error(core.EINVALID, "%s: only links can be derived automatically", def.Name)
			}
			auto = true
			continue
		}
		ch.SetDerivation(kind, comps.Names)
	}
	for _, t := range def.Transforms {
		mode, err := glyph.ParseMode(t.Mode)
		if err != nil {
			return nil, false, err
		}
		scale := t.Scale
		if scale == 0 {
			scale = 1
		}
		ch.CompositeTransform = append(ch.CompositeTransform, glyph.ComponentTransform{
			Scale: scale, Rotation: t.Rotation, X: t.X, Y: t.Y, Mode: mode,
		})
	}
	if auto {
		return ch, true, nil
	}
	return ch, false, ch.Validate()
}

func (d *Definitions) tables(p *Project, inx *glyph.Index) error {
	code := func(name string) (rune, error) {
		if ch, ok := inx.Character(name); ok {
			return ch.Code, nil
		}
		return 0, core.Error(core.EINVALID, "pair table references unknown character %q", name)
	}
	for _, r := range d.Rules {
		a := composite.Attachment{Class: r.Class, Gap: r.Gap}
		switch strings.ToLower(r.Anchor) {
		case "", "above":
		case "below":
			a.Anchor = composite.AnchorBelow
		default:
			return core.Error(core.EINVALID, "unknown anchor %q in rule for %s", r.Anchor, r.Class)
		}
		switch strings.ToLower(r.Axis) {
		case "", "both":
		case "horizontal":
			a.Axis = composite.AxisHorizontal
		case "vertical":
			a.Axis = composite.AxisVertical
		default:
			return core.Error(core.EINVALID, "unknown axis %q in rule for %s", r.Axis, r.Class)
		}
		p.Rules.Attachments = append(p.Rules.Attachments, a)
	}
	for _, k := range d.Kerning {
		l, err := code(k.Left)
		if err != nil {
			return err
		}
		r, err := code(k.Right)
		if err != nil {
			return err
		}
		p.Pairs.Kerning[composite.PairKey{Left: l, Right: r}] = k.Value
	}
	for _, pos := range d.Positioning {
		b, err := code(pos.Base)
		if err != nil {
			return err
		}
		m, err := code(pos.Mark)
		if err != nil {
			return err
		}
		p.Pairs.Positioning[composite.PairKey{Left: b, Right: m}] = arithm.P(pos.X, pos.Y)
	}
	return nil
}

func codeList(codes []rune) string {
	s := make([]string, len(codes))
	for i, c := range codes {
		s[i] = fmt.Sprintf("U+%04X", c)
	}
	return strings.Join(s, ", ")
}
