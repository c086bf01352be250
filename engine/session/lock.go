package session

import (
	"context"
	"math"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
)

// Offsets closer to zero than this are snapped to zero on relink.
const snapTolerance = 1e-9

// unlock turns a link, position or kern glyph into a composite snapshot.
// Every component receives an absolute placement equal to where it is
// placed now, so the glyph looks the same.
func (s *Session) unlock(ctx context.Context, code rune) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	//
	ch, err := s.character(code)
	if err != nil {
		return err
	}
	kind := ch.Kind()
	if !kind.AutoUpdates() {
		return core.Error(core.EINVALID, "%s is a %s, only links and pairs can be unlocked", ch.Name, kind)
	}
	data, placements, err := s.generator(s.store).Layout(ch)
	if err != nil {
		return err
	}
	frozen := ch.Clone()
	comps := ch.Components()
	frozen.SourceLink = append([]string(nil), comps...)
	frozen.SourceLinkType = kind
	frozen.SetDerivation(glyph.KindComposite, comps)
	frozen.CompositeTransform = make([]glyph.ComponentTransform, len(placements))
	for i, p := range placements {
		t := ch.TransformAt(i)
		t.X, t.Y = p.Offset.X(), p.Offset.Y()
		t.Mode = glyph.ModeAbsolute
		frozen.CompositeTransform[i] = t
	}
	batch := Batch{Characters: []*glyph.Character{frozen}}
	if cached, _ := s.store.Glyph(code); !cached.Drawn() || ch.Ephemeral {
		batch.Glyphs = map[rune]glyph.GlyphData{code: data}
	}
	frozen.Ephemeral = false
	if err := s.store.Commit(ctx, batch); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot unlock %s", ch.Name)
	}
	tracer().Debugf("unlocked %s (was %s)", ch.Name, kind)
	return s.chars.Replace(frozen)
}

// relink restores the derivation of an unlocked composite. Absolute
// placements become offsets relative to automatic placement, so the glyph
// looks the same.
func (s *Session) relink(ctx context.Context, code rune) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	//
	ch, err := s.character(code)
	if err != nil {
		return err
	}
	if ch.Kind() != glyph.KindComposite || len(ch.SourceLink) == 0 || !ch.SourceLinkType.AutoUpdates() {
		return core.Error(core.EINVALID, "%s has no derivation to return to", ch.Name)
	}
	linked := ch.Clone()
	linked.SetDerivation(ch.SourceLinkType, ch.SourceLink)
	if len(linked.CompositeTransform) > len(ch.SourceLink) {
		linked.CompositeTransform = linked.CompositeTransform[:len(ch.SourceLink)]
	}
	linked.SourceLink, linked.SourceLinkType = nil, glyph.KindNone
	if err := linked.Validate(); err != nil {
		return err
	}
	newComps := s.codes(linked.Components())
	if s.graph.WouldCycle(code, newComps) {
		return core.Error(core.ECYCLE, "relinking %s would create a cycle", ch.Name)
	}
	_, placements, err := s.generator(s.store).Layout(linked)
	if err != nil {
		return err
	}
	neutral := true
	for i, p := range placements {
		if i >= len(linked.CompositeTransform) {
			break
		}
		t := linked.CompositeTransform[i]
		if t.Mode == glyph.ModeAbsolute {
			t.X = snap(p.Offset.X() - p.Auto.X())
			t.Y = snap(p.Offset.Y() - p.Auto.Y())
			t.Mode = glyph.ModeRelative
		}
		linked.CompositeTransform[i] = t
		neutral = neutral && t.IsNeutral() && t.X == 0 && t.Y == 0 && t.Mode == glyph.ModeRelative
	}
	if neutral {
		linked.CompositeTransform = nil
	}
	if err := s.store.Commit(ctx, Batch{Characters: []*glyph.Character{linked}}); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot relink %s", ch.Name)
	}
	s.graph.OnLinkChanged(code, s.codes(ch.Components()), newComps)
	tracer().Debugf("relinked %s as %s", ch.Name, linked.Kind())
	return s.chars.Replace(linked)
}

func snap(v float64) float64 {
	if math.Abs(v) < snapTolerance {
		return 0
	}
	return v
}
