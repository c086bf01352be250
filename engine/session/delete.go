package session

import (
	"context"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
)

// delete bakes every direct dependent of code into a free-standing glyph,
// then removes code from the project. Dependents, removal and pair-table
// cleanup are committed as one batch.
func (s *Session) delete(ctx context.Context, code rune) error {
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
	gen := s.generator(s.store.Snapshot())
	batch := Batch{
		Glyphs:  make(map[rune]glyph.GlyphData),
		Deletes: []rune{code},
	}
	for _, d := range s.graph.DependentsOf(code) {
		dep, ok := s.chars.ByCode(d)
		if !ok {
			continue
		}
		cached, _ := s.store.Glyph(d)
		baked := cached
		if dep.Kind() != glyph.KindComposite {
			if data, err := gen.Generate(dep); err == nil {
				baked = data
			} else {
				tracer().Debugf("baking %s from cached geometry: %v", dep.Name, err)
			}
		}
		severed := dep.Clone()
		severed.Sever()
		batch.Characters = append(batch.Characters, severed)
		if baked.Drawn() {
			batch.Glyphs[d] = baked
		}
		tracer().Debugf("baked %s, no longer derived from %s", dep.Name, ch.Name)
	}
	if err := s.store.Commit(ctx, batch); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot delete %s", ch.Name)
	}
	// the store is consistent, now adjust the in-memory state
	for _, severed := range batch.Characters {
		if dep, ok := s.chars.ByCode(severed.Code); ok {
			s.graph.OnLinkChanged(severed.Code, s.codes(dep.Components()), nil)
		}
		if err := s.chars.Replace(severed); err != nil {
			tracer().Errorf("cannot update %s: %v", severed.Name, err)
		}
	}
	s.graph.Remove(code)
	s.chars.Remove(code)
	delete(s.pending, code)
	purged := s.pairs.Purge(code)
	tracer().Infof("deleted %s, baked %d dependents, purged %d pair entries",
		ch.Name, len(batch.Characters), purged)
	return nil
}
