package session

import (
	"context"
	"strings"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/engine/cascade"
)

func (s *Session) save(ctx context.Context, cmd SaveCommand) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	//
	current, exists := s.chars.ByCode(cmd.Code)
	if cmd.Code == 0 {
		exists = false
	}
	meta := cmd.Meta
	if meta == nil {
		if !exists {
			return core.Error(core.EMISSING, "no character at U+%04X", cmd.Code)
		}
		meta = current
	}
	meta = meta.Clone()
	meta.Code = cmd.Code
	if err := meta.Validate(); err != nil {
		return err
	}
	if exists && meta.Name != current.Name {
		return core.Error(core.EINVALID, "cannot rename %s to %s, names are stable", current.Name, meta.Name)
	}
	if !exists {
		if other, dup := s.chars.Character(meta.Name); dup {
			return core.Error(core.EINVALID, "name %s is taken by U+%04X", meta.Name, other.Code)
		}
	}
	newComps := s.codes(meta.Components())
	if exists && s.graph.WouldCycle(cmd.Code, newComps) {
		return core.Error(core.ECYCLE, "deriving %s from %s would create a cycle",
			meta.Name, strings.Join(meta.Components(), ", "))
	}
	if exists && !s.pending[meta.Code] && s.isNoOp(current, meta, cmd.Geometry) {
		tracer().Debugf("save of %s changes nothing", meta.Name)
		return nil
	}
	// apply metadata; undone unless the batch reaches the store
	var oldComps []rune
	if exists {
		oldComps = s.codes(current.Components())
		if err := s.chars.Replace(meta); err != nil {
			return err
		}
	} else if err := s.chars.Add(meta); err != nil {
		return err
	}
	s.graph.OnLinkChanged(meta.Code, oldComps, newComps)
	committed := false
	defer func() {
		if committed {
			return
		}
		s.graph.OnLinkChanged(meta.Code, newComps, oldComps)
		if exists {
			_ = s.chars.Replace(current)
		} else {
			s.chars.Remove(meta.Code)
		}
		tracer().Debugf("save of %s rolled back", meta.Name)
	}()
	//
	batch := Batch{
		Glyphs:     map[rune]glyph.GlyphData{meta.Code: cmd.Geometry},
		Characters: []*glyph.Character{meta},
	}
	if cmd.Options.Draft {
		tracer().Debugf("draft save of %s", meta.Name)
		if err := s.store.Commit(ctx, batch); err != nil {
			return err
		}
		committed = true
		s.pending[meta.Code] = true
		return nil
	}
	res, err := s.scheduler(s.store.Snapshot()).Run(ctx, cascade.Request{
		Source:   meta.Code,
		Geometry: cmd.Geometry,
	})
	if err != nil {
		if core.Is(err, core.ECANCELED) {
			tracer().Infof("save of %s abandoned: %v", meta.Name, err)
			return nil
		}
		return err
	}
	for c, g := range res.Updates {
		batch.Glyphs[c] = g
	}
	if err := s.store.Commit(ctx, batch); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot commit %d glyphs", len(batch.Glyphs))
	}
	committed = true
	delete(s.pending, meta.Code)
	if !cmd.Options.Silent {
		s.notifier.Summary(res.Summary)
	}
	if len(res.Summary.Missing) > 0 {
		s.notifier.Warn(core.Error(core.EMISSING, "glyphs derived from %s could not be updated, missing: %s",
			meta.Name, strings.Join(res.Summary.Missing, ", ")))
	}
	if cmd.Options.OnSuccess != nil {
		cmd.Options.OnSuccess(res.Summary)
	}
	return nil
}

// isNoOp compares fingerprints of stored and new state.
func (s *Session) isNoOp(current, meta *glyph.Character, geometry glyph.GlyphData) bool {
	stored, _ := s.store.Glyph(current.Code)
	before, err := glyph.Fingerprint(stored, current)
	if err != nil {
		return false
	}
	after, err := glyph.Fingerprint(geometry, meta)
	return err == nil && before == after
}
