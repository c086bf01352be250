/*
Package cascade propagates an edit of one glyph to every glyph derived
from it.

A Scheduler discovers the glyphs reachable from the edited one, orders them
so that every glyph is computed after its own upstream glyphs, and
refreshes each auto-updating dependent by smart patch or, if that is
infeasible, by full generation. Results are folded into a working overlay,
so later glyphs always see the refreshed geometry of earlier ones.

The scheduler performs no writes. Run returns a description of the glyphs
to update, which the caller commits as one batch. Work is processed in
batches; between batches the scheduler yields and checks whether it is
still wanted. A cascade abandoned at such a point returns no result at all.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cascade

import (
	"context"
	"runtime"
	"sort"

	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/engine/composite"
	"github.com/npillmayer/glyphlink/engine/depgraph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.cascade'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.cascade")
}

// DefaultBatchSize is the number of dependents processed between two yields.
const DefaultBatchSize = 32

// Request is an edit to propagate.
type Request struct {
	Source   rune
	Geometry glyph.GlyphData
}

// Summary counts what a cascade did, for user-facing notification.
type Summary struct {
	Source          rune
	Touched         int      // glyphs with new geometry
	PairsRenderable int      // ephemeral pairs which became renderable
	Missing         []string // components preventing a refresh, sorted
	Patched         int
	Regenerated     int
}

// Result describes the glyphs to update. Order lists them in the order
// they were computed.
type Result struct {
	Updates map[rune]glyph.GlyphData
	Order   []rune
	Summary Summary
}

// Scheduler runs cascades over a dependency graph. The generator's source
// is the pre-edit snapshot of all glyph data.
type Scheduler struct {
	Graph     *depgraph.Graph
	Generator *composite.Generator
	BatchSize int
	Yield     func()      // called between batches, defaults to runtime.Gosched
	Alive     func() bool // liveness of the owning session, optional
}

// New creates a scheduler with default batching.
func New(graph *depgraph.Graph, gen *composite.Generator) *Scheduler {
	return &Scheduler{
		Graph:     graph,
		Generator: gen,
		BatchSize: DefaultBatchSize,
		Yield:     runtime.Gosched,
	}
}

// overlay layers cascade results over the snapshot.
type overlay struct {
	base glyph.Source
	over glyph.Map
}

func (o *overlay) Glyph(code rune) (glyph.GlyphData, bool) {
	if g, ok := o.over[code]; ok {
		return g, true
	}
	if o.base == nil {
		return nil, false
	}
	return o.base.Glyph(code)
}

// Run propagates req. Each reachable glyph is processed at most once. If
// ctx is canceled or the scheduler's owner is no longer alive at a batch
// boundary, Run returns an ECANCELED error and no result.
func (s *Scheduler) Run(ctx context.Context, req Request) (*Result, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	snapshot := s.Generator.Context().Source
	ov := &overlay{base: snapshot, over: glyph.Map{req.Source: req.Geometry}}
	gen := s.Generator.WithSource(ov)
	lookup := gen.Context().Lookup
	res := &Result{
		Updates: make(map[rune]glyph.GlyphData),
		Summary: Summary{Source: req.Source},
	}
	updated := map[rune]bool{req.Source: true}
	missing := map[string]bool{}
	batch := s.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	order := s.order(req.Source)
	tracer().Debugf("cascade from U+%04X reaches %d glyphs", req.Source, len(order))
	for n, code := range order {
		if n > 0 && n%batch == 0 {
			if s.Yield != nil {
				s.Yield()
			}
			if err := s.check(ctx); err != nil {
				tracer().Infof("cascade from U+%04X abandoned after %d of %d glyphs", req.Source, n, len(order))
				return nil, err
			}
		}
		ch, ok := lookup.ByCode(code)
		if !ok {
			tracer().Debugf("U+%04X is in the graph but not in the character set", code)
			continue
		}
		if !ch.Kind().AutoUpdates() {
			tracer().Debugf("%s is a %s, left as is", ch.Name, ch.Kind())
			continue
		}
		changed := changedIndices(ch, lookup, updated)
		if len(changed) == 0 {
			continue
		}
		if ch.Ephemeral {
			if allDrawn(ch, lookup, ov) && !allDrawn(ch, lookup, snapshot) {
				res.Summary.PairsRenderable++
			}
			// not stored, but glyphs derived from the pair see its new geometry
			updated[code] = true
			continue
		}
		data, patched, err := refresh(gen, ch, ov, changed)
		if err != nil {
			if core.Is(err, core.EMISSING) {
				for _, m := range gen.Missing(ch) {
					missing[m] = true
				}
			} else {
				tracer().Errorf("cannot refresh %s: %v", ch.Name, err)
			}
			continue
		}
		if patched {
			res.Summary.Patched++
		} else {
			res.Summary.Regenerated++
		}
		ov.over[code] = data
		updated[code] = true
		res.Updates[code] = data
		res.Order = append(res.Order, code)
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	res.Summary.Touched = len(res.Updates)
	for m := range missing {
		res.Summary.Missing = append(res.Summary.Missing, m)
	}
	sort.Strings(res.Summary.Missing)
	tracer().Infof("cascade from U+%04X: %d touched (%d patched), %d pairs renderable, missing %v",
		req.Source, res.Summary.Touched, res.Summary.Patched, res.Summary.PairsRenderable, res.Summary.Missing)
	return res, nil
}

func (s *Scheduler) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.WrapError(err, core.ECANCELED, "cascade canceled")
	}
	if s.Alive != nil && !s.Alive() {
		return core.Error(core.ECANCELED, "session closed during cascade")
	}
	return nil
}

// refresh patches ch on the changed component indices, falling back to
// full generation.
func refresh(gen *composite.Generator, ch *glyph.Character, ov *overlay, changed []int) (glyph.GlyphData, bool, error) {
	if current, ok := ov.base.Glyph(ch.Code); ok && current.Drawn() {
		if data, ok := gen.PatchAll(ch, current, changed); ok {
			tracer().Debugf("patched %s at %v", ch.Name, changed)
			return data, true, nil
		}
	}
	data, err := gen.Generate(ch)
	if err != nil {
		return nil, false, err
	}
	tracer().Debugf("regenerated %s", ch.Name)
	return data, false, nil
}

// changedIndices returns the indices of components of ch updated earlier
// in this cascade.
func changedIndices(ch *glyph.Character, lookup glyph.Lookup, updated map[rune]bool) []int {
	var inx []int
	for i, name := range ch.Components() {
		if c, ok := lookup.Character(name); ok && updated[c.Code] {
			inx = append(inx, i)
		}
	}
	return inx
}

func allDrawn(ch *glyph.Character, lookup glyph.Lookup, src glyph.Source) bool {
	if src == nil {
		return false
	}
	for _, name := range ch.Components() {
		c, ok := lookup.Character(name)
		if !ok {
			return false
		}
		if g, ok := src.Glyph(c.Code); !ok || !g.Drawn() {
			return false
		}
	}
	return true
}
