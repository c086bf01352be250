package session

import (
	"context"
	"sort"

	"github.com/npillmayer/glyphlink/core/glyph"
)

// Batch is a set of writes committed atomically.
type Batch struct {
	Glyphs     map[rune]glyph.GlyphData
	Characters []*glyph.Character // metadata changed together with the glyphs
	Deletes    []rune             // removes glyph data and character
}

// Empty is true if b contains no writes.
func (b Batch) Empty() bool {
	return len(b.Glyphs) == 0 && len(b.Characters) == 0 && len(b.Deletes) == 0
}

// GlyphStore is the authoritative store of glyph data.
type GlyphStore interface {
	glyph.Source
	// Snapshot returns a read-only view which does not change until the
	// next commit.
	Snapshot() glyph.Source
	// Commit applies all writes of b, or none of them.
	Commit(ctx context.Context, b Batch) error
}

// MemoryStore is a GlyphStore held in memory.
type MemoryStore struct {
	glyphs  glyph.Map
	chars   map[rune]*glyph.Character
	commits int
}

var _ GlyphStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding a copy of initial.
func NewMemoryStore(initial glyph.Map) *MemoryStore {
	m := &MemoryStore{
		glyphs: make(glyph.Map, len(initial)),
		chars:  make(map[rune]*glyph.Character),
	}
	for c, g := range initial {
		m.glyphs[c] = g
	}
	return m
}

// Glyph implements glyph.Source.
func (m *MemoryStore) Glyph(code rune) (glyph.GlyphData, bool) {
	return m.glyphs.Glyph(code)
}

// Snapshot implements GlyphStore. Glyph data is never modified in place,
// so a shallow copy is sufficient.
func (m *MemoryStore) Snapshot() glyph.Source {
	snap := make(glyph.Map, len(m.glyphs))
	for c, g := range m.glyphs {
		snap[c] = g
	}
	return snap
}

// Commit implements GlyphStore.
func (m *MemoryStore) Commit(ctx context.Context, b Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for c, g := range b.Glyphs {
		m.glyphs[c] = g
	}
	for _, ch := range b.Characters {
		m.chars[ch.Code] = ch.Clone()
	}
	for _, c := range b.Deletes {
		delete(m.glyphs, c)
		delete(m.chars, c)
	}
	m.commits++
	return nil
}

// Characters returns the character metadata committed so far, sorted by
// codepoint.
func (m *MemoryStore) Characters() []*glyph.Character {
	chars := make([]*glyph.Character, 0, len(m.chars))
	for _, ch := range m.chars {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Code < chars[j].Code })
	return chars
}

// Commits returns the number of batches committed.
func (m *MemoryStore) Commits() int {
	return m.commits
}
