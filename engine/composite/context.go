package composite

import (
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core/config"
	"github.com/npillmayer/glyphlink/core/glyph"
)

// Anchor selects on which side of the base a mark attaches.
type Anchor int

// Anchors. Canvas coordinates grow downward, so "above" means smaller y.
const (
	AnchorAbove Anchor = iota
	AnchorBelow
)

// Axis constrains automatic mark movement.
type Axis int

// Axis constraints.
const (
	AxisBoth Axis = iota
	AxisHorizontal
	AxisVertical
)

// Attachment is a mark attachment rule. Class is either a character name
// or a prefix pattern ending in '*'.
type Attachment struct {
	Class  string
	Anchor Anchor
	Gap    float64 // if zero, the font-wide mark gap applies
	Axis   Axis
}

// Rules holds the attachment rules of a font. The first matching rule wins.
type Rules struct {
	Attachments []Attachment
}

// attachmentFor finds the rule for a component. Patterns are expanded
// through exp if available.
func (r Rules) attachmentFor(name string, exp glyph.Expander) (Attachment, bool) {
	for _, a := range r.Attachments {
		if exp != nil {
			for _, n := range exp.Expand(a.Class) {
				if n == name {
					return a, true
				}
			}
			continue
		}
		if strings.HasSuffix(a.Class, "*") && strings.HasPrefix(name, strings.TrimSuffix(a.Class, "*")) {
			return a, true
		}
		if a.Class == name {
			return a, true
		}
	}
	return Attachment{}, false
}

// PairKey addresses an entry of a pair table.
type PairKey struct {
	Left, Right rune
}

// Pairs holds the positioning and kerning tables. Positioning entries give
// the offset of a mark relative to its base, kerning entries the horizontal
// adjustment between two glyphs.
type Pairs struct {
	Positioning map[PairKey]arithm.Pair
	Kerning     map[PairKey]float64
}

// NewPairs creates empty pair tables.
func NewPairs() *Pairs {
	return &Pairs{
		Positioning: make(map[PairKey]arithm.Pair),
		Kerning:     make(map[PairKey]float64),
	}
}

// Purge removes every entry mentioning code and returns the number of
// entries removed.
func (p *Pairs) Purge(code rune) int {
	if p == nil {
		return 0
	}
	n := 0
	for k := range p.Positioning {
		if k.Left == code || k.Right == code {
			delete(p.Positioning, k)
			n++
		}
	}
	for k := range p.Kerning {
		if k.Left == code || k.Right == code {
			delete(p.Kerning, k)
			n++
		}
	}
	return n
}

func (p *Pairs) position(base, mark rune) (arithm.Pair, bool) {
	if p == nil {
		return arithm.Origin, false
	}
	v, ok := p.Positioning[PairKey{base, mark}]
	return v, ok
}

func (p *Pairs) kern(left, right rune) float64 {
	if p == nil {
		return 0
	}
	return p.Kerning[PairKey{left, right}]
}

// Context bundles the read-only inputs of generation.
type Context struct {
	Lookup    glyph.Lookup
	Source    glyph.Source
	Thickness float64
	Metrics   config.Metrics
	Rules     Rules
	Pairs     *Pairs
}

// ContextFrom creates a context with thickness and metrics taken from
// settings.
func ContextFrom(s config.Settings, lookup glyph.Lookup, source glyph.Source) Context {
	return Context{
		Lookup:    lookup,
		Source:    source,
		Thickness: s.StrokeThickness,
		Metrics:   s.Metrics,
	}
}

func (c Context) expander() glyph.Expander {
	if exp, ok := c.Lookup.(glyph.Expander); ok {
		return exp
	}
	return nil
}
