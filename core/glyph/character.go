package glyph

import (
	"fmt"
	"strings"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/glyphlink/core"
)

// Kind is the derivation kind of a character.
type Kind int

// Derivation kinds. KindNone denotes a directly authored glyph.
const (
	KindNone Kind = iota
	KindLink
	KindComposite
	KindPosition
	KindKern
)

var kindNames = [...]string{"none", "link", "composite", "position", "kern"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a kind name to a Kind. The empty string is KindNone.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindNone, nil
	}
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return KindNone, core.Error(core.EINVALID, "unknown derivation kind %q", s)
}

// AutoUpdates is true for kinds which follow edits of their components.
// Composites are snapshots and deliberately stay as they are.
func (k Kind) AutoUpdates() bool {
	return k == KindLink || k == KindPosition || k == KindKern
}

// Class is the glyph classification of a character.
type Class int

// Glyph classes.
const (
	ClassBase Class = iota
	ClassMark
	ClassLigature
	ClassVirtual
)

var classNames = [...]string{"base", "mark", "ligature", "virtual"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// ParseClass converts a class name to a Class. The empty string is ClassBase.
func ParseClass(s string) (Class, error) {
	if s == "" {
		return ClassBase, nil
	}
	for i, n := range classNames {
		if strings.EqualFold(n, s) {
			return Class(i), nil
		}
	}
	return ClassBase, core.Error(core.EINVALID, "unknown glyph class %q", s)
}

// Character is an identity node. Geometry is held separately as GlyphData.
type Character struct {
	Name  string `json:"name"`
	Code  rune   `json:"code"`
	Class Class  `json:"class,omitempty"`
	// derivation lists, at most one of them is populated
	Link      []string `json:"link,omitempty"`
	Composite []string `json:"composite,omitempty"`
	Position  []string `json:"position,omitempty"`
	Kern      []string `json:"kern,omitempty"`
	// one entry per component; missing entries mean "no adjustment"
	CompositeTransform []ComponentTransform `json:"compositeTransform,omitempty"`
	// remembered derivation of an unlocked glyph, used by relink
	SourceLink     []string `json:"sourceLink,omitempty"`
	SourceLinkType Kind     `json:"sourceLinkType,omitempty"`
	// Ephemeral pairs are rendered on the fly from their components and
	// never baked into glyph data.
	Ephemeral bool    `json:"ephemeral,omitempty"`
	LSB       float64 `json:"lsb,omitempty"`
	RSB       float64 `json:"rsb,omitempty"`
	Advance   float64 `json:"advance,omitempty"`
}

func (ch *Character) String() string {
	if ch == nil {
		return "<nil char>"
	}
	if k := ch.Kind(); k != KindNone {
		return fmt.Sprintf("%s(U+%04X %s %v)", ch.Name, ch.Code, k, ch.Components())
	}
	return fmt.Sprintf("%s(U+%04X)", ch.Name, ch.Code)
}

// Kind returns the derivation kind. If more than one list is populated,
// which Validate rejects, the first one in declaration order wins.
func (ch *Character) Kind() Kind {
	switch {
	case len(ch.Link) > 0:
		return KindLink
	case len(ch.Composite) > 0:
		return KindComposite
	case len(ch.Position) > 0:
		return KindPosition
	case len(ch.Kern) > 0:
		return KindKern
	}
	return KindNone
}

// Components returns the populated derivation list, or nil.
func (ch *Character) Components() []string {
	switch ch.Kind() {
	case KindLink:
		return ch.Link
	case KindComposite:
		return ch.Composite
	case KindPosition:
		return ch.Position
	case KindKern:
		return ch.Kern
	}
	return nil
}

// SetDerivation clears all derivation lists and populates the one for kind.
func (ch *Character) SetDerivation(kind Kind, components []string) {
	ch.Link, ch.Composite, ch.Position, ch.Kern = nil, nil, nil, nil
	comps := append([]string(nil), components...)
	switch kind {
	case KindLink:
		ch.Link = comps
	case KindComposite:
		ch.Composite = comps
	case KindPosition:
		ch.Position = comps
	case KindKern:
		ch.Kern = comps
	}
}

// Sever turns a derived character into a free-standing one.
func (ch *Character) Sever() {
	ch.SetDerivation(KindNone, nil)
	ch.CompositeTransform = nil
	ch.SourceLink = nil
	ch.SourceLinkType = KindNone
	ch.Ephemeral = false
}

// TransformAt returns the transform for component i, defaulting to an
// unscaled relative placement.
func (ch *Character) TransformAt(i int) ComponentTransform {
	if i >= 0 && i < len(ch.CompositeTransform) {
		return ch.CompositeTransform[i]
	}
	return ComponentTransform{Scale: 1}
}

// IndicesOf returns every position at which name occurs in the component list.
func (ch *Character) IndicesOf(name string) []int {
	var inx []int
	for i, c := range ch.Components() {
		if c == name {
			inx = append(inx, i)
		}
	}
	return inx
}

// Validate checks the structural invariants of ch.
func (ch *Character) Validate() error {
	if ch == nil || ch.Name == "" {
		return core.Error(core.EINVALID, "character must have a name")
	}
	populated := 0
	for _, l := range [][]string{ch.Link, ch.Composite, ch.Position, ch.Kern} {
		if len(l) > 0 {
			populated++
		}
	}
	if populated > 1 {
		return core.Error(core.EINVALID, "character %s has more than one derivation kind", ch.Name)
	}
	comps := ch.Components()
	for _, c := range comps {
		if c == ch.Name {
			return core.Error(core.ECYCLE, "character %s references itself", ch.Name)
		}
	}
	if len(ch.CompositeTransform) > len(comps) {
		return core.Error(core.EINVALID, "character %s has %d transforms for %d components",
			ch.Name, len(ch.CompositeTransform), len(comps))
	}
	for i, t := range ch.CompositeTransform {
		if t.Scale < 0 {
			return core.Error(core.EINVALID, "component %d of %s has negative scale %g",
				i, ch.Name, t.Scale)
		}
	}
	if (ch.Kind() == KindPosition || ch.Kind() == KindKern) && len(comps) != 2 {
		return core.Error(core.EINVALID, "%s pair %s needs exactly 2 components", ch.Kind(), ch.Name)
	}
	return nil
}

// Clone returns a deep copy of ch.
func (ch *Character) Clone() *Character {
	if ch == nil {
		return nil
	}
	c := *ch
	c.Link = cloneStrings(ch.Link)
	c.Composite = cloneStrings(ch.Composite)
	c.Position = cloneStrings(ch.Position)
	c.Kern = cloneStrings(ch.Kern)
	c.SourceLink = cloneStrings(ch.SourceLink)
	if ch.CompositeTransform != nil {
		c.CompositeTransform = append([]ComponentTransform(nil), ch.CompositeTransform...)
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Mode selects how a component's transform offset is interpreted.
type Mode int

// Placement modes. ModeRelative is the zero value: the offset is added to the
// automatically computed placement.
const (
	ModeRelative Mode = iota
	ModeAbsolute
	ModeTouching
)

var modeNames = [...]string{"relative", "absolute", "touching"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name to a Mode. The empty string is ModeRelative.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeRelative, nil
	}
	for i, n := range modeNames {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return ModeRelative, core.Error(core.EINVALID, "unknown placement mode %q", s)
}

// ComponentTransform holds the user-authored placement adjustments of one
// component. Rotation is in degrees, as entered on the edit surface.
type ComponentTransform struct {
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Mode     Mode    `json:"mode,omitempty"`
}

// EffectiveScale clamps unset or non-positive scales to 1.
func (t ComponentTransform) EffectiveScale() float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

// Offset returns the (x, y) adjustment as a vector.
func (t ComponentTransform) Offset() arithm.Pair {
	return arithm.P(t.X, t.Y)
}

// IsNeutral is true if the transform neither scales nor rotates.
func (t ComponentTransform) IsNeutral() bool {
	return t.EffectiveScale() == 1 && t.Rotation == 0
}
