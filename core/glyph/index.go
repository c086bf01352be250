package glyph

import (
	"sort"
	"strings"

	"github.com/derekparker/trie"
	"github.com/npillmayer/glyphlink/core"
)

// Lookup resolves characters by name or codepoint.
type Lookup interface {
	Character(name string) (*Character, bool)
	ByCode(code rune) (*Character, bool)
}

// Expander expands class patterns to character names.
type Expander interface {
	Expand(pattern string) []string
}

// First codepoint handed out to characters without one (plane 15 PUA).
const firstPrivateCode rune = 0xF0000

// Index is the character set of a project, addressable by name and by
// codepoint. Names are additionally held in a trie for prefix expansion of
// attachment classes.
type Index struct {
	byName   map[string]*Character
	byCode   map[rune]*Character
	names    *trie.Trie
	nextCode rune
}

var _ Lookup = (*Index)(nil)
var _ Expander = (*Index)(nil)

// NewIndex creates an index and adds chars to it.
func NewIndex(chars ...*Character) (*Index, error) {
	inx := &Index{
		byName:   make(map[string]*Character),
		byCode:   make(map[rune]*Character),
		names:    trie.New(),
		nextCode: firstPrivateCode,
	}
	for _, ch := range chars {
		if err := inx.Add(ch); err != nil {
			return nil, err
		}
	}
	return inx, nil
}

// Add inserts a character. Characters with codepoint 0 are assigned a
// private-use codepoint.
func (inx *Index) Add(ch *Character) error {
	if ch == nil || ch.Name == "" {
		return core.Error(core.EINVALID, "cannot index a character without name")
	}
	if _, dup := inx.byName[ch.Name]; dup {
		return core.Error(core.EINVALID, "duplicate character name %q", ch.Name)
	}
	if ch.Code == 0 {
		ch.Code = inx.privateCode()
		tracer().Debugf("assigned U+%X to %s", ch.Code, ch.Name)
	} else if other, dup := inx.byCode[ch.Code]; dup {
		return core.Error(core.EINVALID, "codepoint U+%04X of %q already used by %q",
			ch.Code, ch.Name, other.Name)
	}
	inx.byName[ch.Name] = ch
	inx.byCode[ch.Code] = ch
	inx.names.Add(ch.Name, ch.Code)
	return nil
}

func (inx *Index) privateCode() rune {
	for {
		c := inx.nextCode
		inx.nextCode++
		if _, used := inx.byCode[c]; !used {
			return c
		}
	}
}

// Replace swaps the metadata of an indexed character, keeping name and codepoint.
func (inx *Index) Replace(ch *Character) error {
	old, ok := inx.byCode[ch.Code]
	if !ok || old.Name != ch.Name {
		return core.Error(core.EMISSING, "no character %s at U+%04X", ch.Name, ch.Code)
	}
	inx.byName[ch.Name] = ch
	inx.byCode[ch.Code] = ch
	return nil
}

// Remove deletes the character with the given codepoint.
func (inx *Index) Remove(code rune) {
	ch, ok := inx.byCode[code]
	if !ok {
		return
	}
	delete(inx.byCode, code)
	delete(inx.byName, ch.Name)
	if len(inx.names.PrefixSearch(ch.Name)) > 1 {
		// trie.Remove cuts the whole branch, taking longer names with it
		inx.names = trie.New()
		for name, c := range inx.byName {
			inx.names.Add(name, c.Code)
		}
		return
	}
	inx.names.Remove(ch.Name)
}

// Character implements Lookup.
func (inx *Index) Character(name string) (*Character, bool) {
	ch, ok := inx.byName[name]
	return ch, ok
}

// ByCode implements Lookup.
func (inx *Index) ByCode(code rune) (*Character, bool) {
	ch, ok := inx.byCode[code]
	return ch, ok
}

// Len returns the number of characters.
func (inx *Index) Len() int {
	return len(inx.byCode)
}

// All returns every character, sorted by codepoint.
func (inx *Index) All() []*Character {
	all := make([]*Character, 0, len(inx.byCode))
	for _, ch := range inx.byCode {
		all = append(all, ch)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// Expand resolves a class pattern. A trailing '*' selects all names with
// the given prefix; other patterns match a single name exactly. Results
// are sorted.
func (inx *Index) Expand(pattern string) []string {
	if strings.HasSuffix(pattern, "*") {
		names := inx.names.PrefixSearch(strings.TrimSuffix(pattern, "*"))
		sort.Strings(names)
		return names
	}
	if _, ok := inx.byName[pattern]; ok {
		return []string{pattern}
	}
	return nil
}

// Codes resolves a list of names to codepoints. Unknown names are returned
// separately.
func Codes(lookup Lookup, names []string) (codes []rune, unknown []string) {
	for _, n := range names {
		if ch, ok := lookup.Character(n); ok {
			codes = append(codes, ch.Code)
		} else {
			unknown = append(unknown, n)
		}
	}
	return
}
