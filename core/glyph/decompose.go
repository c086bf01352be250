package glyph

import (
	"golang.org/x/text/unicode/norm"
)

// SuggestComponents proposes link components for a precomposed character,
// following its canonical Unicode decomposition (e.g. 'Á' → 'A' + U+0301).
// Decomposed codepoints without a character in lookup are returned as
// missing. Characters without a decomposition yield no suggestion.
func SuggestComponents(code rune, lookup Lookup) (names []string, missing []rune) {
	decomposed := []rune(norm.NFD.String(string(code)))
	if len(decomposed) < 2 {
		return nil, nil
	}
	for _, r := range decomposed {
		if ch, ok := lookup.ByCode(r); ok {
			names = append(names, ch.Name)
		} else {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		tracer().Debugf("decomposition of U+%04X lacks %d component(s)", code, len(missing))
		return nil, missing
	}
	return names, nil
}
