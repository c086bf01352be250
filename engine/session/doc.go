/*
Package session owns the editable state of a glyph project: the character
set, the dependency graph, the glyph store, attachment rules and pair
tables. All edits enter through commands applied to a Session.

A commit save runs a cascade over the glyphs derived from the edited one
and writes the edited glyph together with every refreshed dependent in one
store batch. Draft saves write only the edited glyph. Deleting a glyph
bakes its dependents first, unlocking turns a live derivation into a
frozen composite and relinking turns it back, both without changing what
the glyph looks like.

A session serializes edits: while a cascade drains, further edits are
rejected. Closing a session makes in-flight cascades give up without
committing anything.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package session

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.session'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.session")
}
