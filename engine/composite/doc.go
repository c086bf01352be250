/*
Package composite synthesizes the geometry of derived glyphs from their
components.

The Generator builds a glyph from scratch: components are placed one after
the other, each relative to the geometry accumulated so far. Marks attach
above or below the accumulated box, other components abut it on the right.
User-authored transforms are applied on top of (or instead of) this
automatic placement.

Patch is the incremental path. If only the artwork of one component
changed, its tagged paths are replaced in place and everything else is left
as is. Whenever patching could diverge from a full run, Patch declines and
the caller regenerates.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package composite

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.composite'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.composite")
}
