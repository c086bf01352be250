/*
Package glyph holds the data model of glyphlink: characters (the identity
nodes), their derivation lists, and the glyph data (paths) rendered for them.

A Character may derive its geometry from other characters in one of four
mutually exclusive ways:

	link       live copy, re-generated whenever a component changes
	composite  snapshot, built once and never updated automatically
	position   base+mark pair with automatic mark placement
	kern       left+right pair with automatic horizontal placement

GlyphData of derived characters is a cache. It can always be reproduced by
running the composite generator against the current components and their
transforms. Paths contributed by a component carry a group ID of the form
"component-<index>", which allows patching a single component's contribution.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyph

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.glyph'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.glyph")
}
