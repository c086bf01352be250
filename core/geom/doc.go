/*
Package geom implements the 2D math shared by composite generation and
patching: vectors on arithm.Pair, rectangles, affine matrices, pivot
transforms and bounding boxes of polylines and cubic Bézier outlines.

Coordinates are canvas coordinates, i.e. y grows downward. Angles are radians
in this package; edit surfaces work in degrees and convert with Radians.

Transforms compose in a fixed order

	translate-to-pivot → scale/flip → rotate → translate-back → offset

which makes bulk transforms order-stable across repeated invocations. Flips are
expressed as a negative scale factor on one axis. Non-positive scale factors are
not rejected here; callers are expected to clamp them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package geom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.geom'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.geom")
}
