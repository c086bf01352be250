/*
Package resources locates font files for outline import.

As resource loading may be a time-consuming task, functions named

   Resolve…(…)

return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then
block until loading has completed.

Fonts are looked up as local files, remote URLs (downloaded once into the
user's cache directory) and finally as installed system fonts.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'glyphlink.resources'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.resources")
}
