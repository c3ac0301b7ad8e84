/*
Package otquery answers questions about a font which are not part of an
emoji compatibility build, for diagnostics of a font before and after a build.

All queries work on the raw table bytes of an ot.Font. Missing or truncated
tables are reported by a false return value, never by a panic.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
