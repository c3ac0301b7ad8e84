/*
Package ot provides access to the parts of an OpenType font which an emoji
compatibility build has to read or rewrite.

Package `ot` is not a general font library. It knows how to:

▪︎ parse the table directory of a single-font SFNT file into an immutable snapshot,

▪︎ decode the bitmap glyph metrics of color fonts (CBLC and CBDT),

▪︎ decode the full-repertoire Unicode character map (cmap platform 3, encoding 10, format 12),

▪︎ decode ligature and contextual substitutions of the GSUB table,

▪︎ re-serialize a font after a small set of table-level edits (see type Edits).

Tables not needed for these tasks are carried along as opaque byte segments.
A font is never mutated in place: clients compute a set of edits and apply
them to produce a new binary.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

// Valuable resource:
// https://docs.microsoft.com/en-us/typography/opentype/spec/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
