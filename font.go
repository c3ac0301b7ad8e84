/*
Package emojicompat builds the emoji compatibility variant of a color emoji font.

A renderer supporting emoji compatibility does not shape emoji sequences with
the font's substitution rules. Instead it looks up a codepoint sequence in a
metadata block embedded into the font, which tells the sequence's identifier.
The identifier is a codepoint of the Supplementary Private Use Area-A, and the
font's character map is extended to map it directly to the emoji's glyph.

A build takes the following inputs:

▪︎ a color emoji font (bitmap glyphs in CBDT/CBLC, sequences as GSUB rules),

▪︎ a directory of Unicode emoji data files (see package emojidata),

▪︎ the identifier table of the previous build, if any (see package registry),

and produces the compatibility font, a new identifier table and optionally a
list of all emoji sequences for tests. Identifiers assigned by earlier builds
are kept stable.

# Terminology

▪︎ An "emoji record" is a codepoint sequence which the Unicode data declares to
be an emoji, together with its identifier and bitmap metrics.

▪︎ A "persisted table" is the text file of emoji records written by a build and
read back by the next one.

▪︎ The "metadata block" is the FlatBuffers binary stored in the font's 'meta'
table under tag "Emji" (see package metadata).

# Links

Emoji data files:
https://www.unicode.org/Public/emoji/

OpenType 'meta' table:
https://docs.microsoft.com/en-us/typography/opentype/spec/meta

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package emojicompat

import (
	"github.com/npillmayer/emojicompat/internal/fontload"
	"github.com/npillmayer/emojicompat/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.compat'
func tracer() tracing.Trace {
	return tracing.Select("emoji.compat")
}

// loadFont reads a font file and parses its table directory.
func loadFont(path string) ([]byte, *ot.Font, error) {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, nil, err
	}
	otf, err := ot.Parse(f.Binary)
	if err != nil {
		return nil, nil, err
	}
	if f.Fontname != "" {
		tracer().Infof("loaded font %s from %s", f.Fontname, path)
	} else {
		tracer().Infof("loaded font %s", path)
	}
	return f.Binary, otf, nil
}
