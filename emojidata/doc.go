/*
Package emojidata reads the Unicode emoji data files and answers two questions
for every codepoint or codepoint sequence: is it an emoji, and does it default
to emoji-style (color) presentation?

The data directory is expected to contain the files of a Unicode emoji release
(https://www.unicode.org/Public/emoji/), plus a directory "additions" with
vendor additions:

	emoji-data.txt
	emoji-zwj-sequences.txt
	emoji-sequences.txt
	emoji-variation-sequences.txt
	additions/emoji-data.txt            (style overrides)
	additions/emoji-zwj-sequences.txt   (optional)
	additions/emoji-sequences.txt       (optional)

Codepoints listed in additions/emoji-data.txt are rendered with emoji style by
default, even if emoji-data.txt does not say so.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package emojidata

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.data'
func tracer() tracing.Trace {
	return tracing.Select("emoji.data")
}
