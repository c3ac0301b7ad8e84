package emojicompat

import (
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/npillmayer/emojicompat/ot"
)

// Inspection is what a compatibility font tells about its emojis.
type Inspection struct {
	Path     string
	Font     *ot.Font
	Cmap     *ot.CodepointMap
	Metadata *metadata.Document
}

// Inspect loads a font produced by Build and decodes its metadata block.
// Fonts without a metadata block are reported as malformed.
func Inspect(path string) (*Inspection, error) {
	_, otf, err := loadFont(path)
	if err != nil {
		return nil, err
	}
	raw := otf.Table(ot.TagMeta)
	if raw == nil {
		return nil, &ot.MalformedFontError{Table: ot.TagMeta, Issue: "no 'meta' table, font has not been built"}
	}
	meta, err := ot.ParseMeta(raw)
	if err != nil {
		return nil, err
	}
	blob, ok := meta.Get(ot.TagEmji)
	if !ok {
		return nil, &ot.MalformedFontError{Table: ot.TagMeta, Issue: "no emoji metadata"}
	}
	doc, err := metadata.Decode(blob)
	if err != nil {
		return nil, &ot.MalformedFontError{Table: ot.TagMeta, Issue: "emoji metadata", Err: err}
	}
	cmap, err := otf.ReadCodepointMap()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("inspected %s: %d emojis", path, len(doc.List))
	return &Inspection{Path: path, Font: otf, Cmap: cmap, Metadata: doc}, nil
}

// Glyph returns the glyph a codepoint or identifier maps to, if any.
func (insp *Inspection) Glyph(cp uint32) (ot.GlyphIndex, bool) {
	g := insp.Cmap.Lookup(cp)
	return g, g != 0
}

// Unmapped lists the identifiers of the metadata which the cmap does not
// map to a glyph. A record of the persisted table keeps its identifier after
// its glyph has left the source font, but Build cannot map it any more.
func (insp *Inspection) Unmapped() []uint32 {
	var ids []uint32
	for _, item := range insp.Metadata.List {
		if _, ok := insp.Glyph(item.ID); !ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
