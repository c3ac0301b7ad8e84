package emojicompat

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/npillmayer/emojicompat/ot"
)

// verifyFont reads a newly written font back with an independent font
// parser. The font must have a 'meta' table carrying a decodable metadata
// block, and a 'cmap' table mapping every identifier of remap.
func verifyFont(font []byte, remap map[uint32]ot.GlyphIndex) error {
	ld, err := opentype.NewLoader(bytes.NewReader(font))
	if err != nil {
		return &ot.MalformedFontError{Issue: "written font does not load", Err: err}
	}
	raw, err := ld.RawTable(opentype.MustNewTag("meta"))
	if err != nil {
		return &ot.MalformedFontError{Table: ot.TagMeta, Issue: "missing in written font", Err: err}
	}
	meta, err := ot.ParseMeta(raw)
	if err != nil {
		return err
	}
	blob, ok := meta.Get(ot.TagEmji)
	if !ok {
		return &ot.MalformedFontError{Table: ot.TagMeta, Issue: "written font has no emoji metadata"}
	}
	if _, err := metadata.Decode(blob); err != nil {
		return &ot.MalformedFontError{Table: ot.TagMeta, Issue: "emoji metadata", Err: err}
	}
	raw, err = ld.RawTable(opentype.MustNewTag("cmap"))
	if err != nil {
		return &ot.MalformedFontError{Table: ot.TagCmap, Issue: "missing in written font", Err: err}
	}
	cmap, _, err := tables.ParseCmap(raw)
	if err != nil {
		return &ot.MalformedFontError{Table: ot.TagCmap, Issue: "written table does not parse", Err: err}
	}
	for _, rec := range cmap.Records {
		if rec.PlatformID != tables.PlatformMicrosoft || rec.EncodingID != tables.PEMicrosoftUcs4 {
			continue
		}
		sub, ok := rec.Subtable.(tables.CmapSubtable12)
		if !ok {
			continue
		}
		return checkRemapping(sub, remap)
	}
	return &ot.MalformedFontError{Table: ot.TagCmap, Issue: "written font has no format 12 subtable"}
}

func checkRemapping(sub tables.CmapSubtable12, remap map[uint32]ot.GlyphIndex) error {
	for id, glyph := range remap {
		found := false
		for _, group := range sub.Groups {
			if id >= group.StartCharCode && id <= group.EndCharCode {
				found = uint32(glyph) == group.StartGlyphID+id-group.StartCharCode
				break
			}
		}
		if !found {
			return &ot.MalformedFontError{Table: ot.TagCmap,
				Issue: fmt.Sprintf("written font does not map %X to glyph %d", id, glyph)}
		}
	}
	tracer().Debugf("verified written font: %d identifiers mapped", len(remap))
	return nil
}
