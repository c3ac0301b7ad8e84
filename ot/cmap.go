package ot

import (
	"fmt"
	"sort"

	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// The emoji build relies on the full-repertoire Unicode subtable of 'cmap':
// platform 3 (Windows), encoding 10 (Unicode full repertoire), format 12
// (segmented coverage). Remapped identifiers are written back into exactly
// this subtable, therefore there is no fallback to other subtables.
const (
	unicodeFullPlatform = 3
	unicodeFullEncoding = 10
	unicodeFullFormat   = 12
)

// CodepointMap is the decoded cmap subtable (3, 10, 12) of a font.
// It is the handle the writer uses to re-encode the same subtable.
type CodepointMap struct {
	key     cmap.Key
	table   cmap.Table
	mapping cmap.Format12
}

// ReadCodepointMap decodes the font's 'cmap' table and selects the subtable
// for platform 3, encoding 10 and format 12.
// If no such subtable exists, an UnsupportedFontError is returned.
func (otf *Font) ReadCodepointMap() (*CodepointMap, error) {
	data := otf.Table(TagCmap)
	if data == nil {
		return nil, errMalformed(TagCmap, "table missing", nil)
	}
	table, err := cmap.Decode(data)
	if err != nil {
		return nil, errMalformed(TagCmap, "cannot decode subtable directory", err)
	}
	keys := make([]cmap.Key, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Language < keys[j].Language })
	for _, key := range keys {
		if key.PlatformID != unicodeFullPlatform || key.EncodingID != unicodeFullEncoding {
			continue
		}
		raw := binarySegm(table[key])
		if format, err := raw.u16(0); err != nil || format != unicodeFullFormat {
			tracer().Debugf("cmap subtable %d/%d has format %d, skipping",
				key.PlatformID, key.EncodingID, raw.U16(0))
			continue
		}
		sub, err := table.Get(key)
		if err != nil {
			return nil, errMalformed(TagCmap, "cannot decode format 12 subtable", err)
		}
		mapping, ok := sub.(cmap.Format12)
		if !ok {
			return nil, errMalformed(TagCmap, fmt.Sprintf("unexpected subtable type %T", sub), nil)
		}
		tracer().Debugf("cmap 3/10/12 subtable maps %d codepoints", len(mapping))
		return &CodepointMap{key: key, table: table, mapping: mapping}, nil
	}
	return nil, &UnsupportedFontError{
		Reason: "no cmap subtable with platform 3, encoding 10 and format 12",
	}
}

// Len returns the number of codepoints mapped.
func (m *CodepointMap) Len() int {
	return len(m.mapping)
}

// Lookup returns the glyph for a codepoint, or 0 (.notdef) if unmapped.
func (m *CodepointMap) Lookup(cp uint32) GlyphIndex {
	return GlyphIndex(m.mapping[cp])
}

// Codepoints returns all mapped codepoints in ascending order.
func (m *CodepointMap) Codepoints() []uint32 {
	cps := make([]uint32, 0, len(m.mapping))
	for cp := range m.mapping {
		cps = append(cps, cp)
	}
	sort.Slice(cps, func(i, j int) bool { return cps[i] < cps[j] })
	return cps
}

// GlyphToCodepoint inverts the map. Codepoints are visited in ascending order;
// if a glyph is reachable from more than one codepoint, the last one wins.
// Codepoints for which skip reports true are left out. skip may be nil.
func (m *CodepointMap) GlyphToCodepoint(skip func(cp uint32) bool) map[GlyphIndex]uint32 {
	inv := make(map[GlyphIndex]uint32, len(m.mapping))
	for _, cp := range m.Codepoints() {
		if skip != nil && skip(cp) {
			continue
		}
		inv[GlyphIndex(m.mapping[cp])] = cp
	}
	return inv
}

// Encode returns a complete new 'cmap' table, where the (3, 10, 12) subtable
// additionally maps every codepoint of remap to its glyph. Entries of remap
// override existing mappings for the same codepoint. All other subtables are
// copied unchanged. The receiver is not modified.
func (m *CodepointMap) Encode(remap map[uint32]GlyphIndex) ([]byte, error) {
	mapping := make(cmap.Format12, len(m.mapping)+len(remap))
	for cp, gid := range m.mapping {
		mapping[cp] = gid
	}
	for cp, gid := range remap {
		mapping[cp] = glyph.ID(gid)
	}
	table := make(cmap.Table, len(m.table))
	for key, data := range m.table {
		table[key] = data
	}
	table[m.key] = mapping.Encode(m.key.Language)
	return table.Encode(), nil
}
