package ot

import (
	"fmt"
)

// Color bitmap glyphs are located via the CBLC table (strikes and index
// subtables) and stored in the CBDT table (metrics and PNG data).
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cblc
// and https://docs.microsoft.com/en-us/typography/opentype/spec/cbdt.

// GlyphMetrics are the pixel dimensions of a glyph's bitmap image.
type GlyphMetrics struct {
	Width  int
	Height int
}

// BitmapEntry is the location of one glyph image inside CBDT.
// Its metrics are not valid before Decode has been called.
type BitmapEntry struct {
	Glyph       GlyphIndex
	ImageFormat uint16
	data        binarySegm    // glyph image record in CBDT
	bigMetrics  *GlyphMetrics // metrics from the index subtable (formats 2 and 5)
	metrics     GlyphMetrics
	decoded     bool
}

// Decode decodes the image record of the entry and returns its metrics.
func (e *BitmapEntry) Decode() (GlyphMetrics, error) {
	if e.decoded {
		return e.metrics, nil
	}
	switch e.ImageFormat {
	case 17: // smallGlyphMetrics (5 bytes): height, width, bearingX, bearingY, advance; dataLen u32; PNG
		if _, err := e.data.u32(5); err != nil {
			return e.metrics, fmt.Errorf("glyph %d: format 17 record too short", e.Glyph)
		}
		e.metrics = GlyphMetrics{Height: int(e.data[0]), Width: int(e.data[1])}
	case 18: // bigGlyphMetrics (8 bytes); dataLen u32; PNG
		if _, err := e.data.u32(8); err != nil {
			return e.metrics, fmt.Errorf("glyph %d: format 18 record too short", e.Glyph)
		}
		e.metrics = GlyphMetrics{Height: int(e.data[0]), Width: int(e.data[1])}
	case 19: // dataLen u32; PNG; metrics in CBLC
		if e.bigMetrics == nil {
			return e.metrics, fmt.Errorf("glyph %d: format 19 image without index metrics", e.Glyph)
		}
		if _, err := e.data.u32(0); err != nil {
			return e.metrics, fmt.Errorf("glyph %d: format 19 record too short", e.Glyph)
		}
		e.metrics = *e.bigMetrics
	default:
		return e.metrics, fmt.Errorf("glyph %d: unsupported image format %d", e.Glyph, e.ImageFormat)
	}
	e.decoded = true
	return e.metrics, nil
}

// Strike is one bitmap size of a color font.
type Strike struct {
	PpemX, PpemY uint8
	BitDepth     uint8
	Entries      []*BitmapEntry
}

// ReadStrikes locates the glyph images of every strike in the font.
// The entries are not yet decoded.
func (otf *Font) ReadStrikes() ([]Strike, error) {
	cblc, cbdt := binarySegm(otf.Table(TagCBLC)), binarySegm(otf.Table(TagCBDT))
	if cblc == nil {
		return nil, errMalformed(TagCBLC, "table missing", nil)
	}
	if cbdt == nil {
		return nil, errMalformed(TagCBDT, "table missing", nil)
	}
	numSizes, err := cblc.u32(4)
	if err != nil {
		return nil, errMalformed(TagCBLC, "header too small", err)
	}
	if numSizes > MaxStrikeCount {
		return nil, errMalformed(TagCBLC, fmt.Sprintf("%d strikes exceed maximum %d", numSizes, MaxStrikeCount), nil)
	}
	strikes := make([]Strike, numSizes)
	for i := range strikes {
		// BitmapSize record, 48 bytes
		rec, err := cblc.view(8+i*48, 48)
		if err != nil {
			return nil, errMalformed(TagCBLC, fmt.Sprintf("BitmapSize record %d", i), err)
		}
		strikes[i].PpemX, strikes[i].PpemY, strikes[i].BitDepth = rec[44], rec[45], rec[46]
		arrayOffset, numIndexSubtables := u32(rec[0:]), u32(rec[8:])
		array, err := cblc.from(int(arrayOffset))
		if err != nil {
			return nil, errMalformed(TagCBLC, fmt.Sprintf("strike %d: IndexSubtableArray", i), err)
		}
		for j := 0; j < int(numIndexSubtables); j++ {
			// IndexSubtableRecord: firstGlyphIndex, lastGlyphIndex, additionalOffsetToIndexSubtable
			isr, err := array.view(j*8, 8)
			if err != nil {
				return nil, errMalformed(TagCBLC, fmt.Sprintf("strike %d: IndexSubtableRecord %d", i, j), err)
			}
			first, last := GlyphIndex(u16(isr)), GlyphIndex(u16(isr[2:]))
			sub, err := array.from(int(u32(isr[4:])))
			if err != nil || last < first {
				return nil, errMalformed(TagCBLC, fmt.Sprintf("strike %d: IndexSubtable %d", i, j), err)
			}
			entries, err := parseIndexSubtable(sub, first, last, cbdt)
			if err != nil {
				return nil, errMalformed(TagCBLC, fmt.Sprintf("strike %d: IndexSubtable %d", i, j), err)
			}
			strikes[i].Entries = append(strikes[i].Entries, entries...)
		}
	}
	return strikes, nil
}

// ReadGlyphMetrics decodes every bitmap entry of every strike and returns the
// image metrics per glyph. If a glyph has images in more than one strike, the
// metrics of the last strike win.
func (otf *Font) ReadGlyphMetrics() (map[GlyphIndex]GlyphMetrics, error) {
	strikes, err := otf.ReadStrikes()
	if err != nil {
		return nil, err
	}
	metrics := make(map[GlyphIndex]GlyphMetrics)
	for _, strike := range strikes {
		for _, entry := range strike.Entries {
			m, err := entry.Decode()
			if err != nil {
				return nil, errMalformed(TagCBDT, "glyph image", err)
			}
			metrics[entry.Glyph] = m
		}
	}
	tracer().Debugf("bitmap metrics for %d glyphs in %d strikes", len(metrics), len(strikes))
	return metrics, nil
}

// parseIndexSubtable reads an IndexSubtable of formats 1 to 5.
// IndexSubHeader: indexFormat u16, imageFormat u16, imageDataOffset Offset32 (into CBDT)
func parseIndexSubtable(sub binarySegm, first, last GlyphIndex, cbdt binarySegm) ([]*BitmapEntry, error) {
	if len(sub) < 8 {
		return nil, errBufferBounds
	}
	indexFormat, imageFormat, imageData := u16(sub), u16(sub[2:]), int(u32(sub[4:]))
	n := int(last-first) + 1
	entry := func(g GlyphIndex, start, end int, m *GlyphMetrics) (*BitmapEntry, error) {
		if end < start {
			return nil, fmt.Errorf("glyph %d: image offsets out of order", g)
		}
		data, err := cbdt.view(imageData+start, end-start)
		if err != nil {
			return nil, fmt.Errorf("glyph %d: image data out of bounds", g)
		}
		return &BitmapEntry{Glyph: g, ImageFormat: imageFormat, data: data, bigMetrics: m}, nil
	}
	var entries []*BitmapEntry
	switch indexFormat {
	case 1, 3: // offsets (u32 for format 1, u16 for format 3) [n+1]
		width := 4
		if indexFormat == 3 {
			width = 2
		}
		if _, err := sub.view(8, (n+1)*width); err != nil {
			return nil, err
		}
		offset := func(i int) int {
			if width == 4 {
				return int(u32(sub[8+i*4:]))
			}
			return int(u16(sub[8+i*2:]))
		}
		for i := 0; i < n; i++ {
			start, end := offset(i), offset(i+1)
			if start == end {
				continue // glyph has no image
			}
			e, err := entry(first+GlyphIndex(i), start, end, nil)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	case 2: // imageSize u32, bigMetrics
		imageSize, err := sub.u32(8)
		if err != nil {
			return nil, err
		}
		m, err := bigGlyphMetrics(sub, 12)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			e, err := entry(first+GlyphIndex(i), i*int(imageSize), (i+1)*int(imageSize), m)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	case 4: // numGlyphs u32, glyphArray[numGlyphs+1] of (glyphID u16, sbitOffset u16)
		numGlyphs, err := sub.u32(8)
		if err != nil {
			return nil, err
		}
		if numGlyphs > MaxGlyphCount {
			return nil, fmt.Errorf("%d glyphs exceed maximum", numGlyphs)
		}
		pairs, err := sub.values16(12, 2*(int(numGlyphs)+1))
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(numGlyphs); i++ {
			e, err := entry(GlyphIndex(pairs[2*i]), int(pairs[2*i+1]), int(pairs[2*i+3]), nil)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	case 5: // imageSize u32, bigMetrics, numGlyphs u32, glyphIdArray[numGlyphs]
		imageSize, err := sub.u32(8)
		if err != nil {
			return nil, err
		}
		m, err := bigGlyphMetrics(sub, 12)
		if err != nil {
			return nil, err
		}
		numGlyphs, err := sub.u32(20)
		if err != nil {
			return nil, err
		}
		if numGlyphs > MaxGlyphCount {
			return nil, fmt.Errorf("%d glyphs exceed maximum", numGlyphs)
		}
		glyphs, err := sub.values16(24, int(numGlyphs))
		if err != nil {
			return nil, err
		}
		for i, g := range glyphs {
			e, err := entry(GlyphIndex(g), i*int(imageSize), (i+1)*int(imageSize), m)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	default:
		return nil, fmt.Errorf("unsupported index subtable format %d", indexFormat)
	}
	return entries, nil
}

// bigGlyphMetrics starts with height and width, both uint8.
func bigGlyphMetrics(b binarySegm, at int) (*GlyphMetrics, error) {
	m, err := b.view(at, 8)
	if err != nil {
		return nil, err
	}
	return &GlyphMetrics{Height: int(m[0]), Width: int(m[1])}, nil
}
