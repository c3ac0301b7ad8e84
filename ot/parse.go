package ot

import (
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.9;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// Maximum reasonable counts for table structures.
// These limits prevent malicious fonts from claiming unreasonably large counts
// that could lead to excessive memory allocation.
const (
	MaxTableCount  = 512
	MaxLookupCount = 5000
	MaxStrikeCount = 256
	MaxGlyphCount  = 65536
)

// checkedMulInt checks for overflow in multiplication of two non-negative integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a < 0 || b < 0 || a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse will not check the order of the table directory: fonts written by
// this package place the 'meta' table first.
func Parse(font []byte) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	src := binarySegm(font)
	if len(src) < 12 {
		return nil, errFontFormat("font header too short")
	}
	h := FontHeader{
		FontType:      src.U32(0),
		TableCount:    src.U16(4),
		SearchRange:   src.U16(6),
		EntrySelector: src.U16(8),
		RangeShift:    src.U16(10),
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	ec := &errorCollector{}

	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount == 0 || int(h.TableCount) > MaxTableCount {
		return nil, errFontFormat(fmt.Sprintf("invalid table count %d", h.TableCount))
	}
	otf := &Font{
		Header:  h,
		Binary:  font,
		records: make([]TableRecord, 0, h.TableCount),
		tables:  make(map[Tag]TableRecord, h.TableCount),
	}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("table count too large: %v", err))
	}
	buf, err := src.view(12, tableRecordsSize)
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		rec := TableRecord{
			Tag:      MakeTag(b),
			Checksum: u32(b[4:8]),
			Offset:   u32(b[8:12]),
			Length:   u32(b[12:16]),
		}
		if rec.Tag < prevTag {
			ec.addWarning(rec.Tag, "table directory not sorted by tag", 12)
		}
		prevTag = rec.Tag
		if rec.Offset&3 != 0 { // "all tables must begin on four byte boundries".
			return nil, errMalformed(rec.Tag, "invalid table offset", nil)
		}
		tableEnd, err := checkedAddUint32(rec.Offset, rec.Length)
		if err != nil {
			return nil, errMalformed(rec.Tag, "size calculation overflow", err)
		}
		if tableEnd > uint32(len(src)) {
			return nil, errMalformed(rec.Tag,
				fmt.Sprintf("bounds [%d:%d] exceed font size %d", rec.Offset, tableEnd, len(src)), nil)
		}
		if _, dup := otf.tables[rec.Tag]; dup {
			return nil, errMalformed(rec.Tag, "duplicate table record", nil)
		}
		if rec.Tag != TagHead { // head's checksum includes checksumAdjustment
			if sum := checksum(src[rec.Offset:tableEnd]); sum != rec.Checksum {
				ec.addError(rec.Tag, "TableRecord", fmt.Sprintf("checksum mismatch: %08x != %08x",
					sum, rec.Checksum), SeverityMinor, rec.Offset)
			}
		}
		otf.records = append(otf.records, rec)
		otf.tables[rec.Tag] = rec
	}
	for _, tag := range []Tag{TagHead, TagMaxp} { // required by every renderer
		if _, ok := otf.tables[tag]; !ok {
			ec.addError(tag, "TableDirectory", "required table missing", SeverityCritical, 0)
		}
	}
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	return otf, nil
}
