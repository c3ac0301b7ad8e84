package ot

import (
	"fmt"
	"sort"
)

// Edits is a set of table-level edits to apply to a font. Edits never touch
// the font they are applied to; Font.Apply produces a new binary.
type Edits struct {
	replace  map[Tag][]byte
	versions map[Tag]uint32
	first    Tag
}

// NewEdits creates an empty edit set.
func NewEdits() *Edits {
	return &Edits{
		replace:  make(map[Tag][]byte),
		versions: make(map[Tag]uint32),
	}
}

// Replace sets the content of a table, adding the table if it is not yet
// present in the font.
func (e *Edits) Replace(tag Tag, data []byte) *Edits {
	e.replace[tag] = data
	return e
}

// SetVersion overwrites the 32-bit version field at the start of a table,
// e.g. 0x00020000 for version 2.0.
func (e *Edits) SetVersion(tag Tag, version uint32) *Edits {
	e.versions[tag] = version
	return e
}

// First moves a table to the start of the table directory and of the table data.
func (e *Edits) First(tag Tag) *Edits {
	e.first = tag
	return e
}

// Apply serializes a new font from otf with the edits applied.
//
// The table selected with Edits.First comes first, all other tables follow in
// ascending tag order. Table data is laid out in directory order, every table
// padded to a 4-byte boundary. Table checksums and the 'head' table's
// checksumAdjustment are recomputed; all other fields of 'head' (including
// the modification timestamp) are left as they are.
func (otf *Font) Apply(e *Edits) ([]byte, error) {
	contents := make(map[Tag][]byte, len(otf.records)+len(e.replace))
	for _, rec := range otf.records {
		contents[rec.Tag] = otf.Table(rec.Tag)
	}
	for tag, data := range e.replace {
		contents[tag] = data
	}
	for tag, version := range e.versions {
		data, ok := contents[tag]
		if !ok {
			return nil, errMalformed(tag, "cannot set version of missing table", nil)
		}
		if len(data) < 4 {
			return nil, errMalformed(tag, "table too small for version field", nil)
		}
		patched := append([]byte(nil), data...)
		putU32(patched, version)
		contents[tag] = patched
	}
	tags := make([]Tag, 0, len(contents))
	for tag := range contents {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i] == e.first || tags[j] == e.first {
			return tags[i] == e.first && tags[j] != e.first
		}
		return tags[i] < tags[j]
	})
	if e.first != 0 {
		if _, ok := contents[e.first]; !ok {
			return nil, errMalformed(e.first, "table to place first is missing", nil)
		}
	}
	return serialize(otf.Header.FontType, tags, contents)
}

// serialize writes an SFNT container with tables in the given order.
func serialize(fontType uint32, tags []Tag, contents map[Tag][]byte) ([]byte, error) {
	numTables := len(tags)
	if numTables == 0 || numTables > MaxTableCount {
		return nil, errFontFormat(fmt.Sprintf("cannot write font with %d tables", numTables))
	}
	headerSize := 12 + numTables*16
	size := headerSize
	for _, tag := range tags {
		size += pad4(len(contents[tag]))
	}
	out := make([]byte, size)
	searchRange, entrySelector, rangeShift := searchParams(numTables)
	putU32(out[0:], fontType)
	putU16(out[4:], uint16(numTables))
	putU16(out[6:], searchRange)
	putU16(out[8:], entrySelector)
	putU16(out[10:], rangeShift)

	offset, headOffset := headerSize, -1
	for i, tag := range tags {
		data := contents[tag]
		copy(out[offset:], data)
		table := out[offset : offset+len(data)]
		if tag == TagHead {
			if len(table) < 12 {
				return nil, errMalformed(TagHead, "table too small", nil)
			}
			putU32(table[8:], 0) // checksumAdjustment is excluded from the checksums
			headOffset = offset
		}
		rec := out[12+i*16:]
		putU32(rec[0:], uint32(tag))
		putU32(rec[4:], checksum(table))
		putU32(rec[8:], uint32(offset))
		putU32(rec[12:], uint32(len(data)))
		offset += pad4(len(data))
	}
	if headOffset >= 0 {
		putU32(out[headOffset+8:], 0xB1B0AFBA-checksum(out))
	}
	return out, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// searchParams calculates the binary search parameters of the table directory.
func searchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	power := 1
	for power*2 <= numTables {
		power *= 2
		entrySelector++
	}
	searchRange = uint16(power * 16)
	rangeShift = uint16(numTables*16) - searchRange
	return
}
