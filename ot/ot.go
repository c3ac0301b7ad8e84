package ot

import (
	"fmt"

	"github.com/npillmayer/emojicompat/internal/fontload"
)

// Font is an immutable snapshot of an OpenType font's table directory.
// It keeps the font's binary data and slices tables out of it on demand.
// The binary data must not change while the Font is in use.
type Font struct {
	Header        FontHeader
	Binary        []byte
	records       []TableRecord // in directory order
	tables        map[Tag]TableRecord
	names         *fontload.GlyphNames // lazily loaded, for diagnostics only
	parseErrors   []FontError          // Errors accumulated during parsing
	parseWarnings []FontWarning        // Warnings accumulated during parsing
}

// FontHeader is the offset table at the start of a single-font SFNT file.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType      uint32
	TableCount    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// TableRecord is one entry of the table directory.
type TableRecord struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// Table returns the bytes of the table for a given tag, or nil if the font
// does not contain such a table. The returned slice aliases the font's binary.
//
// Table tag names are case-sensitive, following the names in the OpenType
// specification, e.g. "cmap", "GSUB", "CBDT", "meta".
func (otf *Font) Table(tag Tag) []byte {
	rec, ok := otf.tables[tag]
	if !ok {
		return nil
	}
	return otf.Binary[rec.Offset : rec.Offset+rec.Length]
}

// HasTable returns true if the font contains a table for tag.
func (otf *Font) HasTable(tag Tag) bool {
	_, ok := otf.tables[tag]
	return ok
}

// TableTags returns a list of tags, one for each table contained in the font,
// in the order of the font's table directory.
func (otf *Font) TableTags() []Tag {
	tags := make([]Tag, len(otf.records))
	for i, rec := range otf.records {
		tags[i] = rec.Tag
	}
	return tags
}

// Record returns the directory record for a table.
func (otf *Font) Record(tag Tag) (TableRecord, bool) {
	rec, ok := otf.tables[tag]
	return rec, ok
}

// GlyphName returns a human readable name for a glyph, taken from the font's
// 'post' table if possible. It is used for diagnostics only; glyphs are always
// identified by their index.
func (otf *Font) GlyphName(g GlyphIndex) string {
	if otf.names == nil {
		otf.names = fontload.LoadGlyphNames(otf.Binary)
	}
	return otf.names.Name(uint16(g))
}

// Errors returns all errors encountered during font parsing.
// These errors represent issues that were found but did not prevent parsing from completing.
func (otf *Font) Errors() []FontError {
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
func (otf *Font) Warnings() []FontWarning {
	return otf.parseWarnings
}

// CriticalErrors returns only the errors with critical severity.
func (otf *Font) CriticalErrors() []FontError {
	ec := errorCollector{errors: otf.parseErrors}
	return ec.criticalErrors()
}

// collector gives table decoders access to the font's issue lists.
func (otf *Font) collect(f func(ec *errorCollector)) {
	ec := errorCollector{errors: otf.parseErrors, warnings: otf.parseWarnings}
	f(&ec)
	otf.parseErrors, otf.parseWarnings = ec.errors, ec.warnings
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// Tags of tables this package reads or writes.
var (
	TagCBDT = T("CBDT")
	TagCBLC = T("CBLC")
	TagCmap = T("cmap")
	TagGSUB = T("GSUB")
	TagHead = T("head")
	TagMaxp = T("maxp")
	TagMeta = T("meta")
	TagEmji = T("Emji") // data map of the emoji metadata inside 'meta'
)

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// GoString makes tags readable in %#v output of test failures.
func (t Tag) GoString() string {
	return fmt.Sprintf("ot.T(%q)", t.String())
}
