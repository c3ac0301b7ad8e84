/*
Package registry keeps the table of emoji records and their identifiers.

Every emoji sequence supported by a font gets a numeric identifier. Renderers
cache identifiers, therefore an identifier, once assigned to a sequence, is
never changed by later builds. The identifiers of a build are persisted to a
text table, which is read back at the beginning of the next build and merged
into the new records (see Merge). New sequences get identifiers from an
Allocator, counting up from the highest persisted identifier.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package registry

import (
	"fmt"
	"sort"

	"github.com/npillmayer/emojicompat/emojidata"
	"github.com/npillmayer/emojicompat/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.registry'
func tracer() tracing.Trace {
	return tracing.Select("emoji.registry")
}

// DefaultBaseID is the first identifier of a fresh table, the start of
// Supplementary Private Use Area-A (plus one).
const DefaultBaseID uint32 = 0xF0001

// EmojiRecord is one emoji of the final table.
type EmojiRecord struct {
	Codepoints  []uint32
	EmojiStyle  bool
	ID          uint32 // 0 if not yet assigned
	SDKAdded    int    // SDK version this emoji was added in
	CompatAdded int    // metadata version this emoji was added in
	Width       int    // bitmap width in pixels
	Height      int    // bitmap height in pixels
}

// KeyOf returns the canonical key of a codepoint sequence, uppercase hex
// codepoints separated by a space.
func KeyOf(cps []uint32) string {
	return emojidata.Sequence(cps).String()
}

// Key returns the canonical key of the record's codepoints.
func (rec *EmojiRecord) Key() string {
	return KeyOf(rec.Codepoints)
}

func (rec EmojiRecord) String() string {
	return fmt.Sprintf("<%X %s>", rec.ID, rec.Key())
}

// Table maps canonical keys to records. A table is owned by a single build.
type Table struct {
	records map[string]*EmojiRecord
	remap   map[uint32]ot.GlyphIndex // ID -> glyph
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		records: make(map[string]*EmojiRecord),
		remap:   make(map[uint32]ot.GlyphIndex),
	}
}

// FromFacts creates a table with one record per fact, stamped with the
// given versions.
func FromFacts(facts []emojidata.Fact, sdkVersion, compatVersion int) *Table {
	t := NewTable()
	for _, f := range facts {
		t.records[f.Codepoints.String()] = &EmojiRecord{
			Codepoints:  append([]uint32(nil), f.Codepoints...),
			EmojiStyle:  f.EmojiStyle,
			SDKAdded:    sdkVersion,
			CompatAdded: compatVersion,
		}
	}
	return t
}

// Len returns the number of records, with or without identifier.
func (t *Table) Len() int {
	return len(t.records)
}

// Lookup finds the record for a codepoint sequence. Only exact matches are
// found; sub- or super-sequences are different keys.
func (t *Table) Lookup(cps []uint32) (*EmojiRecord, bool) {
	rec, ok := t.records[KeyOf(cps)]
	return rec, ok
}

// Add inserts a record. It is an error to add a record for a key already present.
func (t *Table) Add(rec EmojiRecord) error {
	if len(rec.Codepoints) == 0 {
		return fmt.Errorf("record without codepoints")
	}
	key := rec.Key()
	if _, dup := t.records[key]; dup {
		return fmt.Errorf("duplicate record for %s", key)
	}
	t.records[key] = &rec
	return nil
}

// Attach binds a codepoint sequence found in the font to its glyph.
//
// If the table has no record for the sequence, it is not an emoji and the
// call is a no-op returning false. Otherwise the record gets an identifier
// from alloc (if it does not yet have one) and the bitmap metrics of the
// glyph, and the remapping ID → glyph is recorded. A glyph without metrics
// leaves the record's metrics at zero.
func (t *Table) Attach(cps []uint32, glyph ot.GlyphIndex, metrics map[ot.GlyphIndex]ot.GlyphMetrics,
	alloc *Allocator) bool {
	//
	rec, ok := t.Lookup(cps)
	if !ok {
		return false
	}
	if rec.ID == 0 {
		rec.ID = alloc.Next()
		tracer().Debugf("new identifier %X for %s", rec.ID, rec.Key())
	}
	if m, ok := metrics[glyph]; ok {
		rec.Width, rec.Height = m.Width, m.Height
	} else {
		rec.Width, rec.Height = 0, 0
		tracer().Infof("warning: glyph %d for %s has no bitmap metrics", glyph, rec.Key())
	}
	t.remap[rec.ID] = glyph
	return true
}

// Remapping returns the glyph for every identifier attached so far.
func (t *Table) Remapping() map[uint32]ot.GlyphIndex {
	m := make(map[uint32]ot.GlyphIndex, len(t.remap))
	for id, g := range t.remap {
		m[id] = g
	}
	return m
}

// Sorted returns the records which have an identifier, ordered by identifier.
// Records without an identifier are neither persisted nor part of the metadata.
func (t *Table) Sorted() []EmojiRecord {
	records := make([]EmojiRecord, 0, len(t.records))
	for _, rec := range t.records {
		if rec.ID != 0 {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// --- Identifiers -----------------------------------------------------------

// Allocator hands out new identifiers. Identifiers are strictly increasing
// and never handed out twice.
type Allocator struct {
	next uint32
}

// NewAllocator creates an allocator starting at next.
func NewAllocator(next uint32) *Allocator {
	return &Allocator{next: next}
}

// Next returns a fresh identifier.
func (a *Allocator) Next() uint32 {
	id := a.next
	a.next++
	return id
}

// Peek returns the identifier the next call to Next will return.
func (a *Allocator) Peek() uint32 {
	return a.next
}

// Merge carries identifiers and version stamps of persisted records over to
// the records of a new table, which is modified in place and returned.
// Persisted records for keys the new table does not contain are dropped.
//
// The returned allocator starts one past the highest persisted identifier
// (including dropped ones), or at base if there are no persisted records.
func Merge(table *Table, persisted []EmojiRecord, base uint32) (*Table, *Allocator) {
	next, merged, dropped := base, 0, 0
	for _, p := range persisted {
		if p.ID >= next {
			next = p.ID + 1
		}
		rec, ok := table.Lookup(p.Codepoints)
		if !ok {
			dropped++
			continue
		}
		rec.ID, rec.SDKAdded, rec.CompatAdded = p.ID, p.SDKAdded, p.CompatAdded
		merged++
	}
	tracer().Infof("merged %d persisted records, dropped %d, next identifier is %X", merged, dropped, next)
	return table, NewAllocator(next)
}
