/*
Package testfont builds small synthetic color-bitmap fonts for tests.

A Spec describes the few structures an emoji compatibility build looks at:
the cmap (3, 10, 12) subtable, GSUB lookups of type 1, 4 and 5, and CBLC/CBDT
bitmap metrics. Build turns it into a binary which real font parsers accept.
*/
package testfont

import (
	"bytes"
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding/unicode"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// Modified is the 'head' modification timestamp of every test font.
const Modified uint64 = 0x00000000DEADBEEF

// Spec describes a test font.
type Spec struct {
	NumGlyphs int               // defaults to the highest glyph used + 1
	Cmap      map[uint32]uint16 // cmap subtable platform 3, encoding 10, format 12
	NoCmap12  bool              // write a BMP-only 3/1/4 subtable instead
	Bitmaps   map[uint16][2]int // glyph -> width, height; one strike
	NoBitmaps bool              // omit CBLC and CBDT
	Lookups   []Lookup          // GSUB lookup list; no GSUB table if empty
	Meta      map[string][]byte // pre-existing 'meta' data maps
	Names     map[uint16]string // 'name' records, Windows platform, English
}

// Lookup is a GSUB lookup.
type Lookup interface {
	lookupType() uint16
	subtable() []byte
}

// Single is a single substitution lookup (type 1, format 2).
type Single map[uint16]uint16

// Ligature is a ligature substitution lookup (type 4, format 1).
type Ligature []Lig

// Lig maps a sequence of glyphs to a ligature glyph.
type Lig struct {
	Components []uint16
	Glyph      uint16
}

// Context is a context substitution lookup (type 5, format 2). Each rule is
// a list of sequence lookup records, given as pairs of (sequence index,
// lookup list index).
type Context [][][2]uint16

// Extension wraps a lookup into an extension lookup (type 7).
type Extension struct {
	Lookup
}

// Build serializes a font according to spec.
func Build(spec Spec) []byte {
	tables := map[string][]byte{
		"head": head(),
		"maxp": maxp(spec.numGlyphs()),
		"cmap": spec.cmap(),
	}
	if !spec.NoBitmaps {
		tables["CBLC"], tables["CBDT"] = spec.bitmaps()
	}
	if len(spec.Lookups) > 0 {
		tables["GSUB"] = gsub(spec.Lookups)
	}
	if len(spec.Meta) > 0 {
		tables["meta"] = meta(spec.Meta)
	}
	if len(spec.Names) > 0 {
		tables["name"] = name(spec.Names)
	}
	return assemble(tables)
}

func (spec Spec) numGlyphs() int {
	if spec.NumGlyphs > 0 {
		return spec.NumGlyphs
	}
	max := 0
	use := func(g uint16) {
		if int(g) > max {
			max = int(g)
		}
	}
	for _, g := range spec.Cmap {
		use(g)
	}
	for g := range spec.Bitmaps {
		use(g)
	}
	for _, l := range spec.Lookups {
		switch l := l.(type) {
		case Single:
			for in, out := range l {
				use(in)
				use(out)
			}
		case Ligature:
			for _, lig := range l {
				use(lig.Glyph)
				for _, c := range lig.Components {
					use(c)
				}
			}
		}
	}
	return max + 1
}

// --- Tables ----------------------------------------------------------------

type writer struct {
	bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.WriteByte(v) }
func (w *writer) u16(v uint16) { _ = binary.Write(w, binary.BigEndian, v) }
func (w *writer) u32(v uint32) { _ = binary.Write(w, binary.BigEndian, v) }
func (w *writer) u64(v uint64) { _ = binary.Write(w, binary.BigEndian, v) }

func head() []byte {
	w := &writer{}
	w.u32(0x00010000) // version
	w.u32(0x00010000) // fontRevision
	w.u32(0)          // checksumAdjustment
	w.u32(0x5F0F3CF5) // magicNumber
	w.u16(0)          // flags
	w.u16(2048)       // unitsPerEm
	w.u64(Modified)   // created
	w.u64(Modified)   // modified
	for i := 0; i < 4; i++ {
		w.u16(0) // xMin, yMin, xMax, yMax
	}
	w.u16(0) // macStyle
	w.u16(8) // lowestRecPPEM
	w.u16(2) // fontDirectionHint
	w.u16(0) // indexToLocFormat
	w.u16(0) // glyphDataFormat
	return w.Bytes()
}

func maxp(numGlyphs int) []byte {
	w := &writer{}
	w.u32(0x00005000)
	w.u16(uint16(numGlyphs))
	return w.Bytes()
}

func (spec Spec) cmap() []byte {
	table := cmap.Table{}
	if spec.NoCmap12 {
		sub := cmap.Format4{}
		for cp, g := range spec.Cmap {
			if cp <= 0xFFFF {
				sub[uint16(cp)] = glyph.ID(g)
			}
		}
		table[cmap.Key{PlatformID: 3, EncodingID: 1}] = sub.Encode(0)
	} else {
		sub := cmap.Format12{}
		for cp, g := range spec.Cmap {
			sub[cp] = glyph.ID(g)
		}
		table[cmap.Key{PlatformID: 3, EncodingID: 10}] = sub.Encode(0)
	}
	return table.Encode()
}

// bitmaps writes one strike. Every glyph gets its own index subtable of
// format 1 and an image of format 17 (small metrics + PNG data).
func (spec Spec) bitmaps() (cblc, cbdt []byte) {
	glyphs := make([]uint16, 0, len(spec.Bitmaps))
	for g := range spec.Bitmaps {
		glyphs = append(glyphs, g)
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i] < glyphs[j] })
	png := []byte{0x89, 'P', 'N', 'G'}

	data := &writer{}
	data.u32(0x00030000)
	offsets := make([]uint32, len(glyphs))
	for i, g := range glyphs {
		offsets[i] = uint32(data.Len())
		m := spec.Bitmaps[g]
		data.u8(uint8(m[1])) // height
		data.u8(uint8(m[0])) // width
		data.u8(0)           // bearingX
		data.u8(uint8(m[1])) // bearingY
		data.u8(uint8(m[0])) // advance
		data.u32(uint32(len(png)))
		data.Write(png)
	}

	const arrayOffset = 8 + 48
	subtables := &writer{}
	records := &writer{}
	recordsSize := 8 * len(glyphs)
	for i, g := range glyphs {
		records.u16(g)
		records.u16(g)
		records.u32(uint32(recordsSize + subtables.Len()))
		subtables.u16(1)  // indexFormat
		subtables.u16(17) // imageFormat
		subtables.u32(offsets[i])
		subtables.u32(0)
		subtables.u32(uint32(5 + 4 + len(png)))
	}
	loc := &writer{}
	loc.u32(0x00030000)
	loc.u32(1) // numSizes
	loc.u32(arrayOffset)
	loc.u32(uint32(recordsSize + subtables.Len()))
	loc.u32(uint32(len(glyphs)))
	loc.u32(0)                  // colorRef
	loc.Write(make([]byte, 24)) // hori and vert line metrics
	first, last := uint16(0), uint16(0)
	if len(glyphs) > 0 {
		first, last = glyphs[0], glyphs[len(glyphs)-1]
	}
	loc.u16(first)
	loc.u16(last)
	loc.u8(109) // ppemX
	loc.u8(109) // ppemY
	loc.u8(32)  // bitDepth
	loc.u8(1)   // flags
	loc.Write(records.Bytes())
	loc.Write(subtables.Bytes())
	return loc.Bytes(), data.Bytes()
}

func gsub(lookups []Lookup) []byte {
	w := &writer{}
	w.u16(1)
	w.u16(0)
	w.u16(10) // ScriptList
	w.u16(12) // FeatureList
	w.u16(14) // LookupList
	w.u16(0)  // no scripts
	w.u16(0)  // no features
	list := &writer{}
	body := &writer{}
	list.u16(uint16(len(lookups)))
	base := 2 + 2*len(lookups)
	for _, l := range lookups {
		list.u16(uint16(base + body.Len()))
		sub := l.subtable()
		body.u16(l.lookupType())
		body.u16(0) // lookupFlag
		body.u16(1) // subTableCount
		body.u16(8) // offset of subtable from start of lookup
		body.Write(sub)
		if body.Len()%2 != 0 {
			body.u8(0)
		}
	}
	w.Write(list.Bytes())
	w.Write(body.Bytes())
	return w.Bytes()
}

func coverage(glyphs []uint16) []byte {
	w := &writer{}
	w.u16(1)
	w.u16(uint16(len(glyphs)))
	for _, g := range glyphs {
		w.u16(g)
	}
	return w.Bytes()
}

func (s Single) lookupType() uint16 { return 1 }

func (s Single) subtable() []byte {
	in := make([]uint16, 0, len(s))
	for g := range s {
		in = append(in, g)
	}
	sort.Slice(in, func(i, j int) bool { return in[i] < in[j] })
	w := &writer{}
	w.u16(2)
	w.u16(uint16(6 + 2*len(in))) // coverage follows substitutes
	w.u16(uint16(len(in)))
	for _, g := range in {
		w.u16(s[g])
	}
	w.Write(coverage(in))
	return w.Bytes()
}

func (l Ligature) lookupType() uint16 { return 4 }

func (l Ligature) subtable() []byte {
	sets := map[uint16][]Lig{}
	var firsts []uint16
	for _, lig := range l {
		f := lig.Components[0]
		if _, ok := sets[f]; !ok {
			firsts = append(firsts, f)
		}
		sets[f] = append(sets[f], lig)
	}
	sort.Slice(firsts, func(i, j int) bool { return firsts[i] < firsts[j] })
	cov := coverage(firsts)
	headerSize := 6 + 2*len(firsts)
	body := &writer{}
	setOffsets := make([]uint16, len(firsts))
	for i, f := range firsts {
		setOffsets[i] = uint16(headerSize + len(cov) + body.Len())
		ligs := sets[f]
		set := &writer{}
		set.u16(uint16(len(ligs)))
		ligData := &writer{}
		for _, lig := range ligs {
			set.u16(uint16(2 + 2*len(ligs) + ligData.Len()))
			ligData.u16(lig.Glyph)
			ligData.u16(uint16(len(lig.Components)))
			for _, c := range lig.Components[1:] {
				ligData.u16(c)
			}
		}
		body.Write(set.Bytes())
		body.Write(ligData.Bytes())
	}
	w := &writer{}
	w.u16(1)
	w.u16(uint16(headerSize)) // coverage right after the header
	w.u16(uint16(len(firsts)))
	for _, off := range setOffsets {
		w.u16(off)
	}
	w.Write(cov)
	w.Write(body.Bytes())
	return w.Bytes()
}

func (c Context) lookupType() uint16 { return 5 }

// subtable writes format 2 with a single class sequence rule set (class 0)
// holding all rules.
func (c Context) subtable() []byte {
	cov := coverage([]uint16{1})
	classDef := []byte{0, 1, 0, 1, 0, 1, 0, 0} // format 1, start 1, count 1, class 0
	const headerSize = 10                      // format, coverage, classDef, count 1, offset
	set := &writer{}
	set.u16(uint16(len(c)))
	rules := &writer{}
	for _, records := range c {
		set.u16(uint16(2 + 2*len(c) + rules.Len()))
		glyphCount := len(records)
		rules.u16(uint16(glyphCount))
		rules.u16(uint16(len(records)))
		for i := 1; i < glyphCount; i++ {
			rules.u16(0) // input class
		}
		for _, r := range records {
			rules.u16(r[0])
			rules.u16(r[1])
		}
	}
	w := &writer{}
	w.u16(2)
	w.u16(headerSize)
	w.u16(uint16(headerSize + len(cov)))
	w.u16(1)
	w.u16(uint16(headerSize + len(cov) + len(classDef)))
	w.Write(cov)
	w.Write(classDef)
	w.Write(set.Bytes())
	w.Write(rules.Bytes())
	return w.Bytes()
}

func (x Extension) lookupType() uint16 { return 7 }

func (x Extension) subtable() []byte {
	w := &writer{}
	w.u16(1)
	w.u16(x.Lookup.lookupType())
	w.u32(8)
	w.Write(x.Lookup.subtable())
	return w.Bytes()
}

func meta(maps map[string][]byte) []byte {
	tags := make([]string, 0, len(maps))
	for tag := range maps {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	w := &writer{}
	w.u32(1)
	w.u32(0)
	dataOffset := 16 + 12*len(tags)
	w.u32(uint32(dataOffset))
	w.u32(uint32(len(tags)))
	off := dataOffset
	for _, tag := range tags {
		w.WriteString(tag)
		w.u32(uint32(off))
		w.u32(uint32(len(maps[tag])))
		off += len(maps[tag])
	}
	for _, tag := range tags {
		w.Write(maps[tag])
	}
	return w.Bytes()
}

// name writes a format 0 naming table with UTF-16BE strings.
func name(names map[uint16]string) []byte {
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	w, storage := &writer{}, &writer{}
	w.u16(0)
	w.u16(uint16(len(ids)))
	w.u16(uint16(6 + 12*len(ids)))
	for _, id := range ids {
		s, _ := enc.Bytes([]byte(names[uint16(id)]))
		w.u16(3)      // platform Windows
		w.u16(1)      // encoding Unicode BMP
		w.u16(0x0409) // language en-US
		w.u16(uint16(id))
		w.u16(uint16(len(s)))
		w.u16(uint16(storage.Len()))
		storage.Write(s)
	}
	w.Write(storage.Bytes())
	return w.Bytes()
}

// assemble writes an SFNT container with sorted tables.
func assemble(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	out := &writer{}
	out.u32(0x00010000)
	out.u16(uint16(n))
	sr, es := 16, 0
	for sr*2 <= n*16 {
		sr *= 2
		es++
	}
	out.u16(uint16(sr))
	out.u16(uint16(es))
	out.u16(uint16(n*16 - sr))
	offset := 12 + 16*n
	for _, tag := range tags {
		data := tables[tag]
		out.WriteString(tag)
		out.u32(checksum(data))
		out.u32(uint32(offset))
		out.u32(uint32(len(data)))
		offset += (len(data) + 3) &^ 3
	}
	for _, tag := range tags {
		data := tables[tag]
		out.Write(data)
		out.Write(make([]byte, ((len(data)+3)&^3)-len(data)))
	}
	return out.Bytes()
}

func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}
