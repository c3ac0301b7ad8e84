package ot

import (
	"bytes"
	"testing"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMetaTable(t *testing.T) {
	m := NewMetaTable()
	m.Set(T("dlng"), []byte("Zsye"))
	m.Set(TagEmji, []byte{1, 2, 3})
	m.Set(T("dlng"), []byte("Zsym"))
	data := m.Encode()
	if u32(data[8:]) != 16+2*12 {
		t.Errorf("expected reserved field to hold data offset, is %d", u32(data[8:]))
	}
	// records are sorted by tag: 'Emji' < 'dlng'
	if MakeTag(data[16:]) != TagEmji {
		t.Errorf("expected first data map to be Emji, is %s", MakeTag(data[16:]))
	}
	m2, err := ParseMeta(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(m2.Maps) != 2 {
		t.Fatalf("expected 2 data maps, have %d", len(m2.Maps))
	}
	if d, ok := m2.Get(T("dlng")); !ok || string(d) != "Zsym" {
		t.Errorf("expected dlng to be replaced, is %q", d)
	}
	if d, ok := m2.Get(TagEmji); !ok || !bytes.Equal(d, []byte{1, 2, 3}) {
		t.Errorf("unexpected Emji data %v", d)
	}
	if _, ok := m2.Get(T("slng")); ok {
		t.Errorf("expected no slng data map")
	}
	if _, err := ParseMeta(data[:20]); !IsMalformed(err) {
		t.Errorf("expected truncated meta table to be malformed")
	}
}

func TestApplyEdits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	meta := NewMetaTable()
	meta.Set(TagEmji, []byte("flatbuffer"))
	edits := NewEdits().
		Replace(TagMeta, meta.Encode()).
		SetVersion(TagCBDT, 0x00020000).
		SetVersion(TagCBLC, 0x00020000).
		First(TagMeta)
	out, err := otf.Apply(edits)
	if err != nil {
		t.Fatal(err)
	}
	otf2, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(otf2.Errors()) != 0 {
		t.Errorf("expected written font to have correct checksums, have %v", otf2.Errors())
	}
	tags := otf2.TableTags()
	if tags[0] != TagMeta {
		t.Errorf("expected 'meta' to be the first table, have %v", tags)
	}
	if rec, _ := otf2.Record(TagMeta); rec.Offset != uint32(12+16*len(tags)) {
		t.Errorf("expected 'meta' data to follow the table directory, is at %d", rec.Offset)
	}
	if u32(otf2.Table(TagCBDT)) != 0x00020000 || u32(otf2.Table(TagCBLC)) != 0x00020000 {
		t.Errorf("expected CBDT and CBLC to be of version 2.0")
	}
	if u32(otf.Table(TagCBDT)) != 0x00030000 {
		t.Errorf("Apply must not modify the source font")
	}
	head := otf2.Table(TagHead)
	modified := uint64(u32(head[28:]))<<32 | uint64(u32(head[32:]))
	if modified != testfont.Modified {
		t.Errorf("expected head.modified to be unchanged, is %x", modified)
	}
	if sum := checksum(out); sum != 0xB1B0AFBA {
		t.Errorf("expected font checksum 0xB1B0AFBA, is %08x", sum)
	}
	m, err := ParseMeta(otf2.Table(TagMeta))
	if err != nil {
		t.Fatal(err)
	}
	if d, _ := m.Get(TagEmji); string(d) != "flatbuffer" {
		t.Errorf("unexpected Emji data %q", d)
	}
	// all other tables unchanged
	for _, tag := range []Tag{TagGSUB, TagCmap, T("maxp")} {
		if !bytes.Equal(otf.Table(tag), otf2.Table(tag)) {
			t.Errorf("expected table %s to be copied unchanged", tag)
		}
	}
}

func TestApplyVersionOfMissingTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.NoBitmaps = true
	otf := parseSpec(t, spec)
	if _, err := otf.Apply(NewEdits().SetVersion(TagCBDT, 0x00020000)); !IsMalformed(err) {
		t.Errorf("expected version edit of missing table to fail, got %v", err)
	}
	if _, err := otf.Apply(NewEdits().First(TagMeta)); !IsMalformed(err) {
		t.Errorf("expected placing a missing table first to fail, got %v", err)
	}
}

func TestSearchParams(t *testing.T) {
	for _, tc := range []struct {
		n                  int
		sr, es, rangeShift uint16
	}{
		{1, 16, 0, 0},
		{7, 64, 2, 48},
		{8, 128, 3, 0},
		{13, 128, 3, 80},
	} {
		sr, es, rs := searchParams(tc.n)
		if sr != tc.sr || es != tc.es || rs != tc.rangeShift {
			t.Errorf("searchParams(%d) = %d, %d, %d", tc.n, sr, es, rs)
		}
	}
}
