package ot

import (
	"testing"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// emojiFontSpec is a small color font with a flag ligature, a ZWJ ligature
// and a contextual rule for a skin tone modifier.
func emojiFontSpec() testfont.Spec {
	return testfont.Spec{
		Cmap: map[uint32]uint16{
			0x1F600: 1, // grinning face
			0x1F1E6: 2, // regional indicator A
			0x1F1E8: 3, // regional indicator C
			0x1F468: 4, // man
			0x200D:  5, // ZWJ
			0x1F469: 6, // woman
			0x1F3FB: 7, // light skin tone
		},
		Bitmaps: map[uint16][2]int{
			1: {136, 128}, 10: {136, 128}, 11: {100, 128}, 12: {90, 120}, 13: {80, 110},
		},
		Lookups: []testfont.Lookup{
			testfont.Single{4: 12, 20: 21},
			testfont.Single{7: 7, 8: 13},
			testfont.Context{{{0, 0}, {1, 1}}},
			testfont.Ligature{
				{Components: []uint16{4, 5, 6}, Glyph: 11},
				{Components: []uint16{2, 3}, Glyph: 10},
			},
		},
	}
}

func parseSpec(t *testing.T, spec testfont.Spec) *Font {
	t.Helper()
	otf, err := Parse(testfont.Build(spec))
	if err != nil {
		t.Fatalf("cannot parse test font: %v", err)
	}
	return otf
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	if otf.Header.FontType != 0x00010000 {
		t.Fatalf("expected font type 0x00010000, is %x", otf.Header.FontType)
	}
	want := []string{"CBDT", "CBLC", "GSUB", "cmap", "head", "maxp"}
	tags := otf.TableTags()
	if len(tags) != len(want) {
		t.Fatalf("expected %d tables, have %v", len(want), tags)
	}
	for i, tag := range tags {
		if tag.String() != want[i] {
			t.Errorf("expected table #%d to be %s, is %s", i, want[i], tag)
		}
	}
	if len(otf.Errors()) != 0 {
		t.Errorf("expected no parse errors, have %v", otf.Errors())
	}
	if otf.HasTable(TagMeta) || otf.Table(TagMeta) != nil {
		t.Errorf("test font should not have a 'meta' table")
	}
}

func TestParseBrokenFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testfont.Build(emojiFontSpec())
	if _, err := Parse(font[:8]); !IsMalformed(err) {
		t.Errorf("expected truncated header to be malformed, got %v", err)
	}
	wrongType := append([]byte(nil), font...)
	putU32(wrongType, 0x12345678)
	if _, err := Parse(wrongType); !IsMalformed(err) {
		t.Errorf("expected unknown font type to be malformed, got %v", err)
	}
	// first table record's length reaching beyond the end of the font
	tooLong := append([]byte(nil), font...)
	putU32(tooLong[12+12:], uint32(len(font)))
	if _, err := Parse(tooLong); !IsMalformed(err) {
		t.Errorf("expected out of bounds table to be malformed, got %v", err)
	}
	misaligned := append([]byte(nil), font...)
	putU32(misaligned[12+8:], u32(misaligned[12+8:])+1)
	if _, err := Parse(misaligned); !IsMalformed(err) {
		t.Errorf("expected misaligned table to be malformed, got %v", err)
	}
}

func TestParseChecksumMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testfont.Build(emojiFontSpec())
	putU32(font[12+4:], 0xCAFEBABE) // checksum of first table, CBDT
	otf, err := Parse(font)
	if err != nil {
		t.Fatal(err)
	}
	if len(otf.Errors()) != 1 || otf.Errors()[0].Severity != SeverityMinor {
		t.Errorf("expected one minor checksum error, have %v", otf.Errors())
	}
}

func TestTag(t *testing.T) {
	if T("cmap") != MakeTag([]byte("cmap")) {
		t.Errorf("expected T and MakeTag to agree")
	}
	if T("Emji").String() != "Emji" {
		t.Errorf("expected tag round trip, got %q", T("Emji").String())
	}
	if T("ab").String() != "ab  " {
		t.Errorf("expected short tag to be padded with spaces, got %q", T("ab").String())
	}
}

func TestCodepointMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	cm, err := otf.ReadCodepointMap()
	if err != nil {
		t.Fatal(err)
	}
	if cm.Len() != 7 {
		t.Errorf("expected 7 codepoints to be mapped, have %d", cm.Len())
	}
	if g := cm.Lookup(0x1F600); g != 1 {
		t.Errorf("expected U+1F600 to map to glyph 1, maps to %d", g)
	}
	if g := cm.Lookup(0x1F601); g != 0 {
		t.Errorf("expected unmapped codepoint to yield .notdef, have %d", g)
	}
	cps := cm.Codepoints()
	if cps[0] != 0x200D || cps[len(cps)-1] != 0x1F600 {
		t.Errorf("expected codepoints in ascending order, have %x", cps)
	}
	inv := cm.GlyphToCodepoint(nil)
	if inv[2] != 0x1F1E6 {
		t.Errorf("expected glyph 2 to map back to U+1F1E6, have %x", inv[2])
	}
}

func TestCodepointMapSkipsIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.Cmap[0xF0001] = 2 // identifier of a former build, same glyph as U+1F1E6
	otf := parseSpec(t, spec)
	cm, err := otf.ReadCodepointMap()
	if err != nil {
		t.Fatal(err)
	}
	if inv := cm.GlyphToCodepoint(nil); inv[2] != 0xF0001 {
		t.Errorf("expected higher codepoint U+F0001 to win without a filter, have %x", inv[2])
	}
	inv := cm.GlyphToCodepoint(func(cp uint32) bool { return cp >= 0xF0000 })
	if inv[2] != 0x1F1E6 {
		t.Errorf("expected glyph 2 to map back to U+1F1E6, have %x", inv[2])
	}
}

func TestCodepointMapUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.NoCmap12 = true
	otf := parseSpec(t, spec)
	_, err := otf.ReadCodepointMap()
	if !IsUnsupported(err) {
		t.Errorf("expected font without 3/10/12 subtable to be unsupported, got %v", err)
	}
}

func TestCodepointMapEncode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	cm, err := otf.ReadCodepointMap()
	if err != nil {
		t.Fatal(err)
	}
	data, err := cm.Encode(map[uint32]GlyphIndex{0xF0001: 10, 0xF0002: 11})
	if err != nil {
		t.Fatal(err)
	}
	edited, err := otf.Apply(NewEdits().Replace(TagCmap, data))
	if err != nil {
		t.Fatal(err)
	}
	otf2, err := Parse(edited)
	if err != nil {
		t.Fatal(err)
	}
	cm2, err := otf2.ReadCodepointMap()
	if err != nil {
		t.Fatal(err)
	}
	if cm2.Len() != 9 || cm2.Lookup(0xF0001) != 10 || cm2.Lookup(0xF0002) != 11 {
		t.Errorf("expected remapped identifiers in new cmap, have %d entries", cm2.Len())
	}
	if cm2.Lookup(0x1F600) != 1 {
		t.Errorf("expected existing mappings to survive")
	}
	if cm.Len() != 7 {
		t.Errorf("Encode must not modify its receiver")
	}
}
