package ot

import (
	"testing"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSubstitutionRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	rules, err := otf.ReadSubstitutionRules()
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 1 contextual and 2 ligature rules, have %v", rules)
	}
	ctx, ok := rules[0].(ContextualRule)
	if !ok {
		t.Fatalf("expected contextual rules first, have %T", rules[0])
	}
	if ctx.LookupIndex() != 2 || len(ctx.Positions) != 2 {
		t.Fatalf("unexpected contextual rule %v", ctx)
	}
	p0 := ctx.Positions[0]
	if len(p0) != 2 || p0[0].Input != 4 || outputOf(p0[0]) != 12 || p0[1].Input != 20 {
		t.Errorf("unexpected candidates for position 0: %v", p0)
	}
	p1 := ctx.Positions[1]
	if len(p1) != 2 || p1[0].Input != 7 || !p1[0].Output.IsSome() || outputOf(p1[0]) != 7 {
		t.Errorf("expected identity substitution 7 -> 7 to be an output, have %v", p1)
	}
	if p1[1].Input != 8 || outputOf(p1[1]) != 13 {
		t.Errorf("unexpected candidate for position 1: %v", p1[1])
	}
	lig1, ok1 := rules[1].(LigatureRule)
	lig2, ok2 := rules[2].(LigatureRule)
	if !ok1 || !ok2 {
		t.Fatalf("expected ligature rules after contextual rules")
	}
	// ligature sets are ordered by coverage, i.e. by first glyph
	if lig1.Output != 10 || len(lig1.Input) != 2 || lig1.Input[0] != 2 || lig1.Input[1] != 3 {
		t.Errorf("unexpected ligature %v", lig1)
	}
	if lig2.Output != 11 || len(lig2.Input) != 3 || lig2.Input[2] != 6 || lig2.LookupIndex() != 3 {
		t.Errorf("unexpected ligature %v", lig2)
	}
}

func TestSubstitutionRulesSkipInvalidContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.Lookups[2] = testfont.Context{
		{{0, 0}, {1, 1}},
		{{0, 0}, {0, 1}}, // position 1 not targeted
		{{0, 3}},         // references the ligature lookup
	}
	otf := parseSpec(t, spec)
	rules, err := otf.ReadSubstitutionRules()
	if err != nil {
		t.Fatal(err)
	}
	contextual := 0
	for _, r := range rules {
		if _, ok := r.(ContextualRule); ok {
			contextual++
		}
	}
	if contextual != 1 {
		t.Errorf("expected invalid context rules to be skipped, have %d", contextual)
	}
	if len(otf.Warnings()) != 2 {
		t.Errorf("expected 2 warnings, have %v", otf.Warnings())
	}
}

func TestSubstitutionRulesExtension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.Lookups[0] = testfont.Extension{Lookup: spec.Lookups[0]}
	spec.Lookups[3] = testfont.Extension{Lookup: spec.Lookups[3]}
	otf := parseSpec(t, spec)
	rules, err := otf.ReadSubstitutionRules()
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected extension lookups to be unwrapped, have %v", rules)
	}
	ctx := rules[0].(ContextualRule)
	if outputOf(ctx.Positions[0][0]) != 12 {
		t.Errorf("expected single substitution behind extension to be resolved")
	}
	if lig := rules[2].(LigatureRule); lig.Output != 11 {
		t.Errorf("expected ligature behind extension, have %v", lig)
	}
}

func TestSubstitutionRulesWithoutGSUB(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	spec := emojiFontSpec()
	spec.Lookups = nil
	otf := parseSpec(t, spec)
	rules, err := otf.ReadSubstitutionRules()
	if err != nil || len(rules) != 0 {
		t.Errorf("expected font without GSUB to have no rules, have %v, %v", rules, err)
	}
}

func TestSubstitutionRulesBadVersion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	rec, _ := otf.Record(TagGSUB)
	putU16(otf.Binary[rec.Offset:], 2)
	if _, err := otf.ReadSubstitutionRules(); !IsMalformed(err) {
		t.Errorf("expected GSUB major version 2 to be malformed, got %v", err)
	}
}

func TestCoverageFormat2(t *testing.T) {
	// format 2, 2 ranges: 5..7 and 10..10
	cov := binarySegm{0, 2, 0, 2, 0, 5, 0, 7, 0, 0, 0, 10, 0, 10, 0, 3}
	glyphs, err := parseCoverage(cov)
	if err != nil {
		t.Fatal(err)
	}
	want := []GlyphIndex{5, 6, 7, 10}
	if len(glyphs) != len(want) {
		t.Fatalf("expected %v, have %v", want, glyphs)
	}
	for i := range want {
		if glyphs[i] != want[i] {
			t.Errorf("expected %v, have %v", want, glyphs)
		}
	}
}

// outputOf returns the output glyph of a candidate, or 0 if it has none.
func outputOf(c Candidate) GlyphIndex {
	g, _ := c.Output.Unwrap()
	return g
}
