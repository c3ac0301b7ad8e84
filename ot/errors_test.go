package ot

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseMissingRequiredTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testfont.Build(emojiFontSpec())
	font = bytes.Replace(font, []byte("maxp"), []byte("mbxp"), 1) // directory entry only
	otf, err := Parse(font)
	if err != nil {
		t.Fatal(err)
	}
	critical := otf.CriticalErrors()
	if len(critical) != 1 || critical[0].Table != TagMaxp {
		t.Fatalf("expected a critical error for missing 'maxp', have %v", otf.Errors())
	}
	if msg := critical[0].Error(); msg != "[CRITICAL] maxp/TableDirectory: required table missing" {
		t.Errorf("unexpected message %q", msg)
	}
	if len(otf.Errors()) != 1 {
		t.Errorf("expected no other errors, have %v", otf.Errors())
	}
}

func TestUndecodableSingleSubstitution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseSpec(t, emojiFontSpec())
	lookups, err := parseGSubLookupList(binarySegm(otf.Table(TagGSUB)))
	if err != nil {
		t.Fatal(err)
	}
	putU16(lookups[1].subtables[0], 9) // skin tone substitution of the context rule
	rules, err := otf.ReadSubstitutionRules()
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rules {
		if _, ok := r.(ContextualRule); ok {
			t.Errorf("expected context rule on undecodable lookup to be dropped, have %v", r)
		}
	}
	if len(otf.Errors()) != 1 {
		t.Fatalf("expected one error, have %v", otf.Errors())
	}
	e := otf.Errors()[0]
	if e.Severity != SeverityMajor || e.Table != TagGSUB || e.Section != "LookupType1" {
		t.Errorf("expected major error for GSUB single substitution, have %v", e)
	}
	if len(otf.CriticalErrors()) != 0 {
		t.Errorf("lost substitutions must not be critical")
	}
	if len(otf.Warnings()) != 1 {
		t.Errorf("expected a warning for the dropped context rule, have %v", otf.Warnings())
	}
}

func TestFontIssueFormat(t *testing.T) {
	e := FontError{Table: TagCBLC, Section: "IndexSubTable", Issue: "bad offset", Severity: SeverityMajor, Offset: 48}
	if msg := e.Error(); msg != "[MAJOR] CBLC/IndexSubTable at offset 48: bad offset" {
		t.Errorf("unexpected message %q", msg)
	}
	if s := ErrorSeverity(7).String(); s != "UNKNOWN" {
		t.Errorf("expected unknown severity, have %q", s)
	}
	w := FontWarning{Table: TagGSUB, Issue: "rule skipped"}
	if msg := w.String(); msg != "[WARNING] GSUB: rule skipped" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestClientErrors(t *testing.T) {
	cause := errors.New("buffer too small")
	err := fmt.Errorf("reading font: %w", errMalformed(TagCBLC, "strike 0", cause))
	if !IsMalformed(err) {
		t.Errorf("expected wrapped error to be malformed-font error")
	}
	if IsUnsupported(err) {
		t.Errorf("malformed-font error must not be reported as unsupported")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected malformed-font error to unwrap to its cause")
	}
	if msg := errMalformed(TagCmap, "table missing", nil).Error(); msg != "malformed font: table cmap: table missing" {
		t.Errorf("unexpected message %q", msg)
	}
	if msg := errFontFormat("font header too short").Error(); msg != "malformed font: font header too short" {
		t.Errorf("unexpected message %q", msg)
	}
	var unsupported error = &UnsupportedFontError{Reason: "no 3/10/12 cmap"}
	if !IsUnsupported(unsupported) || IsMalformed(unsupported) {
		t.Errorf("UnsupportedFontError misclassified")
	}
}
