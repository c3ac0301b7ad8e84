package ot

import (
	"fmt"
	"strings"
)

// GSUB lookup types relevant for color emoji fonts.
const (
	GSubLookupTypeSingle    uint16 = 1
	GSubLookupTypeLigature  uint16 = 4
	GSubLookupTypeContext   uint16 = 5
	GSubLookupTypeExtension uint16 = 7
)

// SubstitutionRule is either a LigatureRule or a ContextualRule.
// Other GSUB lookup types are not represented.
type SubstitutionRule interface {
	LookupIndex() int // index of the lookup in the GSUB lookup list
	isSubstitutionRule()
}

// LigatureRule replaces a fixed glyph sequence by a single output glyph.
// Input includes the first glyph, which in the font is stored as part of the
// coverage table.
type LigatureRule struct {
	Lookup int
	Input  []GlyphIndex
	Output GlyphIndex
}

// LookupIndex is part of interface SubstitutionRule.
func (r LigatureRule) LookupIndex() int    { return r.Lookup }
func (r LigatureRule) isSubstitutionRule() {}

func (r LigatureRule) String() string {
	return fmt.Sprintf("lig#%d %v -> %d", r.Lookup, r.Input, r.Output)
}

// ContextualRule is a context substitution where each position of a matched
// glyph sequence may independently be substituted. The glyph sequences the
// rule covers are the Cartesian product of the positions' candidate lists.
type ContextualRule struct {
	Lookup    int
	Positions [][]Candidate
}

// LookupIndex is part of interface SubstitutionRule.
func (r ContextualRule) LookupIndex() int    { return r.Lookup }
func (r ContextualRule) isSubstitutionRule() {}

func (r ContextualRule) String() string {
	sizes := make([]string, len(r.Positions))
	for i, p := range r.Positions {
		sizes[i] = fmt.Sprintf("%d", len(p))
	}
	return fmt.Sprintf("ctx#%d [%s]", r.Lookup, strings.Join(sizes, "x"))
}

// Candidate is one alternative at a position of a ContextualRule: a glyph
// to match, and the glyph it will be replaced with. Every entry of a single
// substitution has an output, also one which maps a glyph onto itself.
// Output is None only if no output glyph is present.
type Candidate struct {
	Input  GlyphIndex
	Output Option[GlyphIndex]
}

// SequenceLookupRecord links a position of a context rule to a nested lookup.
type SequenceLookupRecord struct {
	SequenceIndex   uint16 // index (zero-based) into the input glyph sequence
	LookupListIndex uint16 // index (zero-based) into the LookupList
}

// gsubLookup is a lookup of the lookup list with extension subtables
// already unwrapped.
type gsubLookup struct {
	index     int
	typ       uint16 // effective type, never GSubLookupTypeExtension
	flag      uint16
	subtables []binarySegm
}
