package ot

import (
	"fmt"
)

// ReadSubstitutionRules decodes the GSUB lookup list and returns the
// ligature and contextual substitution rules it contains. Contextual rules
// are returned first, then ligature rules, each group in lookup order.
// Lookups of other types are ignored, except for single substitutions
// referenced from contextual rules. A font without a GSUB table has no rules.
func (otf *Font) ReadSubstitutionRules() ([]SubstitutionRule, error) {
	gsub := binarySegm(otf.Table(TagGSUB))
	if gsub == nil {
		tracer().Infof("font has no GSUB table")
		return nil, nil
	}
	lookups, err := parseGSubLookupList(gsub)
	if err != nil {
		return nil, err
	}
	p := gsubParser{lookups: lookups, singles: make(map[int][]Candidate)}
	var contextual, ligatures []SubstitutionRule
	for _, lookup := range lookups {
		switch lookup.typ {
		case GSubLookupTypeContext:
			rules, err := p.contextRules(lookup)
			if err != nil {
				return nil, err
			}
			contextual = append(contextual, rules...)
		case GSubLookupTypeLigature:
			rules, err := p.ligatureRules(lookup)
			if err != nil {
				return nil, err
			}
			ligatures = append(ligatures, rules...)
		}
	}
	otf.collect(func(ec *errorCollector) {
		for _, w := range p.warnings {
			ec.addWarning(TagGSUB, w, 0)
		}
		for _, e := range p.errors {
			ec.addError(e.Table, e.Section, e.Issue, e.Severity, e.Offset)
		}
	})
	tracer().Debugf("GSUB: %d contextual rules, %d ligature rules", len(contextual), len(ligatures))
	return append(contextual, ligatures...), nil
}

// parseGSubLookupList reads the GSUB header and its lookup list.
// Extension lookups (type 7) are replaced by the lookups they wrap.
func parseGSubLookupList(gsub binarySegm) ([]gsubLookup, error) {
	major, err := gsub.u16(0)
	if err != nil {
		return nil, errMalformed(TagGSUB, "header too small", err)
	}
	if major != 1 {
		return nil, errMalformed(TagGSUB, fmt.Sprintf("unsupported major version %d", major), nil)
	}
	ll, err := gsub.link16(8)
	if err != nil {
		return nil, errMalformed(TagGSUB, "lookup list offset", err)
	}
	if ll == nil {
		return nil, nil
	}
	offsets, err := ll.array16(0)
	if err != nil {
		return nil, errMalformed(TagGSUB, "lookup list", err)
	}
	if len(offsets) > MaxLookupCount {
		return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup count %d exceeds maximum %d",
			len(offsets), MaxLookupCount), nil)
	}
	lookups := make([]gsubLookup, len(offsets))
	for i, off := range offsets {
		lookup, err := parseGSubLookup(ll, int(off), i)
		if err != nil {
			return nil, err
		}
		lookups[i] = lookup
	}
	return lookups, nil
}

func parseGSubLookup(ll binarySegm, off int, index int) (gsubLookup, error) {
	lookup := gsubLookup{index: index}
	b, err := ll.from(off)
	if err != nil || len(b) < 6 {
		return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d out of bounds", index), err)
	}
	lookup.typ, lookup.flag = b.U16(0), b.U16(2)
	isExtension := lookup.typ == GSubLookupTypeExtension
	subOffsets, err := b.array16(4)
	if err != nil {
		return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d subtable offsets", index), err)
	}
	for j, subOff := range subOffsets {
		sub, err := b.from(int(subOff))
		if err != nil || len(sub) < 2 {
			return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d subtable %d out of bounds", index, j), err)
		}
		if isExtension {
			// Extension subtable: format u16, extensionLookupType u16, extensionOffset Offset32
			if sub.U16(0) != 1 || len(sub) < 8 {
				return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: bad extension subtable", index), nil)
			}
			actual := sub.U16(2)
			if actual == GSubLookupTypeExtension {
				return lookup, errMalformed(TagGSUB, "extension subtable references another extension", nil)
			}
			target, err := sub.from(int(sub.U32(4)))
			if err != nil {
				return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: extension offset", index), err)
			}
			if j == 0 {
				lookup.typ = actual
			} else if lookup.typ != actual {
				return lookup, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: mixed extension types", index), nil)
			}
			sub = target
		}
		lookup.subtables = append(lookup.subtables, sub)
	}
	return lookup, nil
}

// gsubParser decodes rules from lookups. Single substitution lookups are
// decoded on demand and cached, as they may be referenced from many rules.
type gsubParser struct {
	lookups  []gsubLookup
	singles  map[int][]Candidate
	warnings []string
	errors   []FontError
}

func (p *gsubParser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// fail records a subtable which cannot be decoded. Its substitutions are lost.
func (p *gsubParser) fail(section string, format string, args ...any) {
	p.errors = append(p.errors, FontError{
		Table:    TagGSUB,
		Section:  section,
		Issue:    fmt.Sprintf(format, args...),
		Severity: SeverityMajor,
	})
}

// --- Ligature substitution -------------------------------------------------

func (p *gsubParser) ligatureRules(lookup gsubLookup) ([]SubstitutionRule, error) {
	var rules []SubstitutionRule
	for j, sub := range lookup.subtables {
		if sub.U16(0) != 1 {
			p.fail("LookupType4", "lookup %d subtable %d: unknown ligature format %d", lookup.index, j, sub.U16(0))
			continue
		}
		coverage, err := parseCoverageAt(sub, 2)
		if err != nil {
			return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: ligature coverage", lookup.index), err)
		}
		ligSetOffsets, err := sub.array16(4)
		if err != nil {
			return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: ligature set offsets", lookup.index), err)
		}
		if len(ligSetOffsets) > len(coverage) {
			return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: %d ligature sets for %d covered glyphs",
				lookup.index, len(ligSetOffsets), len(coverage)), nil)
		}
		for i, setOffset := range ligSetOffsets {
			ligSet, err := sub.from(int(setOffset))
			if err != nil || setOffset == 0 {
				return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: ligature set %d", lookup.index, i), err)
			}
			ligOffsets, err := ligSet.array16(0)
			if err != nil {
				return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: ligature offsets", lookup.index), err)
			}
			for _, ligOffset := range ligOffsets {
				rule, err := parseLigature(ligSet, int(ligOffset), coverage[i])
				if err != nil {
					return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d: ligature", lookup.index), err)
				}
				rule.Lookup = lookup.index
				rules = append(rules, rule)
			}
		}
	}
	return rules, nil
}

// Ligature table: ligatureGlyph u16, componentCount u16, componentGlyphIDs[componentCount-1]
func parseLigature(ligSet binarySegm, off int, first GlyphIndex) (LigatureRule, error) {
	rule := LigatureRule{}
	b, err := ligSet.from(off)
	if err != nil {
		return rule, err
	}
	lig, err := b.u16(0)
	if err != nil {
		return rule, err
	}
	count, err := b.u16(2)
	if err != nil {
		return rule, err
	}
	if count == 0 {
		return rule, fmt.Errorf("ligature with zero components")
	}
	components, err := b.values16(4, int(count)-1)
	if err != nil {
		return rule, err
	}
	rule.Output = GlyphIndex(lig)
	rule.Input = make([]GlyphIndex, 0, count)
	rule.Input = append(rule.Input, first)
	for _, c := range components {
		rule.Input = append(rule.Input, GlyphIndex(c))
	}
	return rule, nil
}

// --- Context substitution --------------------------------------------------

// contextRules decodes the rules of a context substitution lookup (type 5).
// The input classes or glyphs of a rule are not interpreted: the glyphs a
// position may match are those covered by the single substitution its
// SequenceLookupRecord references.
func (p *gsubParser) contextRules(lookup gsubLookup) ([]SubstitutionRule, error) {
	var rules []SubstitutionRule
	for j, sub := range lookup.subtables {
		records, err := parseContextSubtable(sub)
		if err != nil {
			return nil, errMalformed(TagGSUB, fmt.Sprintf("lookup %d subtable %d: context format %d",
				lookup.index, j, sub.U16(0)), err)
		}
		for _, recs := range records {
			rule, ok := p.contextualRule(lookup.index, recs)
			if ok {
				rules = append(rules, rule)
			}
		}
	}
	return rules, nil
}

// parseContextSubtable returns the sequence lookup records of every rule in
// a context substitution subtable, for formats 1, 2 and 3.
func parseContextSubtable(sub binarySegm) ([][]SequenceLookupRecord, error) {
	switch format := sub.U16(0); format {
	case 1, 2:
		// Format 1: coverage@2, seqRuleSetCount@4, offsets@6
		// Format 2: coverage@2, classDef@4, classSeqRuleSetCount@6, offsets@8
		at := 4
		if format == 2 {
			if _, err := sub.link16(4); err != nil {
				return nil, err
			}
			at = 6
		}
		ruleSetOffsets, err := sub.array16(at)
		if err != nil {
			return nil, err
		}
		var all [][]SequenceLookupRecord
		for _, setOffset := range ruleSetOffsets {
			if setOffset == 0 {
				continue // no rules start with glyphs of this coverage index or class
			}
			ruleSet, err := sub.from(int(setOffset))
			if err != nil {
				return nil, err
			}
			ruleOffsets, err := ruleSet.array16(0)
			if err != nil {
				return nil, err
			}
			for _, ruleOffset := range ruleOffsets {
				rule, err := ruleSet.from(int(ruleOffset))
				if err != nil {
					return nil, err
				}
				// glyphCount u16, seqLookupCount u16, input[glyphCount-1] u16, records
				glyphCount, seqLookupCount := int(rule.U16(0)), int(rule.U16(2))
				if glyphCount == 0 {
					return nil, fmt.Errorf("context rule with zero glyphs")
				}
				records, err := parseSequenceLookupRecords(rule, 4+(glyphCount-1)*2, seqLookupCount)
				if err != nil {
					return nil, err
				}
				all = append(all, records)
			}
		}
		return all, nil
	case 3:
		// glyphCount@2, seqLookupCount@4, coverageOffsets[glyphCount]@6, records
		glyphCount, err := sub.u16(2)
		if err != nil {
			return nil, err
		}
		seqLookupCount, err := sub.u16(4)
		if err != nil {
			return nil, err
		}
		records, err := parseSequenceLookupRecords(sub, 6+int(glyphCount)*2, int(seqLookupCount))
		if err != nil {
			return nil, err
		}
		return [][]SequenceLookupRecord{records}, nil
	default:
		return nil, fmt.Errorf("unknown context substitution format %d", format)
	}
}

func parseSequenceLookupRecords(b binarySegm, at, count int) ([]SequenceLookupRecord, error) {
	buf, err := b.view(at, count*4)
	if err != nil {
		return nil, err
	}
	records := make([]SequenceLookupRecord, count)
	for i := range records {
		records[i] = SequenceLookupRecord{
			SequenceIndex:   u16(buf[i*4:]),
			LookupListIndex: u16(buf[i*4+2:]),
		}
	}
	return records, nil
}

// contextualRule assembles the per-position candidate lists for one rule.
// A rule has as many positions as it has sequence lookup records, and every
// position must be targeted by exactly one record.
func (p *gsubParser) contextualRule(lookupIndex int, records []SequenceLookupRecord) (ContextualRule, bool) {
	rule := ContextualRule{Lookup: lookupIndex}
	if len(records) == 0 {
		return rule, false
	}
	rule.Positions = make([][]Candidate, len(records))
	for _, rec := range records {
		inx := int(rec.SequenceIndex)
		if inx >= len(records) || rule.Positions[inx] != nil {
			p.warn("lookup %d: context rule with sequence index %d does not cover positions 0..%d",
				lookupIndex, inx, len(records)-1)
			return rule, false
		}
		candidates, ok := p.singleSubstitutions(int(rec.LookupListIndex))
		if !ok {
			p.warn("lookup %d: context rule references lookup %d, which is not a single substitution",
				lookupIndex, rec.LookupListIndex)
			return rule, false
		}
		rule.Positions[inx] = candidates
	}
	return rule, true
}

// singleSubstitutions returns the mapping of a single substitution lookup
// (type 1) as a candidate list, in coverage order of its subtables.
func (p *gsubParser) singleSubstitutions(index int) ([]Candidate, bool) {
	if c, ok := p.singles[index]; ok {
		return c, c != nil
	}
	p.singles[index] = nil
	if index >= len(p.lookups) || p.lookups[index].typ != GSubLookupTypeSingle {
		return nil, false
	}
	candidates := make([]Candidate, 0)
	for j, sub := range p.lookups[index].subtables {
		coverage, err := parseCoverageAt(sub, 2)
		if err != nil {
			p.fail("LookupType1", "lookup %d subtable %d: %v", index, j, err)
			return nil, false
		}
		switch sub.U16(0) {
		case 1: // deltaGlyphID int16 @4, addition modulo 65536
			delta := sub.U16(4)
			for _, g := range coverage {
				candidates = append(candidates, makeCandidate(g, GlyphIndex(uint16(g)+delta)))
			}
		case 2: // glyphCount @4, substituteGlyphIDs @6
			substitutes, err := sub.array16(4)
			if err != nil || len(substitutes) != len(coverage) {
				p.fail("LookupType1", "lookup %d subtable %d: substitutes do not match coverage", index, j)
				return nil, false
			}
			for i, g := range coverage {
				candidates = append(candidates, makeCandidate(g, GlyphIndex(substitutes[i])))
			}
		default:
			p.fail("LookupType1", "lookup %d subtable %d: unknown single substitution format %d", index, j, sub.U16(0))
			return nil, false
		}
	}
	p.singles[index] = candidates
	return candidates, true
}

// makeCandidate creates the candidate for one entry of a single substitution.
// Every entry has an output, even if it substitutes a glyph by itself.
func makeCandidate(in, out GlyphIndex) Candidate {
	return Candidate{Input: in, Output: Some(out)}
}

// --- Coverage --------------------------------------------------------------

// parseCoverageAt follows a 16-bit offset to a coverage table.
func parseCoverageAt(b binarySegm, at int) ([]GlyphIndex, error) {
	cov, err := b.link16(at)
	if err != nil {
		return nil, err
	}
	if cov == nil {
		return nil, fmt.Errorf("NULL coverage offset")
	}
	return parseCoverage(cov)
}

// Read a coverage table, which comes in two formats (1 and 2).
// A Coverage table defines a unique index value, the Coverage Index, for each
// covered glyph. The glyphs are returned in coverage index order.
func parseCoverage(b binarySegm) ([]GlyphIndex, error) {
	format, err := b.u16(0)
	if err != nil {
		return nil, err
	}
	switch format {
	case 1: // glyphCount, glyphArray[glyphCount]
		glyphs, err := b.array16(2)
		if err != nil {
			return nil, err
		}
		r := make([]GlyphIndex, len(glyphs))
		for i, g := range glyphs {
			r[i] = GlyphIndex(g)
		}
		return r, nil
	case 2: // rangeCount, rangeRecords[rangeCount] of (start, end, startCoverageIndex)
		n, err := b.u16(2)
		if err != nil {
			return nil, err
		}
		records, err := b.values16(4, int(n)*3)
		if err != nil {
			return nil, err
		}
		var r []GlyphIndex
		for i := 0; i < int(n); i++ {
			start, end := records[i*3], records[i*3+1]
			if end < start {
				return nil, fmt.Errorf("coverage range %d..%d", start, end)
			}
			if len(r)+int(end-start)+1 > MaxGlyphCount {
				return nil, fmt.Errorf("coverage exceeds %d glyphs", MaxGlyphCount)
			}
			for g := int(start); g <= int(end); g++ {
				r = append(r, GlyphIndex(g))
			}
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown coverage format %d", format)
}
