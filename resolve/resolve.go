/*
Package resolve turns the substitution rules of a color emoji font into
codepoint sequences.

A font maps single codepoints to glyphs with its cmap. Emoji sequences (flags,
keycaps, ZWJ sequences, skin tone variants) are implemented as GSUB
substitutions: a ligature rule replaces a glyph sequence by a single glyph, a
contextual rule may substitute at every position of a glyph sequence. Mapping
the input glyphs of a rule back to codepoints yields the codepoint sequence the
output glyph stands for.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package resolve

import (
	"fmt"

	"github.com/npillmayer/emojicompat/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.resolve'
func tracer() tracing.Trace {
	return tracing.Select("emoji.resolve")
}

// Pair is a codepoint sequence and the glyph which renders it.
type Pair struct {
	Codepoints []uint32
	Glyph      ot.GlyphIndex
}

func (p Pair) String() string {
	return fmt.Sprintf("%X -> %d", p.Codepoints, p.Glyph)
}

// UnresolvedGlyphError is returned for a rule which references a glyph without
// a known codepoint. Fonts contain such rules for ligatures unrelated to emoji,
// therefore this error is expected and clients skip the rule.
type UnresolvedGlyphError struct {
	Glyph ot.GlyphIndex
	Name  string
}

func (e *UnresolvedGlyphError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("glyph %d (%s) has no codepoint", e.Glyph, e.Name)
	}
	return fmt.Sprintf("glyph %d has no codepoint", e.Glyph)
}

// AmbiguousSubstitution reports a combination of a contextual rule which
// substitutes at more than one position. The output of the first substituting
// position is chosen.
type AmbiguousSubstitution struct {
	Lookup  int
	Input   []ot.GlyphIndex
	Outputs []ot.GlyphIndex
	Chosen  ot.GlyphIndex
}

func (a AmbiguousSubstitution) String() string {
	return fmt.Sprintf("lookup %d: multiple outputs %v for input %v, using %d",
		a.Lookup, a.Outputs, a.Input, a.Chosen)
}

// Resolver maps glyph sequences of substitution rules to codepoint sequences.
// A resolver is used for one font and collects diagnostics along the way.
type Resolver struct {
	codepoints  map[ot.GlyphIndex]uint32
	glyphName   func(ot.GlyphIndex) string
	diagnostics []AmbiguousSubstitution
}

// New creates a resolver from a glyph → codepoint map, usually the inverted
// cmap of a font (see ot.CodepointMap.GlyphToCodepoint).
func New(codepoints map[ot.GlyphIndex]uint32) *Resolver {
	return &Resolver{codepoints: codepoints}
}

// WithGlyphNames sets a function to name glyphs in messages.
func (r *Resolver) WithGlyphNames(name func(ot.GlyphIndex) string) *Resolver {
	r.glyphName = name
	return r
}

// Diagnostics returns the ambiguities found so far.
func (r *Resolver) Diagnostics() []AmbiguousSubstitution {
	return r.diagnostics
}

func (r *Resolver) codepoint(g ot.GlyphIndex) (uint32, error) {
	cp, ok := r.codepoints[g]
	if !ok {
		err := &UnresolvedGlyphError{Glyph: g}
		if r.glyphName != nil {
			err.Name = r.glyphName(g)
		}
		return 0, err
	}
	return cp, nil
}

// Ligature resolves a ligature rule glyph by glyph.
func (r *Resolver) Ligature(rule ot.LigatureRule) (Pair, error) {
	cps := make([]uint32, len(rule.Input))
	for i, g := range rule.Input {
		cp, err := r.codepoint(g)
		if err != nil {
			return Pair{}, err
		}
		cps[i] = cp
	}
	return Pair{Codepoints: cps, Glyph: rule.Output}, nil
}

// Combination resolves one combination of a contextual rule's candidates,
// i.e. one element of the product of its positions. If no position
// substitutes, the combination is a non-substituting match and false is
// returned. If more than one position substitutes, the output of the first
// one is used and an AmbiguousSubstitution is recorded.
func (r *Resolver) Combination(rule ot.ContextualRule, combo []ot.Candidate) (Pair, bool, error) {
	cps := make([]uint32, len(combo))
	var outputs []ot.GlyphIndex
	for i, c := range combo {
		cp, err := r.codepoint(c.Input)
		if err != nil {
			return Pair{}, false, err
		}
		cps[i] = cp
		if out, ok := c.Output.Unwrap(); ok {
			outputs = append(outputs, out)
		}
	}
	if len(outputs) == 0 {
		return Pair{}, false, nil
	}
	if len(outputs) > 1 {
		input := make([]ot.GlyphIndex, len(combo))
		for i, c := range combo {
			input[i] = c.Input
		}
		amb := AmbiguousSubstitution{
			Lookup:  rule.Lookup,
			Input:   input,
			Outputs: outputs,
			Chosen:  outputs[0],
		}
		tracer().Infof("ambiguous substitution: %s", amb)
		r.diagnostics = append(r.diagnostics, amb)
	}
	return Pair{Codepoints: cps, Glyph: outputs[0]}, true, nil
}

// Resolve resolves all contextual rules, then all ligature rules.
// Rules and combinations referencing unknown glyphs are skipped.
func (r *Resolver) Resolve(rules []ot.SubstitutionRule) []Pair {
	var pairs []Pair
	skipped := 0
	for _, rule := range rules {
		ctx, ok := rule.(ot.ContextualRule)
		if !ok {
			continue
		}
		for combo := range NewProduct(ctx.Positions).All() {
			pair, ok, err := r.Combination(ctx, combo)
			if err != nil {
				tracer().Debugf("lookup %d: skipping combination: %v", ctx.Lookup, err)
				skipped++
				continue
			}
			if ok {
				pairs = append(pairs, pair)
			}
		}
	}
	for _, rule := range rules {
		lig, ok := rule.(ot.LigatureRule)
		if !ok {
			continue
		}
		pair, err := r.Ligature(lig)
		if err != nil {
			tracer().Debugf("lookup %d: skipping ligature %v: %v", lig.Lookup, lig.Input, err)
			skipped++
			continue
		}
		pairs = append(pairs, pair)
	}
	tracer().Infof("resolved %d substitutions, skipped %d with unknown glyphs", len(pairs), skipped)
	return pairs
}
