package emojidata

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/npillmayer/uax/emoji"
	"golang.org/x/text/unicode/rangetable"
)

// Sequence is an ordered list of codepoints forming one emoji.
type Sequence []uint32

// String returns the canonical key of a sequence: uppercase hexadecimal
// codepoints without prefix, separated by a single space.
func (s Sequence) String() string {
	var b strings.Builder
	for i, cp := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%X", cp)
	}
	return b.String()
}

// Fact is what the data files tell about a codepoint or sequence.
type Fact struct {
	Codepoints Sequence
	EmojiStyle bool // renders with emoji presentation by default
}

// Store holds the facts of a data directory.
type Store struct {
	facts        map[string]*Fact
	overrides    []uint32 // codepoints with emoji style forced by additions
	declared     []uint32 // codepoints with property Emoji or Emoji_Presentation
	presentation *unicode.RangeTable
}

// Load reads the emoji data files of a directory.
//
// Facts for single codepoints are taken from emoji-data.txt; a codepoint is
// emoji-style if its property is Emoji_Presentation or if it is listed as a
// style override. As codepoints are listed more than once, an existing fact
// is only ever upgraded to emoji-style, never downgraded.
// Sequences are read from the zwj and sequences files (plus the optional
// additions). Variation selector 16 is removed from sequences, and new
// sequence facts are of text style.
func Load(dir string) (*Store, error) {
	store := &Store{facts: make(map[string]*Fact)}
	overrides, err := readOverrides(dir)
	if err != nil {
		return nil, err
	}
	store.overrides = overrides
	if err := store.readIntervals(path(dir, DataFile)); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name     string
		optional bool
	}{
		{ZWJSequencesFile, false},
		{SequencesFile, false},
		{AdditionalZWJFile, true},
		{AdditionalSequencesFile, true},
	} {
		if err := store.readSequences(path(dir, f.name), f.optional); err != nil {
			return nil, err
		}
	}
	var runes []rune
	for _, fact := range store.facts {
		if len(fact.Codepoints) == 1 && fact.EmojiStyle {
			runes = append(runes, rune(fact.Codepoints[0]))
		}
	}
	store.presentation = rangetable.New(runes...)
	tracer().Infof("emoji data: %d facts, %d with emoji presentation, %d style overrides",
		len(store.facts), len(runes), len(overrides))
	return store, nil
}

func path(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(name))
}

// readOverrides reads the codepoints of the style override file.
func readOverrides(dir string) ([]uint32, error) {
	lines, err := ReadLines(path(dir, StyleOverridesFile), false)
	if err != nil {
		return nil, err
	}
	var overrides []uint32
	for _, line := range lines {
		cps, _, err := line.Property()
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, cps...)
	}
	return overrides, nil
}

func (store *Store) readIntervals(file string) error {
	lines, err := ReadLines(file, false)
	if err != nil {
		return err
	}
	isOverride := make(map[uint32]bool, len(store.overrides))
	for _, cp := range store.overrides {
		isOverride[cp] = true
	}
	for _, line := range lines {
		cps, prop, err := line.Property()
		if err != nil {
			return err
		}
		if prop != PropEmoji && prop != PropEmojiPresentation {
			continue
		}
		for _, cp := range cps {
			style := prop == PropEmojiPresentation || isOverride[cp]
			key := Sequence{cp}.String()
			if fact, ok := store.facts[key]; ok {
				fact.EmojiStyle = fact.EmojiStyle || style
				continue
			}
			store.facts[key] = &Fact{Codepoints: Sequence{cp}, EmojiStyle: style}
			store.declared = append(store.declared, cp)
		}
	}
	return nil
}

func (store *Store) readSequences(file string, optional bool) error {
	lines, err := ReadLines(file, optional)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.IsBasicEmoji() {
			continue
		}
		seq, err := line.Sequence()
		if err != nil {
			return err
		}
		seq = StripVariationSelectors(seq)
		if len(seq) == 0 {
			continue
		}
		key := seq.String()
		if _, ok := store.facts[key]; !ok {
			store.facts[key] = &Fact{Codepoints: seq}
		}
	}
	return nil
}

// StripVariationSelectors removes U+FE0F from a sequence.
func StripVariationSelectors(seq Sequence) Sequence {
	stripped := make(Sequence, 0, len(seq))
	for _, cp := range seq {
		if cp != VariationSelector16 {
			stripped = append(stripped, cp)
		}
	}
	return stripped
}

// Len returns the number of facts.
func (store *Store) Len() int {
	return len(store.facts)
}

// Facts returns all facts, ordered by canonical key.
func (store *Store) Facts() []Fact {
	keys := make([]string, 0, len(store.facts))
	for key := range store.facts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	facts := make([]Fact, len(keys))
	for i, key := range keys {
		facts[i] = *store.facts[key]
	}
	return facts
}

// Lookup returns the fact for a codepoint sequence.
func (store *Store) Lookup(cps Sequence) (Fact, bool) {
	fact, ok := store.facts[cps.String()]
	if !ok {
		return Fact{}, false
	}
	return *fact, true
}

// IsEmojiPresentation is true if r is an emoji which renders with emoji style
// by default.
func (store *Store) IsEmojiPresentation(r rune) bool {
	return store.presentation != nil && unicode.Is(store.presentation, r)
}

// StyleOverrides returns the codepoints with a forced emoji style.
func (store *Store) StyleOverrides() []uint32 {
	return append([]uint32(nil), store.overrides...)
}

// Lint returns the codepoints which the data files declare as emoji, but
// for which the Unicode emoji classes compiled into this program do not know
// any emoji class. This is usually a sign of emoji data newer than the
// program and is not an error.
func (store *Store) Lint() []uint32 {
	emoji.SetupEmojisClasses()
	var unknown []uint32
	for _, cp := range store.declared {
		if emoji.EmojisClassForRune(rune(cp)) < 0 {
			unknown = append(unknown, cp)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	if len(unknown) > 0 {
		tracer().Infof("%d emoji codepoints unknown to UCD emoji classes", len(unknown))
	}
	return unknown
}

// ParseSequence parses hexadecimal codepoints separated by spaces or commas.
// A "U+" prefix is accepted, e.g. "U+1F1E6,U+1F1E8".
func ParseSequence(s string) (Sequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty codepoint sequence")
	}
	seq := make(Sequence, len(fields))
	for i, f := range fields {
		f = strings.TrimPrefix(strings.ToUpper(f), "U+")
		cp, err := parseHex(f)
		if err != nil {
			return nil, err
		}
		seq[i] = cp
	}
	return seq, nil
}
