package emojicompat

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/emojicompat/emojidata"
)

// emojiStyleMarker marks the emoji style lines of emoji-variation-sequences.txt.
const emojiStyleMarker = "EMOJI STYLE"

// TestData lists every emoji sequence of a data directory, for tests of
// renderers. Sequences are uppercase hex codepoints separated by a space,
// sorted and without duplicates. Different from the emoji records of a
// build, variation selectors are kept.
//
// The list contains
//
//   - the sequences of the zwj and sequences files (and their additions),
//     except Basic_Emoji,
//   - the emoji style variation sequences,
//   - every codepoint with property Emoji_Presentation,
//   - every style override codepoint.
func TestData(unicodeDir string) ([]string, error) {
	set := treeset.NewWithStringComparator()
	for _, f := range []struct {
		name     string
		optional bool
	}{
		{emojidata.ZWJSequencesFile, false},
		{emojidata.SequencesFile, false},
		{emojidata.AdditionalZWJFile, true},
		{emojidata.AdditionalSequencesFile, true},
		{emojidata.VariationSequencesFile, false},
	} {
		lines, err := emojidata.ReadLines(dataPath(unicodeDir, f.name), f.optional)
		if err != nil {
			return nil, err
		}
		isVariations := f.name == emojidata.VariationSequencesFile
		for _, line := range lines {
			if line.IsBasicEmoji() || (isVariations && !strings.Contains(line.Text, emojiStyleMarker)) {
				continue
			}
			seq, err := line.Sequence()
			if err != nil {
				return nil, err
			}
			set.Add(seq.String())
		}
	}
	for _, f := range []struct {
		name string
		all  bool
	}{
		{emojidata.DataFile, false},
		{emojidata.StyleOverridesFile, true},
	} {
		lines, err := emojidata.ReadLines(dataPath(unicodeDir, f.name), false)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			cps, prop, err := line.Property()
			if err != nil {
				return nil, err
			}
			if !f.all && prop != emojidata.PropEmojiPresentation {
				continue
			}
			for _, cp := range cps {
				set.Add(emojidata.Sequence{cp}.String())
			}
		}
	}
	list := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		list = append(list, v.(string))
	}
	tracer().Debugf("test data: %d sequences", len(list))
	return list, nil
}

// WriteTestData writes a test data list, one sequence per line.
func WriteTestData(path string, list []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, seq := range list {
		w.WriteString(seq)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func dataPath(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(name))
}
