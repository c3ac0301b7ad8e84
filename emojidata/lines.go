package emojidata

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Names of the data files, relative to the data directory.
const (
	DataFile                = "emoji-data.txt"
	ZWJSequencesFile        = "emoji-zwj-sequences.txt"
	SequencesFile           = "emoji-sequences.txt"
	VariationSequencesFile  = "emoji-variation-sequences.txt"
	StyleOverridesFile      = "additions/emoji-data.txt"
	AdditionalZWJFile       = "additions/emoji-zwj-sequences.txt"
	AdditionalSequencesFile = "additions/emoji-sequences.txt"
)

// RequiredFiles lists the data files which have to be present in a data
// directory to load the emoji records. VariationSequencesFile is needed for
// test data only.
func RequiredFiles() []string {
	return []string{
		DataFile,
		ZWJSequencesFile,
		SequencesFile,
		StyleOverridesFile,
	}
}

// Property values of emoji-data.txt we are interested in.
const (
	PropEmoji             = "EMOJI"
	PropEmojiPresentation = "EMOJI_PRESENTATION"
)

// Sequences of type Basic_Emoji in emoji-sequences.txt are skipped; emoji
// presentation of single codepoints is taken from emoji-data.txt.
const basicEmoji = "BASIC_EMOJI"

// VariationSelector16 requests emoji presentation for the preceding character.
const VariationSelector16 = 0xFE0F

// Line is a data line of an emoji data file. Text is uppercased and trimmed.
type Line struct {
	File string
	No   int
	Text string
}

// ParseError reports a malformed data line.
type ParseError struct {
	File  string
	Line  int
	Issue string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Issue)
}

func (l Line) errorf(format string, args ...any) error {
	return &ParseError{File: l.File, Line: l.No, Issue: fmt.Sprintf(format, args...)}
}

// ReadLines reads all data lines of a file, i.e. all lines which are neither
// blank nor comments. If optional is set, a missing file yields no lines and
// no error.
func ReadLines(path string, optional bool) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			tracer().Debugf("optional file %s not present", filepath.Base(path))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	var lines []Line
	scanner := bufio.NewScanner(f)
	no := 0
	for scanner.Scan() {
		no++
		text := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{File: path, No: no, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// IsBasicEmoji is true for lines of type Basic_Emoji.
func (l Line) IsBasicEmoji() bool {
	return strings.Contains(l.Text, basicEmoji)
}

// Sequence parses the first field of a sequence line, e.g.
//
//	1F1E6 1F1E8 ; RGI_EMOJI_FLAG_SEQUENCE ; flag: Ascension Island # E2.0
func (l Line) Sequence() (Sequence, error) {
	field, _, _ := strings.Cut(l.Text, ";")
	hex := strings.Fields(field)
	if len(hex) == 0 {
		return nil, l.errorf("empty codepoint sequence")
	}
	seq := make(Sequence, len(hex))
	for i, h := range hex {
		cp, err := parseHex(h)
		if err != nil {
			return nil, l.errorf("%v", err)
		}
		seq[i] = cp
	}
	return seq, nil
}

// Property parses a line of the form
//
//	1F93C..1F93E ; Emoji_Presentation # E3.0 [3] (🤼..🤾) people wrestling..handball
//
// and returns the expanded codepoint range and the property name.
// Lines without a comment are rejected.
func (l Line) Property() ([]uint32, string, error) {
	data, _, ok := strings.Cut(l.Text, "#")
	if !ok {
		return nil, "", l.errorf("expected '#' in data line")
	}
	field, prop, ok := strings.Cut(data, ";")
	if !ok {
		return nil, "", l.errorf("expected ';' in data line")
	}
	if i := strings.IndexByte(prop, ';'); i >= 0 {
		prop = prop[:i]
	}
	cps, err := parseRange(strings.TrimSpace(field))
	if err != nil {
		return nil, "", l.errorf("%v", err)
	}
	return cps, strings.TrimSpace(prop), nil
}

// parseRange expands "A..B" or a single codepoint "A".
func parseRange(field string) ([]uint32, error) {
	from, to, isRange := strings.Cut(field, "..")
	start, err := parseHex(from)
	if err != nil {
		return nil, err
	}
	if !isRange {
		return []uint32{start}, nil
	}
	end, err := parseHex(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("invalid range %s", field)
	}
	cps := make([]uint32, 0, end-start+1)
	for cp := start; cp <= end; cp++ {
		cps = append(cps, cp)
	}
	return cps, nil
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	cp, err := strconv.ParseUint(s, 16, 32)
	if err != nil || cp > 0x10FFFF {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	return uint32(cp), nil
}
