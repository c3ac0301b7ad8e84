package emojidata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFiles = map[string]string{
	DataFile: `# emoji-data.txt
# Emoji
0023          ; Emoji                # E0.0   [1] (#️)       hash sign
1F600         ; Emoji                # E1.0   [1] (😀)       grinning face
1F1E6..1F1E8  ; Emoji                # E0.0   [3] (🇦..🇨)    regional indicator symbol letter a..c
263A          ; Emoji                # E0.6   [1] (☺️)       smiling face
# Emoji_Presentation
1F600         ; Emoji_Presentation   # E1.0   [1] (😀)       grinning face
# Extended_Pictographic
1F000         ; Extended_Pictographic# E0.0   [1] (🀀)       MAHJONG TILE EAST WIND
`,
	ZWJSequencesFile: `# emoji-zwj-sequences.txt
1F468 200D 1F469 ; RGI_Emoji_ZWJ_Sequence ; couple # E2.0
`,
	SequencesFile: `# emoji-sequences.txt
231A..231B    ; Basic_Emoji                  ; watch..hourglass done # E0.6 [2]
1F1E6 1F1E8   ; RGI_Emoji_Flag_Sequence      ; flag: Ascension Island # E2.0
0023 FE0F 20E3; Emoji_Keycap_Sequence        ; keycap: # # E0.6
`,
	VariationSequencesFile: `0023 FE0E  ; text style;  # (1.1) NUMBER SIGN
0023 FE0F  ; emoji style; # (1.1) NUMBER SIGN
`,
	StyleOverridesFile: `# codepoints with emoji presentation by default
263A ; Emoji_Presentation # smiling face
`,
}

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestLoadFacts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	store, err := Load(writeDataDir(t, testFiles))
	require.NoError(t, err)
	fact, ok := store.Lookup(Sequence{0x1F600})
	require.True(t, ok)
	assert.True(t, fact.EmojiStyle, "Emoji_Presentation upgrades an existing fact")
	fact, ok = store.Lookup(Sequence{0x23})
	require.True(t, ok)
	assert.False(t, fact.EmojiStyle)
	fact, ok = store.Lookup(Sequence{0x263A})
	require.True(t, ok)
	assert.True(t, fact.EmojiStyle, "style override")
	_, ok = store.Lookup(Sequence{0x1F000})
	assert.False(t, ok, "Extended_Pictographic is not an accepted property")
	//
	fact, ok = store.Lookup(Sequence{0x1F1E6, 0x1F1E8})
	require.True(t, ok)
	assert.False(t, fact.EmojiStyle)
	_, ok = store.Lookup(Sequence{0x23, 0x20E3})
	assert.True(t, ok, "variation selector should be stripped from sequences")
	_, ok = store.Lookup(Sequence{0x231A})
	assert.False(t, ok, "Basic_Emoji lines are skipped")
	_, ok = store.Lookup(Sequence{0x1F468, 0x200D, 0x1F469})
	assert.True(t, ok)
	assert.Equal(t, 9, store.Len())
	assert.True(t, store.IsEmojiPresentation(0x1F600))
	assert.True(t, store.IsEmojiPresentation(0x263A))
	assert.False(t, store.IsEmojiPresentation(0x1F1E6))
	assert.Equal(t, []uint32{0x263A}, store.StyleOverrides())
}

func TestFactsOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	store, err := Load(writeDataDir(t, testFiles))
	require.NoError(t, err)
	facts := store.Facts()
	require.Len(t, facts, store.Len())
	for i := 1; i < len(facts); i++ {
		assert.Less(t, facts[i-1].Codepoints.String(), facts[i].Codepoints.String())
	}
}

func TestOptionalAdditions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	files := map[string]string{}
	for k, v := range testFiles {
		files[k] = v
	}
	files[AdditionalZWJFile] = "1F469 200D 2764 FE0F 200D 1F468 ; RGI_Emoji_ZWJ_Sequence ; couple with heart\n"
	store, err := Load(writeDataDir(t, files))
	require.NoError(t, err)
	_, ok := store.Lookup(Sequence{0x1F469, 0x200D, 0x2764, 0x200D, 0x1F468})
	assert.True(t, ok)
}

func TestMissingRequiredFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	files := map[string]string{}
	for k, v := range testFiles {
		if k != ZWJSequencesFile {
			files[k] = v
		}
	}
	_, err := Load(writeDataDir(t, files))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMalformedLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	files := map[string]string{}
	for k, v := range testFiles {
		files[k] = v
	}
	files[DataFile] = "# header\n\n1F600 ; Emoji\n"
	_, err := Load(writeDataDir(t, files))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestLineParsing(t *testing.T) {
	l := Line{Text: "1F3C3 200D 2640 FE0F ; RGI_EMOJI_ZWJ_SEQUENCE ; WOMAN RUNNING # E4.0"}
	seq, err := l.Sequence()
	require.NoError(t, err)
	assert.Equal(t, "1F3C3 200D 2640 FE0F", seq.String())
	assert.Equal(t, "1F3C3 200D 2640", StripVariationSelectors(seq).String())
	//
	l = Line{Text: "1F93C..1F93E ; EMOJI_PRESENTATION # E3.0 [3]"}
	cps, prop, err := l.Property()
	require.NoError(t, err)
	assert.Equal(t, PropEmojiPresentation, prop)
	assert.Equal(t, []uint32{0x1F93C, 0x1F93D, 0x1F93E}, cps)
	//
	_, _, err = Line{Text: "1F93E..1F93C ; EMOJI # bad"}.Property()
	assert.Error(t, err)
	_, err = Line{Text: "XYZ ; EMOJI"}.Sequence()
	assert.Error(t, err)
}

func TestLint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	files := map[string]string{}
	for k, v := range testFiles {
		files[k] = v
	}
	// U+0041 is no emoji in any Unicode version
	files[DataFile] += "0041 ; Emoji # not really\n"
	store, err := Load(writeDataDir(t, files))
	require.NoError(t, err)
	unknown := store.Lint()
	assert.Contains(t, unknown, uint32(0x41))
	assert.NotContains(t, unknown, uint32(0x1F600))
}

func TestParseSequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.data")
	defer teardown()
	//
	seq, err := ParseSequence("U+1F1E6,u+1f1e8")
	require.NoError(t, err)
	assert.Equal(t, Sequence{0x1F1E6, 0x1F1E8}, seq)
	seq, err = ParseSequence(" 1F468 200D  1F469 ")
	require.NoError(t, err)
	assert.Equal(t, "1F468 200D 1F469", seq.String())
	_, err = ParseSequence("")
	assert.Error(t, err)
	_, err = ParseSequence("110000")
	assert.Error(t, err)
}
