package fontload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOpenTypeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testfont.Build(testfont.Spec{
		Cmap:    map[uint32]uint16{0x1F600: 1},
		Bitmaps: map[uint16][2]int{1: {136, 128}},
	})
	path := filepath.Join(t.TempDir(), "emoji.ttf")
	require.NoError(t, os.WriteFile(path, font, 0o644))
	f, err := LoadOpenTypeFont(path)
	require.NoError(t, err, "bitmap fonts load even if x/image rejects them")
	assert.Equal(t, font, f.Binary)
	//
	_, err = LoadOpenTypeFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.True(t, os.IsNotExist(err))
}

func TestGeneratedGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var none *GlyphNames
	assert.Equal(t, "glyph00007", none.Name(7))
	gn := LoadGlyphNames([]byte("no font"))
	assert.Equal(t, "glyph00042", gn.Name(42))
}
