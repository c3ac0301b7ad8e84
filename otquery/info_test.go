package otquery

import (
	"testing"
	"time"

	"github.com/npillmayer/emojicompat/internal/testfont"
	"github.com/npillmayer/emojicompat/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	font := testfont.Build(testfont.Spec{
		Cmap:    map[uint32]uint16{0x1F600: 1},
		Bitmaps: map[uint16][2]int{1: {136, 128}},
		Names: map[uint16]string{
			uint16(sfnt.NameIDFamily):    "Noto Color Emoji",
			uint16(sfnt.NameIDSubfamily): "Regular",
			uint16(sfnt.NameIDVersion):   "Version 2.034",
		},
	})
	otf, err := ot.Parse(font)
	env.Require().NoError(err)
	env.otf = otf
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestNameInfo() {
	info := NameInfo(env.otf)
	env.Equal(map[string]string{
		"family":    "Noto Color Emoji",
		"subfamily": "Regular",
		"version":   "Version 2.034",
	}, info)
}

func (env *InfoTestEnviron) TestNamesRangeStops() {
	n := 0
	for range NamesRange(env.otf) {
		n++
		break
	}
	env.Equal(1, n)
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.Equal(uint16(2048), h.UnitsPerEm)
	env.Equal(int64(testfont.Modified), h.Modified)
	env.Equal(1.0, h.Revision())
	env.Equal(time.Date(2022, time.May, 20, 21, 55, 59, 0, time.UTC), h.ModifiedTime())
}

func (env *InfoTestEnviron) TestBitmapInfo() {
	b, ok := BitmapInfo(env.otf)
	env.Require().True(ok)
	env.Equal(1, b.Strikes)
	env.Equal(uint32(0x00030000), b.CBLCVersion)
	env.NotZero(b.CBDTVersion)
}

func (env *InfoTestEnviron) TestMissingTables() {
	otf, err := ot.Parse(testfont.Build(testfont.Spec{
		Cmap:      map[uint32]uint16{0x1F600: 1},
		NoBitmaps: true,
	}))
	env.Require().NoError(err)
	env.Empty(NameInfo(otf))
	_, ok := BitmapInfo(otf)
	env.False(ok)
	_, ok = HeadInfo(nil)
	env.False(ok)
}
