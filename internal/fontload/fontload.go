package fontload

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a font file's bytes together with an SFNT view, if the
// font could be parsed by x/image. Bitmap-only color fonts sometimes cannot.
type ScalableFont struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font from a file. The SFNT view is
// optional: if x/image fails to parse the font, SFNT is nil and no error is
// returned, as long as the file could be read.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f := &ScalableFont{Binary: bytez}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		f.SFNT = nil
		return f, nil
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, nil
}

// GlyphNames resolves glyph indices to names from the 'post' table.
// A nil *GlyphNames is valid and yields generated names.
type GlyphNames struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

// LoadGlyphNames prepares name lookup for a font binary.
// It never fails; fonts x/image cannot parse get generated names.
func LoadGlyphNames(fbytes []byte) *GlyphNames {
	f, err := sfnt.Parse(fbytes)
	if err != nil {
		return &GlyphNames{}
	}
	return &GlyphNames{font: f}
}

// Name returns the glyph name of gid, or "glyphNNNNN" if the font does not
// carry a name for it.
func (gn *GlyphNames) Name(gid uint16) string {
	if gn != nil && gn.font != nil {
		if name, err := gn.font.GlyphName(&gn.buf, sfnt.GlyphIndex(gid)); err == nil && name != "" {
			return name
		}
	}
	return fmt.Sprintf("glyph%05d", gid)
}
