package otquery

import (
	"encoding/binary"

	"github.com/npillmayer/emojicompat/ot"
)

// BitmapTableInfo tells about the color bitmap tables of a font.
type BitmapTableInfo struct {
	CBDTVersion uint32 // 16.16 fixed point; 0 if missing
	CBLCVersion uint32
	Strikes     int // number of bitmap sizes in CBLC
}

// BitmapInfo decodes the headers of tables 'CBDT' and 'CBLC'. It returns
// false if the font has no color bitmaps.
func BitmapInfo(otf *ot.Font) (BitmapTableInfo, bool) {
	var info BitmapTableInfo
	if otf == nil {
		return info, false
	}
	cbdt, cblc := otf.Table(ot.TagCBDT), otf.Table(ot.TagCBLC)
	if len(cbdt) < 4 || len(cblc) < 8 {
		return info, false
	}
	info.CBDTVersion = binary.BigEndian.Uint32(cbdt)
	info.CBLCVersion = binary.BigEndian.Uint32(cblc)
	info.Strikes = int(binary.BigEndian.Uint32(cblc[4:8]))
	return info, true
}
