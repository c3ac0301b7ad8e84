package otquery

import (
	"encoding/binary"
	"time"

	"github.com/npillmayer/emojicompat/ot"
)

// HeadTableInfo is a view of the parts of table 'head' a build must keep.
type HeadTableInfo struct {
	FontRevision uint32 // 16.16 fixed point
	MagicNumber  uint32
	UnitsPerEm   uint16
	Created      int64 // seconds since 1904-01-01
	Modified     int64 // seconds since 1904-01-01
}

const headTableSize = 54

// epoch1904 is the start of OpenType's LONGDATETIME.
var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// HeadInfo decodes table 'head'. It returns false if the table is missing
// or too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	b := otf.Table(ot.TagHead)
	if len(b) < headTableSize {
		return info, false
	}
	info.FontRevision = binary.BigEndian.Uint32(b[4:8])
	info.MagicNumber = binary.BigEndian.Uint32(b[12:16])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.Created = int64(binary.BigEndian.Uint64(b[20:28]))
	info.Modified = int64(binary.BigEndian.Uint64(b[28:36]))
	return info, true
}

// ModifiedTime returns the modification timestamp as time.Time.
func (h HeadTableInfo) ModifiedTime() time.Time {
	return epoch1904.Add(time.Duration(h.Modified) * time.Second)
}

// Revision returns the font revision as a decimal number, e.g. 2.034.
func (h HeadTableInfo) Revision() float64 {
	return float64(h.FontRevision) / 65536
}
