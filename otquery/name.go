package otquery

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/npillmayer/emojicompat/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// nameKey identifies a NameRecord entry in OpenType table 'name'.
type nameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16 // not supported
	Name     sfnt.NameID
}

type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1 // not supported
	PlatformIDWindows   PlatformID = 3
)

type EncodingID uint16

const (
	EncodingIDUnicodeBMP    EncodingID = 3
	EncodingIDWindowsSymbol EncodingID = 0 // not supported
	EncodingIDWindowsBMP    EncodingID = 1
)

// NamesRange yields decoded (nameID, value) pairs from a font's 'name' table.
//
// Only Unicode BMP and Windows BMP entries are yielded, and malformed or
// out-of-bounds records are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	names := checkNameTableSafe(otf)
	return func(yield func(sfnt.NameID, string) bool) {
		if names == nil {
			return
		}
		count := int(binary.BigEndian.Uint16(names[2:4]))
		storage := int(binary.BigEndian.Uint16(names[4:6]))
		for i := range count {
			rec := names[nameHeaderSize+i*nameRecordSize : nameHeaderSize+(i+1)*nameRecordSize]
			key := nameKey{
				Platform: PlatformID(binary.BigEndian.Uint16(rec[0:2])),
				Encoding: EncodingID(binary.BigEndian.Uint16(rec[2:4])),
				Language: binary.BigEndian.Uint16(rec[4:6]),
				Name:     sfnt.NameID(binary.BigEndian.Uint16(rec[6:8])),
			}
			if !isSupportedNameEncoding(key) {
				continue
			}
			start := storage + int(binary.BigEndian.Uint16(rec[10:12]))
			end := start + int(binary.BigEndian.Uint16(rec[8:10]))
			if end > len(names) {
				continue
			}
			value, err := decodeNameUTF16(names[start:end])
			if err != nil || value == "" {
				continue
			}
			if !yield(key.Name, value) {
				return
			}
		}
	}
}

// NameInfo returns the family, subfamily and version names of a font, keyed
// by "family", "subfamily" and "version". Keys without a value are missing.
func NameInfo(otf *ot.Font) map[string]string {
	keys := map[sfnt.NameID]string{
		sfnt.NameIDFamily:    "family",
		sfnt.NameIDSubfamily: "subfamily",
		sfnt.NameIDVersion:   "version",
	}
	info := make(map[string]string, len(keys))
	for id, value := range NamesRange(otf) {
		if key, ok := keys[id]; ok {
			if _, seen := info[key]; !seen {
				info[key] = value
			}
		}
	}
	return info
}

// checkNameTableSafe returns the 'name' table if its header and records are
// within bounds.
func checkNameTableSafe(otf *ot.Font) []byte {
	if otf == nil {
		return nil
	}
	b := otf.Table(ot.T("name"))
	if b == nil {
		tracer().Debugf("no name table found in font")
		return nil
	}
	if len(b) < nameHeaderSize {
		tracer().Debugf("name table too short: %d", len(b))
		return nil
	}
	count := int(binary.BigEndian.Uint16(b[2:4]))
	if strOff := int(binary.BigEndian.Uint16(b[4:6])); strOff > len(b) {
		tracer().Debugf("name table invalid string offset: %d", strOff)
		return nil
	}
	if nameHeaderSize+count*nameRecordSize > len(b) {
		tracer().Debugf("name table record section out of bounds: count=%d", count)
		return nil
	}
	return b
}

func isSupportedNameEncoding(key nameKey) bool {
	return (key.Platform == PlatformIDUnicode && key.Encoding == EncodingIDUnicodeBMP) ||
		(key.Platform == PlatformIDWindows && key.Encoding == EncodingIDWindowsBMP)
}

func decodeNameUTF16(str []byte) (string, error) {
	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
