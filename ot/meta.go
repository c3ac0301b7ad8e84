package ot

import (
	"fmt"
	"sort"
)

// MetaTable is the decoded 'meta' table: a version header and a list of
// data maps, each a blob of data keyed by a tag.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/meta.
type MetaTable struct {
	Version uint32
	Flags   uint32
	Maps    []DataMap
}

// DataMap is a tagged blob inside the 'meta' table.
type DataMap struct {
	Tag  Tag
	Data []byte
}

const metaHeaderSize = 16 // version, flags, reserved, dataMapsCount
const dataMapSize = 12    // tag, dataOffset, dataLength

// NewMetaTable creates an empty 'meta' table of version 1.
func NewMetaTable() *MetaTable {
	return &MetaTable{Version: 1}
}

// ParseMeta decodes a 'meta' table. Data offsets are relative to the start
// of the table.
func ParseMeta(data []byte) (*MetaTable, error) {
	b := binarySegm(data)
	hdr, err := b.view(0, metaHeaderSize)
	if err != nil {
		return nil, errMalformed(TagMeta, "header too small", err)
	}
	m := &MetaTable{Version: u32(hdr), Flags: u32(hdr[4:])}
	if m.Version != 1 {
		return nil, errMalformed(TagMeta, fmt.Sprintf("unsupported version %d", m.Version), nil)
	}
	count := int(u32(hdr[12:]))
	records, err := b.view(metaHeaderSize, count*dataMapSize)
	if err != nil {
		return nil, errMalformed(TagMeta, "data map records", err)
	}
	for i := 0; i < count; i++ {
		rec := records[i*dataMapSize:]
		tag, off, length := MakeTag(rec), int(u32(rec[4:])), int(u32(rec[8:]))
		blob, err := b.view(off, length)
		if err != nil {
			return nil, errMalformed(TagMeta, fmt.Sprintf("data map %s", tag), err)
		}
		m.Maps = append(m.Maps, DataMap{Tag: tag, Data: append([]byte(nil), blob...)})
	}
	return m, nil
}

// Get returns the data for a tag, if present.
func (m *MetaTable) Get(tag Tag) ([]byte, bool) {
	for _, dm := range m.Maps {
		if dm.Tag == tag {
			return dm.Data, true
		}
	}
	return nil, false
}

// Set creates or replaces the data map for tag.
func (m *MetaTable) Set(tag Tag, data []byte) {
	for i := range m.Maps {
		if m.Maps[i].Tag == tag {
			m.Maps[i].Data = data
			return
		}
	}
	m.Maps = append(m.Maps, DataMap{Tag: tag, Data: data})
}

// Encode serializes the table. Data maps are written in ascending tag order,
// their data following the records in the same order.
func (m *MetaTable) Encode() []byte {
	maps := append([]DataMap(nil), m.Maps...)
	sort.SliceStable(maps, func(i, j int) bool { return maps[i].Tag < maps[j].Tag })
	dataOffset := metaHeaderSize + len(maps)*dataMapSize
	size := dataOffset
	for _, dm := range maps {
		size += len(dm.Data)
	}
	out := make([]byte, size)
	putU32(out[0:], 1)
	putU32(out[4:], m.Flags)
	putU32(out[8:], uint32(dataOffset)) // reserved, holds the start of the data
	putU32(out[12:], uint32(len(maps)))
	off := dataOffset
	for i, dm := range maps {
		rec := out[metaHeaderSize+i*dataMapSize:]
		putU32(rec[0:], uint32(dm.Tag))
		putU32(rec[4:], uint32(off))
		putU32(rec[8:], uint32(len(dm.Data)))
		copy(out[off:], dm.Data)
		off += len(dm.Data)
	}
	return out
}
