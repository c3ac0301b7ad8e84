package metadata

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// Field slots of the schema's tables, as vtable offsets.
const (
	listVersion   flatbuffers.VOffsetT = 4
	listItems     flatbuffers.VOffsetT = 6
	listSourceSha flatbuffers.VOffsetT = 8

	itemID          flatbuffers.VOffsetT = 4
	itemEmojiStyle  flatbuffers.VOffsetT = 6
	itemSDKAdded    flatbuffers.VOffsetT = 8
	itemCompatAdded flatbuffers.VOffsetT = 10
	itemWidth       flatbuffers.VOffsetT = 12
	itemHeight      flatbuffers.VOffsetT = 14
	itemCodepoints  flatbuffers.VOffsetT = 16
)

// slot converts a vtable offset to the field number the builder expects.
func slot(v flatbuffers.VOffsetT) int {
	return int(v-4) / 2
}

// Encode serializes a document as a MetadataList flatbuffer. Fields holding
// their default value are omitted, as flatc does.
func Encode(doc *Document) []byte {
	b := flatbuffers.NewBuilder(1024)
	sha := b.CreateString(doc.SourceSha)
	items := make([]flatbuffers.UOffsetT, len(doc.List))
	for i, item := range doc.List {
		items[i] = encodeItem(b, item)
	}
	b.StartVector(4, len(items), 4)
	for i := len(items) - 1; i >= 0; i-- {
		b.PrependUOffsetT(items[i])
	}
	list := b.EndVector(len(items))
	b.StartObject(3)
	b.PrependUOffsetTSlot(slot(listSourceSha), sha, 0)
	b.PrependUOffsetTSlot(slot(listItems), list, 0)
	b.PrependInt32Slot(slot(listVersion), int32(doc.Version), 0)
	b.Finish(b.EndObject())
	return b.FinishedBytes()
}

func encodeItem(b *flatbuffers.Builder, item Item) flatbuffers.UOffsetT {
	b.StartVector(4, len(item.Codepoints), 4)
	for i := len(item.Codepoints) - 1; i >= 0; i-- {
		b.PrependInt32(int32(item.Codepoints[i]))
	}
	cps := b.EndVector(len(item.Codepoints))
	b.StartObject(7)
	b.PrependUOffsetTSlot(slot(itemCodepoints), cps, 0)
	b.PrependInt32Slot(slot(itemID), int32(item.ID), 0)
	b.PrependInt16Slot(slot(itemHeight), int16(item.Height), 0)
	b.PrependInt16Slot(slot(itemWidth), int16(item.Width), 0)
	b.PrependInt16Slot(slot(itemCompatAdded), int16(item.CompatAdded), 0)
	b.PrependInt16Slot(slot(itemSDKAdded), int16(item.SDKAdded), 0)
	b.PrependBoolSlot(slot(itemEmojiStyle), item.EmojiStyle, false)
	return b.EndObject()
}

// FormatError is returned by Decode for a block which is not a valid
// MetadataList flatbuffer.
type FormatError struct {
	Issue string
}

func (e *FormatError) Error() string {
	return "malformed metadata block: " + e.Issue
}

// Decode reads a MetadataList flatbuffer.
func Decode(blob []byte) (doc *Document, err error) {
	if len(blob) < 8 {
		return nil, &FormatError{Issue: fmt.Sprintf("%d bytes are too few", len(blob))}
	}
	// the flatbuffers accessors do not check bounds
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &FormatError{Issue: fmt.Sprint(r)}
		}
	}()
	root := &flatbuffers.Table{Bytes: blob, Pos: flatbuffers.GetUOffsetT(blob)}
	doc = &Document{
		Version: int(root.GetInt32Slot(listVersion, 0)),
	}
	if o := flatbuffers.UOffsetT(root.Offset(listSourceSha)); o != 0 {
		doc.SourceSha = string(root.ByteVector(o + root.Pos))
	}
	if o := flatbuffers.UOffsetT(root.Offset(listItems)); o != 0 {
		vec, n := root.Vector(o), root.VectorLen(o)
		doc.List = make([]Item, 0, n)
		for j := 0; j < n; j++ {
			t := &flatbuffers.Table{Bytes: blob, Pos: root.Indirect(vec + flatbuffers.UOffsetT(j*4))}
			doc.List = append(doc.List, decodeItem(t))
		}
	}
	tracer().Debugf("decoded metadata version %d with %d items", doc.Version, len(doc.List))
	return doc, nil
}

func decodeItem(t *flatbuffers.Table) Item {
	item := Item{
		ID:          uint32(t.GetInt32Slot(itemID, 0)),
		EmojiStyle:  t.GetBoolSlot(itemEmojiStyle, false),
		SDKAdded:    int(t.GetInt16Slot(itemSDKAdded, 0)),
		CompatAdded: int(t.GetInt16Slot(itemCompatAdded, 0)),
		Width:       int(t.GetInt16Slot(itemWidth, 0)),
		Height:      int(t.GetInt16Slot(itemHeight, 0)),
	}
	if o := flatbuffers.UOffsetT(t.Offset(itemCodepoints)); o != 0 {
		vec, n := t.Vector(o), t.VectorLen(o)
		item.Codepoints = make([]uint32, n)
		for j := 0; j < n; j++ {
			item.Codepoints[j] = uint32(t.GetInt32(vec + flatbuffers.UOffsetT(j*4)))
		}
	}
	return item
}
