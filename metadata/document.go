package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/npillmayer/emojicompat/registry"
)

// Item is one emoji of the metadata list. Fields are declared in the order
// of their JSON keys, making the document's keys sorted.
type Item struct {
	Codepoints  []uint32 `json:"codepoints"`
	CompatAdded int      `json:"compatAdded"`
	EmojiStyle  bool     `json:"emojiStyle"`
	Height      int      `json:"height"`
	ID          uint32   `json:"id"`
	SDKAdded    int      `json:"sdkAdded"`
	Width       int      `json:"width"`
}

// Document is the root of the metadata, the MetadataList of the schema.
type Document struct {
	List      []Item `json:"list"`
	SourceSha string `json:"sourceSha"`
	Version   int    `json:"version"`
}

// NewDocument creates a document from the records which have an identifier,
// ordered by identifier.
func NewDocument(records []registry.EmojiRecord, version int, sha string) *Document {
	doc := &Document{Version: version, SourceSha: sha, List: make([]Item, 0, len(records))}
	for _, rec := range records {
		if rec.ID == 0 {
			continue
		}
		doc.List = append(doc.List, Item{
			ID:          rec.ID,
			EmojiStyle:  rec.EmojiStyle,
			SDKAdded:    rec.SDKAdded,
			CompatAdded: rec.CompatAdded,
			Width:       rec.Width,
			Height:      rec.Height,
			Codepoints:  append([]uint32(nil), rec.Codepoints...),
		})
	}
	sort.Slice(doc.List, func(i, j int) bool { return doc.List[i].ID < doc.List[j].ID })
	return doc
}

// Lookup finds the item for a codepoint sequence.
func (doc *Document) Lookup(cps []uint32) (Item, bool) {
	key := registry.KeyOf(cps)
	for _, item := range doc.List {
		if registry.KeyOf(item.Codepoints) == key {
			return item, true
		}
	}
	return Item{}, false
}

// ByID finds the item with identifier id.
func (doc *Document) ByID(id uint32) (Item, bool) {
	i := sort.Search(len(doc.List), func(i int) bool { return doc.List[i].ID >= id })
	if i < len(doc.List) && doc.List[i].ID == id {
		return doc.List[i], true
	}
	return Item{}, false
}

// Checksum returns the lowercase hex sha256 of the build inputs: the source
// font, the persisted table of the build and the schema, in this order.
func Checksum(font, persisted, schema []byte) string {
	h := sha256.New()
	h.Write(font)
	h.Write(persisted)
	h.Write(schema)
	return hex.EncodeToString(h.Sum(nil))
}

// WriteJSON writes the document to path, indented by four spaces.
func WriteJSON(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	tracer().Debugf("wrote %d metadata items to %s", len(doc.List), path)
	return nil
}

// ReadJSON reads a document written by WriteJSON.
func ReadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("metadata document %s: %w", path, err)
	}
	return doc, nil
}
