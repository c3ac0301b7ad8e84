package metadata

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/emojicompat/registry"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []registry.EmojiRecord {
	return []registry.EmojiRecord{
		{Codepoints: []uint32{0x1F1E6, 0x1F1E8}, ID: 0xF0002, SDKAdded: 30, CompatAdded: 7,
			Width: 136, Height: 128},
		{Codepoints: []uint32{0x1F600}, EmojiStyle: true, ID: 0xF0001, SDKAdded: 23, CompatAdded: 1,
			Width: 136, Height: 128},
		{Codepoints: []uint32{0x1F468}}, // no identifier
	}
}

func TestNewDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	doc := NewDocument(testRecords(), Version, "abc")
	want := &Document{
		Version:   7,
		SourceSha: "abc",
		List: []Item{
			{ID: 0xF0001, EmojiStyle: true, SDKAdded: 23, CompatAdded: 1, Width: 136, Height: 128,
				Codepoints: []uint32{0x1F600}},
			{ID: 0xF0002, SDKAdded: 30, CompatAdded: 7, Width: 136, Height: 128,
				Codepoints: []uint32{0x1F1E6, 0x1F1E8}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("unexpected document (-want +got):\n%s", diff)
	}
	item, ok := doc.Lookup([]uint32{0x1F1E6, 0x1F1E8})
	assert.True(t, ok)
	assert.Equal(t, uint32(0xF0002), item.ID)
	_, ok = doc.Lookup([]uint32{0x1F1E6})
	assert.False(t, ok)
	item, ok = doc.ByID(0xF0001)
	assert.True(t, ok)
	assert.Equal(t, []uint32{0x1F600}, item.Codepoints)
	_, ok = doc.ByID(0xF0003)
	assert.False(t, ok)
}

func TestJSONKeys(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), JSONFileName)
	require.NoError(t, WriteJSON(NewDocument(testRecords(), Version, "abc"), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(7), raw["version"])
	assert.Equal(t, "abc", raw["sourceSha"])
	first := raw["list"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "emojiStyle", "sdkAdded", "compatAdded", "width", "height", "codepoints"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, float64(0xF0001), first["id"])
	doc, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Len(t, doc.List, 2)
}

func TestChecksum(t *testing.T) {
	sum := Checksum([]byte("font"), []byte("table"), []byte("schema"))
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, Checksum([]byte("fontta"), []byte("bleschema"), nil),
		"checksum is over the concatenation")
	assert.NotEqual(t, sum, Checksum([]byte("font"), []byte("table"), nil))
	// sha256 of the empty input
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil, nil, nil))
}

func TestEncodeDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	doc := NewDocument(testRecords(), Version, "0123456789abcdef")
	blob := Encode(doc)
	decoded, err := Decode(blob)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Errorf("round trip differs (-want +got):\n%s", diff)
	}
	assert.True(t, bytes.Equal(blob, Encode(doc)), "encoding is deterministic")
}

func TestDecodeMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	var ferr *FormatError
	_, err := Decode([]byte{1, 2})
	assert.ErrorAs(t, err, &ferr)
	_, err = Decode([]byte{0xff, 0xff, 0xff, 0x7f, 0, 0, 0, 0})
	assert.ErrorAs(t, err, &ferr)
}

func TestNativeCompiler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, JSONFileName)
	schemaPath := filepath.Join(dir, SchemaFileName)
	require.NoError(t, os.WriteFile(schemaPath, DefaultSchema, 0o644))
	doc := NewDocument(testRecords(), Version, "abc")
	require.NoError(t, WriteJSON(doc, jsonPath))
	bin, err := Native{}.Compile(jsonPath, schemaPath, dir)
	require.NoError(t, err)
	onDisk, err := os.ReadFile(filepath.Join(dir, BinaryFileName))
	require.NoError(t, err)
	assert.Equal(t, bin, onDisk)
	decoded, err := Decode(bin)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Errorf("compiled document differs (-want +got):\n%s", diff)
	}
	_, err = Native{}.Compile(jsonPath, filepath.Join(dir, "missing.fbs"), dir)
	assert.Error(t, err)
}

func TestFlatcFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "emoji.metadata")
	defer teardown()
	//
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, JSONFileName)
	require.NoError(t, WriteJSON(NewDocument(testRecords(), Version, "abc"), jsonPath))
	_, err := Flatc{Path: filepath.Join(dir, "no-such-flatc")}.Compile(jsonPath, SchemaFileName, dir)
	var cerr *ExternalCompilerError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Cmd, "no-such-flatc")
	assert.Contains(t, cerr.Cmd, "-b -j")
}

func TestBinaryPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "emoji_metadata.bin"), BinaryPath("/tmp/x/emoji_metadata.json", "out"))
}
