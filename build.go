package emojicompat

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/npillmayer/emojicompat/emojidata"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/npillmayer/emojicompat/ot"
	"github.com/npillmayer/emojicompat/registry"
	"github.com/npillmayer/emojicompat/resolve"
)

// FixedVersion2 is version 2.0 as a 16.16 fixed point number. Renderers of
// older platforms do not accept bitmap tables of later versions.
const FixedVersion2 uint32 = 0x00020000

// Result is the outcome of a successful build.
type Result struct {
	Records     []registry.EmojiRecord // records with an identifier, sorted by identifier
	Metadata    []byte                 // the metadata block embedded into the font
	Checksum    string                 // sha256 of the build inputs
	Remapping   map[uint32]ot.GlyphIndex
	Diagnostics []resolve.AmbiguousSubstitution
	Unknown     []uint32 // emoji codepoints unknown to the compiled-in emoji classes
	Font        []byte   // the new font
}

// build holds the state of one run of Build.
type build struct {
	conf      Config
	tmp       string
	table     *registry.Table
	alloc     *registry.Allocator
	ids       map[uint32]struct{} // identifiers of the persisted table
	fontBytes []byte
	otf       *ot.Font
	cmap      *ot.CodepointMap
	persisted []byte
	result    *Result
}

// Build runs a complete build. The steps are strictly ordered:
//
//  1. check that all required inputs exist
//  2. load the emoji data and merge the persisted table of the previous build
//  3. read the font's bitmap metrics, cmap and substitution rules and assign
//     identifiers to every emoji the font supports
//  4. compile the metadata block
//  5. produce the new font and read it back for verification
//  6. write the font, the persisted table and the test data
//
// Nothing is written to the output paths unless all the previous steps
// succeeded.
func Build(conf Config) (*Result, error) {
	conf = conf.withDefaults()
	if err := conf.validate(); err != nil {
		return nil, err
	}
	tmp, err := os.MkdirTemp(conf.TempDir, "emojicompat-")
	if err != nil {
		return nil, fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)
	b := &build{conf: conf, tmp: tmp, result: &Result{}}
	steps := []struct {
		name string
		run  func() error
	}{
		{"loading emoji records", b.loadRecords},
		{"reading font", b.readFont},
		{"compiling metadata", b.compileMetadata},
		{"editing font", b.editFont},
		{"writing outputs", b.writeOutputs},
	}
	for _, step := range steps {
		tracer().Debugf("build: %s", step.name)
		if err := step.run(); err != nil {
			tracer().Errorf("build failed while %s: %v", step.name, err)
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	tracer().Infof("%d emojis written to %s", len(b.result.Records), conf.OutputFontPath)
	return b.result, nil
}

func (b *build) loadRecords() error {
	store, err := emojidata.Load(b.conf.UnicodeDir)
	if err != nil {
		return err
	}
	b.result.Unknown = store.Lint()
	table := registry.FromFacts(store.Facts(), b.conf.SDKVersion, b.conf.MetadataVersion)
	persisted, err := registry.LoadPersisted(b.conf.PersistedTablePath)
	if err != nil {
		return err
	}
	b.table, b.alloc = registry.Merge(table, persisted, b.conf.BaseID)
	b.ids = make(map[uint32]struct{}, len(persisted))
	for _, rec := range persisted {
		b.ids[rec.ID] = struct{}{}
	}
	return nil
}

func (b *build) readFont() (err error) {
	if b.fontBytes, b.otf, err = loadFont(b.conf.FontPath); err != nil {
		return err
	}
	if critical := b.otf.CriticalErrors(); len(critical) > 0 {
		return &ot.MalformedFontError{Table: critical[0].Table, Issue: critical[0].Issue}
	}
	metrics, err := b.otf.ReadGlyphMetrics()
	if err != nil {
		return err
	}
	if b.cmap, err = b.otf.ReadCodepointMap(); err != nil {
		if ot.IsUnsupported(err) {
			return &InputValidationError{Missing: []string{b.conf.FontPath}, Err: err}
		}
		return err
	}
	singles := 0
	for _, cp := range b.cmap.Codepoints() {
		if b.table.Attach([]uint32{cp}, b.cmap.Lookup(cp), metrics, b.alloc) {
			singles++
		}
	}
	rules, err := b.otf.ReadSubstitutionRules()
	if err != nil {
		return err
	}
	resolver := resolve.New(b.cmap.GlyphToCodepoint(b.isIdentifier)).WithGlyphNames(b.otf.GlyphName)
	sequences := 0
	for _, pair := range resolver.Resolve(rules) {
		if b.table.Attach(pair.Codepoints, pair.Glyph, metrics, b.alloc) {
			sequences++
		}
	}
	for _, e := range b.otf.Errors() {
		tracer().Infof("font: %s", e.Error())
	}
	for _, w := range b.otf.Warnings() {
		tracer().Infof("font: %s", w)
	}
	b.result.Diagnostics = resolver.Diagnostics()
	tracer().Infof("font supports %d single codepoint emojis and %d sequences", singles, sequences)
	return nil
}

// isIdentifier reports whether a codepoint of the source font is an
// identifier, i.e. the font is the output of an earlier build. Identifiers
// share glyphs with emoji codepoints and must not stand in for them.
func (b *build) isIdentifier(cp uint32) bool {
	if _, ok := b.ids[cp]; ok {
		return true
	}
	return cp >= b.conf.BaseID && unicode.Is(unicode.Co, rune(cp))
}

func (b *build) compileMetadata() error {
	b.result.Records = b.table.Sorted()
	var buf bytes.Buffer
	if err := registry.WritePersisted(&buf, b.result.Records); err != nil {
		return err
	}
	b.persisted = buf.Bytes()
	schema, schemaPath := metadata.DefaultSchema, b.conf.SchemaPath
	if schemaPath == "" {
		schemaPath = filepath.Join(b.tmp, metadata.SchemaFileName)
		if err := os.WriteFile(schemaPath, schema, 0o644); err != nil {
			return err
		}
	} else {
		var err error
		if schema, err = os.ReadFile(schemaPath); err != nil {
			return err
		}
	}
	b.result.Checksum = metadata.Checksum(b.fontBytes, b.persisted, schema)
	doc := metadata.NewDocument(b.result.Records, b.conf.MetadataVersion, b.result.Checksum)
	jsonPath := filepath.Join(b.tmp, metadata.JSONFileName)
	if err := metadata.WriteJSON(doc, jsonPath); err != nil {
		return err
	}
	blob, err := b.conf.Compiler.Compile(jsonPath, schemaPath, b.tmp)
	if err != nil {
		return err
	}
	b.result.Metadata = blob
	return nil
}

func (b *build) editFont() error {
	meta := ot.NewMetaTable()
	if raw := b.otf.Table(ot.TagMeta); raw != nil {
		var err error
		if meta, err = ot.ParseMeta(raw); err != nil {
			return err
		}
	}
	meta.Set(ot.TagEmji, b.result.Metadata)
	b.result.Remapping = b.table.Remapping()
	cmap, err := b.cmap.Encode(b.result.Remapping)
	if err != nil {
		return err
	}
	edits := ot.NewEdits().
		Replace(ot.TagMeta, meta.Encode()).
		Replace(ot.TagCmap, cmap).
		SetVersion(ot.TagCBDT, FixedVersion2).
		SetVersion(ot.TagCBLC, FixedVersion2).
		First(ot.TagMeta)
	font, err := b.otf.Apply(edits)
	if err != nil {
		return err
	}
	if err := verifyFont(font, b.result.Remapping); err != nil {
		return err
	}
	b.result.Font = font
	return nil
}

func (b *build) writeOutputs() error {
	var testData []string
	if b.conf.TestDataPath != "" {
		var err error
		if testData, err = TestData(b.conf.UnicodeDir); err != nil {
			return err
		}
	}
	if err := os.WriteFile(b.conf.OutputFontPath, b.result.Font, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(b.conf.PersistedTablePath, b.persisted, 0o644); err != nil {
		return err
	}
	if b.conf.TestDataPath != "" {
		return WriteTestData(b.conf.TestDataPath, testData)
	}
	return nil
}
