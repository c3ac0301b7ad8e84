package emojicompat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/emojicompat/emojidata"
	"github.com/npillmayer/emojicompat/metadata"
	"github.com/npillmayer/emojicompat/registry"
)

// Config is the configuration of a build. Use DefaultConfig to get a
// configuration with default versions and compiler.
type Config struct {
	FontPath           string // source color emoji font
	UnicodeDir         string // directory of emoji data files
	SchemaPath         string // FlatBuffers schema; embedded schema if empty
	PersistedTablePath string // identifier table, read and rewritten
	OutputFontPath     string // defaults to DefaultOutputFont next to FontPath
	TestDataPath       string // list of all emoji sequences; not written if empty
	SDKVersion         int    // SDK version stamp of new records
	MetadataVersion    int    // metadata format version, stamp of new records
	BaseID             uint32 // first identifier of an empty table
	Compiler           metadata.Compiler
	TempDir            string // parent of the build's temporary directory
}

// Default versions of a build.
const (
	DefaultSDKVersion      = 30
	DefaultMetadataVersion = metadata.Version
)

// DefaultOutputFont is the file name of the compatibility font. It is
// written to the directory of the source font, never over it.
const DefaultOutputFont = "NotoColorEmojiCompat.ttf"

// DefaultOutputPath is the path of the compatibility font built from a source font.
func DefaultOutputPath(fontPath string) string {
	return filepath.Join(filepath.Dir(fontPath), DefaultOutputFont)
}

// DefaultPersistedTable is the default file name of the identifier table.
const DefaultPersistedTable = "emoji_metadata.txt"

// DefaultConfig returns a configuration for a font and a data directory.
func DefaultConfig(fontPath, unicodeDir string) Config {
	return Config{
		FontPath:           fontPath,
		UnicodeDir:         unicodeDir,
		PersistedTablePath: DefaultPersistedTable,
		SDKVersion:         DefaultSDKVersion,
		MetadataVersion:    DefaultMetadataVersion,
		BaseID:             registry.DefaultBaseID,
		Compiler:           metadata.Native{},
	}
}

func (conf Config) withDefaults() Config {
	if conf.OutputFontPath == "" {
		conf.OutputFontPath = DefaultOutputPath(conf.FontPath)
	}
	if conf.PersistedTablePath == "" {
		conf.PersistedTablePath = DefaultPersistedTable
	}
	if conf.SDKVersion == 0 {
		conf.SDKVersion = DefaultSDKVersion
	}
	if conf.MetadataVersion == 0 {
		conf.MetadataVersion = DefaultMetadataVersion
	}
	if conf.BaseID == 0 {
		conf.BaseID = registry.DefaultBaseID
	}
	if conf.Compiler == nil {
		conf.Compiler = metadata.Native{}
	}
	return conf
}

// InputValidationError is returned if required inputs of a build are
// missing or unusable. Nothing has been read or written when it occurs.
type InputValidationError struct {
	Missing []string
	Err     error // cause, if an input exists but is unusable
}

func (e *InputValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unusable input %s: %v", strings.Join(e.Missing, ", "), e.Err)
	}
	return "missing input: " + strings.Join(e.Missing, ", ")
}

func (e *InputValidationError) Unwrap() error {
	return e.Err
}

// validate checks that every required input exists.
func (conf Config) validate() error {
	var missing []string
	check := func(path string) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, path)
		}
	}
	if conf.FontPath == "" {
		missing = append(missing, "<font>")
	} else {
		check(conf.FontPath)
	}
	if conf.UnicodeDir == "" {
		missing = append(missing, "<unicode-dir>")
	} else {
		for _, name := range emojidata.RequiredFiles() {
			check(filepath.Join(conf.UnicodeDir, filepath.FromSlash(name)))
		}
		if conf.TestDataPath != "" {
			check(filepath.Join(conf.UnicodeDir, emojidata.VariationSequencesFile))
		}
	}
	if conf.SchemaPath != "" {
		check(conf.SchemaPath)
	}
	if len(missing) > 0 {
		return &InputValidationError{Missing: missing}
	}
	return nil
}
