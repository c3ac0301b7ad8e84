/*
Package metadata builds the binary emoji metadata block which is embedded into
a font's 'meta' table under the tag "Emji".

The block is a FlatBuffers binary of the schema emoji_metadata.fbs:

	table MetadataItem {
	  id:int; emojiStyle:bool; sdkAdded:short; compatAdded:short;
	  width:short; height:short; codepoints:[int];
	}
	table MetadataList { version:int; list:[MetadataItem]; sourceSha:string; }
	root_type MetadataList;

A build first writes the metadata as a JSON document (see Document), then hands
the document to a Compiler. Flatc runs the external FlatBuffers compiler,
Native encodes the same binary in-process. Decode reads a block back.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package metadata

import (
	_ "embed"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'emoji.metadata'
func tracer() tracing.Trace {
	return tracing.Select("emoji.metadata")
}

// DefaultSchema is the FlatBuffers schema of the metadata block.
//
//go:embed emoji_metadata.fbs
var DefaultSchema []byte

// Default file names inside a build's temporary directory.
const (
	JSONFileName   = "emoji_metadata.json"
	SchemaFileName = "emoji_metadata.fbs"
	BinaryFileName = "emoji_metadata.bin"
)

// Version is the default format version of the metadata.
const Version = 7
