package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Compiler turns a JSON metadata document into the binary block.
// The binary is written to outDir as "<base of jsonPath>.bin" and returned.
type Compiler interface {
	Compile(jsonPath, schemaPath, outDir string) ([]byte, error)
}

// BinaryPath returns the path a compiler writes the binary of jsonPath to.
func BinaryPath(jsonPath, outDir string) string {
	base := filepath.Base(jsonPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".bin")
}

// ExternalCompilerError is returned if the external schema compiler fails or
// does not produce its output.
type ExternalCompilerError struct {
	Cmd    string
	Output string // combined stdout and stderr
	Err    error
}

func (e *ExternalCompilerError) Error() string {
	msg := fmt.Sprintf("schema compiler failed: %s: %v", e.Cmd, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ExternalCompilerError) Unwrap() error {
	return e.Err
}

// Flatc compiles with the external FlatBuffers compiler.
type Flatc struct {
	Path string // executable, defaults to "flatc" in $PATH
}

// Compile runs
//
//	flatc -o outDir -b -j schemaPath jsonPath
func (f Flatc) Compile(jsonPath, schemaPath, outDir string) ([]byte, error) {
	path := f.Path
	if path == "" {
		path = "flatc"
	}
	cmd := exec.Command(path, "-o", outDir, "-b", "-j", schemaPath, jsonPath)
	var out bytes.Buffer
	cmd.Stdout, cmd.Stderr = &out, &out
	tracer().Debugf("running %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return nil, &ExternalCompilerError{Cmd: cmd.String(), Output: out.String(), Err: err}
	}
	bin, err := os.ReadFile(BinaryPath(jsonPath, outDir))
	if err != nil {
		return nil, &ExternalCompilerError{Cmd: cmd.String(), Output: out.String(), Err: err}
	}
	return bin, nil
}

// Native compiles in-process. The schema is fixed, therefore the schema
// path is only checked for existence.
type Native struct{}

// Compile encodes the JSON document at jsonPath as a flatbuffer.
func (Native) Compile(jsonPath, schemaPath, outDir string) ([]byte, error) {
	if schemaPath != "" {
		if _, err := os.Stat(schemaPath); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	doc, err := ReadJSON(jsonPath)
	if err != nil {
		return nil, err
	}
	if doc.List == nil {
		return nil, errors.New("metadata document has no list")
	}
	bin := Encode(doc)
	if err := os.WriteFile(BinaryPath(jsonPath, outDir), bin, 0o644); err != nil {
		return nil, err
	}
	tracer().Debugf("encoded %d metadata items into %d bytes", len(doc.List), len(bin))
	return bin, nil
}
