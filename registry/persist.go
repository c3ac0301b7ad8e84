package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// PersistedHeader is the first line of a persisted table.
var PersistedHeader = []string{"#id", "sdkAdded", "compatAdded", "codepoints"}

// PersistedFormatError reports a malformed line of a persisted table.
type PersistedFormatError struct {
	Line  int
	Issue string
}

func (e *PersistedFormatError) Error() string {
	return fmt.Sprintf("persisted table, line %d: %s", e.Line, e.Issue)
}

// WritePersisted writes records as a space separated text table, one record
// per line:
//
//	#id sdkAdded compatAdded codepoints
//	F0001 23 1 1F600
//	F0002 23 1 1F1E6 1F1E8
//
// Identifiers and codepoints are uppercase hex, versions are decimal.
// Records without an identifier are skipped; the others are written in
// order of their identifiers.
func WritePersisted(w io.Writer, records []EmojiRecord) error {
	sorted := NewTable()
	for _, rec := range records {
		if rec.ID != 0 {
			if err := sorted.Add(rec); err != nil {
				return err
			}
		}
	}
	cw := csv.NewWriter(w)
	cw.Comma = ' '
	if err := cw.Write(PersistedHeader); err != nil {
		return err
	}
	for _, rec := range sorted.Sorted() {
		row := make([]string, 0, 3+len(rec.Codepoints))
		row = append(row, fmt.Sprintf("%X", rec.ID))
		row = append(row, strconv.Itoa(rec.SDKAdded), strconv.Itoa(rec.CompatAdded))
		for _, cp := range rec.Codepoints {
			row = append(row, fmt.Sprintf("%X", cp))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPersisted reads a table written by WritePersisted. Lines starting with
// '#' and blank lines are ignored.
func ReadPersisted(r io.Reader) ([]EmojiRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	var records []EmojiRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &PersistedFormatError{Line: perr.Line, Issue: perr.Err.Error()}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row)
		if err != nil {
			return nil, &PersistedFormatError{Line: line, Issue: err.Error()}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (EmojiRecord, error) {
	rec := EmojiRecord{}
	if len(row) < 4 {
		return rec, fmt.Errorf("expected at least 4 fields, have %d", len(row))
	}
	id, err := strconv.ParseUint(row[0], 16, 32)
	if err != nil || id == 0 {
		return rec, fmt.Errorf("invalid identifier %q", row[0])
	}
	rec.ID = uint32(id)
	if rec.SDKAdded, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("invalid SDK version %q", row[1])
	}
	if rec.CompatAdded, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("invalid metadata version %q", row[2])
	}
	for _, h := range row[3:] {
		cp, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return rec, fmt.Errorf("invalid codepoint %q", h)
		}
		rec.Codepoints = append(rec.Codepoints, uint32(cp))
	}
	return rec, nil
}

// LoadPersisted reads a persisted table from a file. A missing file is an
// empty table.
func LoadPersisted(path string) ([]EmojiRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			tracer().Infof("no persisted table at %s", path)
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	records, err := ReadPersisted(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Debugf("loaded %d persisted records from %s", len(records), path)
	return records, nil
}
