package ot

import (
	"errors"
	"fmt"
)

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated during parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "GSUB", "CBLC")
	Section  string        // Specific section within the table (e.g., "LookupType5", "IndexSubTable")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the table where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// FontWarning represents a non-critical issue encountered during font parsing.
type FontWarning struct {
	Table  Tag    // The OpenType table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the table where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

func (ec *errorCollector) addError(table Tag, section string, issue string, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	tracer().Debugf("%s: %s", table, issue)
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

// criticalErrors returns all errors with critical severity.
func (ec *errorCollector) criticalErrors() []FontError {
	critical := make([]FontError, 0)
	for _, err := range ec.errors {
		if err.Severity == SeverityCritical {
			critical = append(critical, err)
		}
	}
	return critical
}

// --- Errors reported to clients --------------------------------------------

// MalformedFontError is returned if a table the build depends on is missing
// or its internal structure cannot be decoded.
type MalformedFontError struct {
	Table Tag
	Issue string
	Err   error // underlying decoding error, may be nil
}

func (e *MalformedFontError) Error() string {
	if e.Table == 0 {
		if e.Err != nil {
			return fmt.Sprintf("malformed font: %s: %v", e.Issue, e.Err)
		}
		return "malformed font: " + e.Issue
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed font: table %s: %s: %v", e.Table, e.Issue, e.Err)
	}
	return fmt.Sprintf("malformed font: table %s: %s", e.Table, e.Issue)
}

func (e *MalformedFontError) Unwrap() error {
	return e.Err
}

// UnsupportedFontError is returned if a font is well-formed but lacks a
// structure this package requires, e.g. the cmap subtable with platform 3,
// encoding 10 and format 12.
type UnsupportedFontError struct {
	Reason string
}

func (e *UnsupportedFontError) Error() string {
	return "unsupported font: " + e.Reason
}

func errMalformed(table Tag, issue string, err error) error {
	return &MalformedFontError{Table: table, Issue: issue, Err: err}
}

// errFontFormat produces user level errors for container parsing.
func errFontFormat(message string) error {
	return &MalformedFontError{Table: 0, Issue: message}
}

// IsMalformed reports whether err is or wraps a MalformedFontError.
func IsMalformed(err error) bool {
	var mfe *MalformedFontError
	return errors.As(err, &mfe)
}

// IsUnsupported reports whether err is or wraps an UnsupportedFontError.
func IsUnsupported(err error) bool {
	var ufe *UnsupportedFontError
	return errors.As(err, &ufe)
}
