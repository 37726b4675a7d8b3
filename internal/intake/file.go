// Package intake accepts user-selected files, decodes JSON, keeps CSV as raw
// text and attaches a canned list of quality issues per file type. Nothing is
// actually analysed.
package intake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Kind classifies a file by its name suffix.
type Kind int

const (
	KindOther Kind = iota
	KindJSON
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindCSV:
		return "csv"
	default:
		return "other"
	}
}

// Classify looks only at the suffix of name. Matching is case-insensitive.
func Classify(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return KindJSON
	case ".csv":
		return KindCSV
	default:
		return KindOther
	}
}

// UploadedFile is a file accepted into the session.
type UploadedFile struct {
	ID         string
	Name       string
	Size       int64
	MIMEType   string
	Kind       Kind
	Content    any      // decoded JSON value, raw CSV text, or nil
	Issues     []string // nil for unclassified files
	Rows       int      // CSV data rows, header excluded
	ReceivedAt time.Time
}

var (
	ErrParse = errors.New("parse failed")
	ErrRead  = errors.New("read failed")
)

// ParseError reports a .json file whose content is not valid JSON.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Name, e.Err) }

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// ReadError reports a file that could not be read from disk.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() []error { return []error{ErrRead, e.Err} }

var (
	jsonIssues = []string{
		"Mixed ID formats detected",
		"Inconsistent field naming",
		"Null values found in critical fields",
	}
	csvIssues = []string{
		"Multiple date formats detected",
		"Data type inconsistencies",
		"Duplicate records found",
	}
)

// CannedIssues returns a fresh copy of the fixed issue list for k, or nil.
func CannedIssues(k Kind) []string {
	switch k {
	case KindJSON:
		return append([]string(nil), jsonIssues...)
	case KindCSV:
		return append([]string(nil), csvIssues...)
	default:
		return nil
	}
}
