// Package format reads the supported tabular file formats into tables and
// writes tables back out for export.
//
// The reader is chosen by file extension, compared case-insensitively:
//
//	.csv           delimited text with a header row
//	.xlsx .xlsm    first worksheet of a workbook, first row is the header
//	.xls           recognized, but the legacy binary workbook cannot be opened
//	.rowout        whitespace-separated log with a header line
//
// Any other extension yields [ErrUnsupportedFormat], which callers treat as
// "skip this file" rather than a failure.
package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

// Kind identifies one of the supported reader variants.
type Kind int

const (
	DelimitedText Kind = iota + 1
	Spreadsheet
	RowLog
)

func (k Kind) String() string {
	switch k {
	case DelimitedText:
		return "csv"
	case Spreadsheet:
		return "spreadsheet"
	case RowLog:
		return "rowout"
	}
	return "unknown"
}

// DefaultMaxFileSize is used when Options.MaxFileSize is zero.
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

type Options struct {
	// MaxFileSize rejects larger files before any parsing. Negative disables
	// the check.
	MaxFileSize int64
}

func (o Options) maxSize() int64 {
	if o.MaxFileSize == 0 {
		return DefaultMaxFileSize
	}
	return o.MaxFileSize
}

// Reader turns one file into a table.
type Reader interface {
	Kind() Kind
	Read(path string) (*table.Table, error)
}

var extensions = map[string]Kind{
	".csv":    DelimitedText,
	".xlsx":   Spreadsheet,
	".xlsm":   Spreadsheet,
	".xls":    Spreadsheet,
	".rowout": RowLog,
}

// Detect returns the reader kind for path's extension.
func Detect(path string) (Kind, bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

// Lookup returns the reader for path.
func Lookup(path string, opts Options) (Reader, error) {
	k, ok := Detect(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	switch k {
	case DelimitedText:
		return csvReader{opts: opts}, nil
	case Spreadsheet:
		return sheetReader{opts: opts}, nil
	default:
		return rowLogReader{opts: opts}, nil
	}
}

// Read loads path with the reader its extension selects.
func Read(path string, opts Options) (*table.Table, error) {
	r, err := Lookup(path, opts)
	if err != nil {
		return nil, err
	}
	return r.Read(path)
}

// checkSize stats path and enforces the size limit.
func checkSize(path string, opts Options) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ReadError{Path: path, Err: err}
	}
	if limit := opts.maxSize(); limit > 0 && info.Size() > limit {
		return &ReadError{Path: path, Err: fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, info.Size(), limit)}
	}
	return nil
}
