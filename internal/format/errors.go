package format

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrEmptyFile         = errors.New("file has no header row")
	ErrFieldCount        = errors.New("wrong number of fields")
	ErrDuplicateHeader   = errors.New("duplicate column name in header")
)

// ReadError reports a file that exists but could not be turned into a table.
// Line is 1-based and zero when the failure is not tied to a line.
type ReadError struct {
	Path string
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
