package format

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

// FileNameColumn is the column a row log gets holding the file's stem.
const FileNameColumn = "FILE_NAME"

const maxLineSize = 16 * 1024 * 1024

type rowLogReader struct {
	opts Options
}

func (rowLogReader) Kind() Kind { return RowLog }

// Read parses a whitespace-separated log. The first line names the columns
// and every later non-blank line is one row; rows shorter than the header are
// padded with missing cells. The result gains a leading FILE_NAME column set
// to the file's base name up to its first dot, replacing any FILE_NAME column
// the header already had.
func (r rowLogReader) Read(path string) (*table.Table, error) {
	src, err := openText(path, r.opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, &ReadError{Path: path, Err: err}
		}
		return nil, &ReadError{Path: path, Err: ErrEmptyFile}
	}
	header := strings.Fields(sc.Text())
	if len(header) == 0 {
		return nil, &ReadError{Path: path, Line: 1, Err: ErrEmptyFile}
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return nil, &ReadError{Path: path, Line: 1, Err: fmt.Errorf("%w: %q", ErrDuplicateHeader, h)}
		}
		seen[h] = true
	}

	var rows [][]string
	for line := 2; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) > len(header) {
			return nil, &ReadError{Path: path, Line: line, Err: fmt.Errorf("%w: got %d, want at most %d", ErrFieldCount, len(fields), len(header))}
		}
		for len(fields) < len(header) {
			fields = append(fields, "")
		}
		rows = append(rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	t, err := table.Infer(header, rows)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if i := t.Index(FileNameColumn); i >= 0 {
		t.DropColumn(i)
	}
	col := table.Column{Name: FileNameColumn, Kind: table.KindString}
	if err := t.InsertColumn(0, col, table.String(fileStem(path))); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

// fileStem returns the base name up to its first dot, so "run.2024.rowout"
// gives "run".
func fileStem(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
