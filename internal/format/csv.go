package format

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

type csvReader struct {
	opts Options
}

func (csvReader) Kind() Kind { return DelimitedText }

// Read parses a comma-separated file whose first record is the header. Every
// record must have as many fields as the header.
func (r csvReader) Read(path string) (*table.Table, error) {
	src, err := openText(path, r.opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cr := csv.NewReader(src)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ReadError{Path: path, Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		rows = append(rows, rec)
	}

	t, err := table.Infer(normalizeHeader(header), rows)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		cause := pe.Err
		if errors.Is(cause, csv.ErrFieldCount) {
			cause = ErrFieldCount
		}
		return &ReadError{Path: path, Line: pe.Line, Err: cause}
	}
	return &ReadError{Path: path, Err: err}
}
