package format

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

type sheetReader struct {
	opts Options
}

func (sheetReader) Kind() Kind { return Spreadsheet }

// Read loads the first worksheet. The first non-blank row is the header; cells are read
// unformatted so numbers keep their stored precision. Short rows are padded
// with missing cells, cells past the header get "Unnamed" columns, and fully
// blank rows are skipped.
func (r sheetReader) Read(path string) (*table.Table, error) {
	if err := checkSize(path, r.opts); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Path: path, Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}
	defer rows.Close()

	var (
		header    []string
		sawHeader bool
		data      [][]string
		width     int
	)
	for line := 1; rows.Next(); line++ {
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &ReadError{Path: path, Line: line, Err: err}
		}
		if !sawHeader {
			if blank(cells) {
				continue
			}
			header, sawHeader = cells, true
			width = len(header)
			continue
		}
		if blank(cells) {
			continue
		}
		if len(cells) > width {
			width = len(cells)
		}
		data = append(data, cells)
	}
	if err := rows.Error(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if !sawHeader {
		return table.New(nil), nil
	}

	for len(header) < width {
		header = append(header, "")
	}
	for i, row := range data {
		for len(row) < width {
			row = append(row, "")
		}
		data[i] = row
	}

	t, err := table.Infer(normalizeHeader(header), data)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
