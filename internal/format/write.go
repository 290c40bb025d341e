package format

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

const exportSheet = "Sheet1"

// Export writes t to path as CSV or XLSX, chosen by extension.
func Export(path string, t *table.Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return exportCSV(path, t)
	case ".xlsx":
		return WriteXLSX(path, t)
	default:
		return fmt.Errorf("%w for export: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func exportCSV(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteCSV(f, t)
}

// WriteCSV writes a header record and one record per row. Missing cells are
// written empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	rec := make([]string, t.Width())
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX streams t into a new single-sheet workbook at path.
func WriteXLSX(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, t.Width())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func cellValue(v table.Value) interface{} {
	switch v.Kind() {
	case table.KindInt:
		i, _ := v.Int()
		return i
	case table.KindFloat:
		f, _ := v.Float()
		return f
	case table.KindString:
		s, _ := v.Str()
		return s
	case table.KindBool:
		b, _ := v.Boolean()
		return b
	}
	return nil
}
