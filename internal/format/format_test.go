package format

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

// ----------------------------------------------------------------------------
// Dispatch Tests
// ----------------------------------------------------------------------------

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		want   Kind
		wantOK bool
	}{
		{path: "a.csv", want: DelimitedText, wantOK: true},
		{path: "A.CSV", want: DelimitedText, wantOK: true},
		{path: "book.xlsx", want: Spreadsheet, wantOK: true},
		{path: "book.XLS", want: Spreadsheet, wantOK: true},
		{path: "run.RowOut", want: RowLog, wantOK: true},
		{path: "notes.txt", wantOK: false},
		{path: "noext", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Detect(%q) = %v, %v, want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{path: "a.csv", want: DelimitedText},
		{path: "book.xlsm", want: Spreadsheet},
		{path: "run.rowout", want: RowLog},
	}
	for _, tt := range tests {
		r, err := Lookup(tt.path, Options{})
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", tt.path, err)
		}
		if r.Kind() != tt.want {
			t.Errorf("Lookup(%q).Kind() = %v, want %v", tt.path, r.Kind(), tt.want)
		}
	}

	if _, err := Lookup("notes.txt", Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Lookup(notes.txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadUnsupported(t *testing.T) {
	path := writeFile(t, "notes.txt", "a,b\n1,2\n")
	_, err := Read(path, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadFileTooLarge(t *testing.T) {
	path := writeFile(t, "big.csv", "a,b\n1,2\n3,4\n")
	_, err := Read(path, Options{MaxFileSize: 4})

	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("Read() error = %v, want *ReadError", err)
	}
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Read() error = %v, want ErrFileTooLarge", err)
	}
}

// ----------------------------------------------------------------------------
// CSV Tests
// ----------------------------------------------------------------------------

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "a.csv", "\xef\xbb\xbfid,name,score\n1,alice,2.5\n2,\"b, ob\",\n")
	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := &table.Table{
		Columns: []table.Column{
			{Name: "id", Kind: table.KindInt},
			{Name: "name", Kind: table.KindString},
			{Name: "score", Kind: table.KindFloat},
		},
		Rows: [][]table.Value{
			{table.Int(1), table.String("alice"), table.Float(2.5)},
			{table.Int(2), table.String("b, ob"), table.Null},
		},
	}
	if !table.Equal(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "h.csv", "x,y\n")
	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Len() != 0 || got.Width() != 2 {
		t.Errorf("Read() shape = (%d, %d), want (0, 2)", got.Len(), got.Width())
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		wantLine int
	}{
		{name: "empty file", content: "", wantErr: ErrEmptyFile},
		{name: "ragged row", content: "a,b\n1,2\n3\n", wantErr: ErrFieldCount, wantLine: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			_, err := Read(path, Options{})

			var re *ReadError
			if !errors.As(err, &re) {
				t.Fatalf("Read() error = %v, want *ReadError", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
			}
			if re.Line != tt.wantLine {
				t.Errorf("ReadError.Line = %d, want %d", re.Line, tt.wantLine)
			}
		})
	}
}

func TestReadCSVInvalidUTF8(t *testing.T) {
	path := writeFile(t, "latin.csv", "name\ncaf\xe9\n")
	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if s, _ := got.Rows[0][0].Str(); s != "caf\uFFFD" {
		t.Errorf("cell = %q, want %q", s, "caf\uFFFD")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "unchanged", in: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "blank names", in: []string{"a", "", ""}, want: []string{"a", "Unnamed: 1", "Unnamed: 2"}},
		{name: "duplicates", in: []string{"x", "x", "x"}, want: []string{"x", "x.1", "x.2"}},
		{name: "suffix already taken", in: []string{"x", "x.1", "x"}, want: []string{"x", "x.1", "x.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeHeader(tt.in)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("normalizeHeader(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Spreadsheet Tests
// ----------------------------------------------------------------------------

func TestReadSpreadsheet(t *testing.T) {
	path := writeWorkbook(t, "book.xlsx", [][]interface{}{
		{"sku", "qty", "price"},
		{"A-1", 3, 1.25},
		{},
		{"B-2", 4},
		{"C-3", 5, 2, "extra"},
	})

	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	wantNames := "sku|qty|price|Unnamed: 3"
	if strings.Join(got.Names(), "|") != wantNames {
		t.Errorf("Names() = %v, want %s", got.Names(), wantNames)
	}
	if got.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", got.Len())
	}
	if got.Columns[1].Kind != table.KindInt {
		t.Errorf("qty kind = %s, want int", got.Columns[1].Kind)
	}
	if got.Columns[2].Kind != table.KindFloat {
		t.Errorf("price kind = %s, want float", got.Columns[2].Kind)
	}
	if !got.Rows[1][2].IsNull() {
		t.Errorf("padded cell = %v, want null", got.Rows[1][2])
	}
	if s, _ := got.Rows[2][3].Str(); s != "extra" {
		t.Errorf("extra cell = %q, want extra", s)
	}
}

func TestReadSpreadsheetLeadingBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offset.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A3", &[]interface{}{"x", "y"}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A4", &[]interface{}{1, 2}); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}

	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := &table.Table{
		Columns: []table.Column{
			{Name: "x", Kind: table.KindInt},
			{Name: "y", Kind: table.KindInt},
		},
		Rows: [][]table.Value{{table.Int(1), table.Int(2)}},
	}
	if !table.Equal(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestReadSpreadsheetHeaderAtSecondRow(t *testing.T) {
	path := writeWorkbook(t, "second.xlsx", [][]interface{}{
		{"", ""},
		{"x", "y"},
		{1, 2},
	})

	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if strings.Join(got.Names(), "|") != "x|y" || got.Len() != 1 {
		t.Errorf("Read() = %v with %d rows, want [x y] with 1 row", got.Names(), got.Len())
	}
	if got.Columns[0].Kind != table.KindInt {
		t.Errorf("x kind = %s, want int", got.Columns[0].Kind)
	}
}

func TestReadLegacyWorkbookFails(t *testing.T) {
	path := writeFile(t, "old.xls", "\xd0\xcf\x11\xe0not really a workbook")
	_, err := Read(path, Options{})

	var re *ReadError
	if !errors.As(err, &re) {
		t.Errorf("Read() error = %v, want *ReadError", err)
	}
}

// ----------------------------------------------------------------------------
// Row Log Tests
// ----------------------------------------------------------------------------

func TestReadRowLog(t *testing.T) {
	path := writeFile(t, "run.2024.rowout", "step  value   status\n1 0.5 ok\n\n2 1.5\n")
	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := &table.Table{
		Columns: []table.Column{
			{Name: FileNameColumn, Kind: table.KindString},
			{Name: "step", Kind: table.KindInt},
			{Name: "value", Kind: table.KindFloat},
			{Name: "status", Kind: table.KindString},
		},
		Rows: [][]table.Value{
			{table.String("run"), table.Int(1), table.Float(0.5), table.String("ok")},
			{table.String("run"), table.Int(2), table.Float(1.5), table.Null},
		},
	}
	if !table.Equal(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestReadRowLogReplacesFileName(t *testing.T) {
	path := writeFile(t, "b.rowout", "FILE_NAME x\nother 1\n")
	got, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if strings.Join(got.Names(), "|") != "FILE_NAME|x" {
		t.Errorf("Names() = %v, want [FILE_NAME x]", got.Names())
	}
	if s, _ := got.Rows[0][0].Str(); s != "b" {
		t.Errorf("FILE_NAME = %q, want b", s)
	}
}

func TestReadRowLogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: ErrEmptyFile},
		{name: "blank header", content: "   \n1 2\n", wantErr: ErrEmptyFile},
		{name: "duplicate header", content: "a b a\n1 2 3\n", wantErr: ErrDuplicateHeader},
		{name: "too many fields", content: "a b\n1 2 3\n", wantErr: ErrFieldCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.rowout", tt.content)
			_, err := Read(path, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileStem(t *testing.T) {
	tests := map[string]string{
		"/data/run.rowout":       "run",
		"run.2024.01.rowout":     "run",
		"C.RowOut":               "C",
		"/tmp/dir.d/file.rowout": "file",
	}
	for in, want := range tests {
		if got := fileStem(in); got != want {
			t.Errorf("fileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

// ----------------------------------------------------------------------------
// Export Tests
// ----------------------------------------------------------------------------

func exportFixture() *table.Table {
	t := table.New([]table.Column{
		{Name: "name", Kind: table.KindString},
		{Name: "n", Kind: table.KindInt},
		{Name: "ok", Kind: table.KindBool},
	})
	_ = t.Append([]table.Value{table.String("a"), table.Int(1), table.Bool(true)})
	_ = t.Append([]table.Value{table.String("b"), table.Null, table.Bool(false)})
	return t
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, exportFixture()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "name,n,ok\na,1,True\nb,,False\n"
	if sb.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", sb.String(), want)
	}
}

func TestExportRoundTrip(t *testing.T) {
	for _, ext := range []string{".csv", ".xlsx"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := Export(path, exportFixture()); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			got, err := Read(path, Options{})
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if strings.Join(got.Names(), "|") != "name|n|ok" || got.Len() != 2 {
				t.Errorf("round trip = %v with %d rows", got.Names(), got.Len())
			}
			if !got.Rows[1][1].IsNull() {
				t.Errorf("missing cell = %v, want null", got.Rows[1][1])
			}
		})
	}
}

func TestExportUnsupported(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "out.parquet"), exportFixture())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Export() error = %v, want ErrUnsupportedFormat", err)
	}
}
