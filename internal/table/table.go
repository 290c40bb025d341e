// Package table holds the in-memory tabular model shared by the readers, the
// merge and null-policy steps, and the stores.
//
// A Table is an ordered list of named, typed columns plus rows of cells. Every
// row has exactly one cell per column and every non-null cell matches its
// column's kind. Readers build tables through [Infer]; everything else copies.
package table

import (
	"errors"
	"fmt"
)

var (
	ErrRowWidth     = errors.New("row width does not match column count")
	ErrKindMismatch = errors.New("value kind does not match column kind")
)

type Column struct {
	Name string
	Kind Kind
}

type Table struct {
	Columns []Column
	Rows    [][]Value
}

// New returns an empty table with a private copy of cols.
func New(cols []Column) *Table {
	return &Table{Columns: append([]Column(nil), cols...)}
}

func (t *Table) Width() int { return len(t.Columns) }
func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row, widening ints in float columns. The row slice is copied.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: got %d values, want %d", ErrRowWidth, len(row), len(t.Columns))
	}
	out := make([]Value, len(row))
	for i, v := range row {
		w, ok := v.Widen(t.Columns[i].Kind)
		if !ok {
			return fmt.Errorf("%w: column %q is %s, got %s", ErrKindMismatch, t.Columns[i].Name, t.Columns[i].Kind, v.Kind())
		}
		out[i] = w
	}
	t.Rows = append(t.Rows, out)
	return nil
}

// InsertColumn puts a new column at position at and fills every existing row
// with fill.
func (t *Table) InsertColumn(at int, col Column, fill Value) error {
	if at < 0 || at > len(t.Columns) {
		return fmt.Errorf("insert column %q: position %d out of range", col.Name, at)
	}
	fill, ok := fill.Widen(col.Kind)
	if !ok {
		return fmt.Errorf("%w: column %q is %s, got %s", ErrKindMismatch, col.Name, col.Kind, fill.Kind())
	}
	t.Columns = append(t.Columns[:at:at], append([]Column{col}, t.Columns[at:]...)...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:at:at], append([]Value{fill}, row[at:]...)...)
	}
	return nil
}

// DropColumn removes the column at position i.
func (t *Table) DropColumn(i int) {
	t.Columns = append(t.Columns[:i:i], t.Columns[i+1:]...)
	for r, row := range t.Rows {
		t.Rows[r] = append(row[:i:i], row[i+1:]...)
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Head returns a copy of the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := New(t.Columns)
	out.Rows = make([][]Value, n)
	for i := range n {
		out.Rows[i] = append([]Value(nil), t.Rows[i]...)
	}
	return out
}

// NullCount returns the number of null cells.
func (t *Table) NullCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if v.IsNull() {
				n++
			}
		}
	}
	return n
}

// Validate checks row widths and cell kinds against the columns.
func (t *Table) Validate() error {
	for r, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, r, len(row), len(t.Columns))
		}
		for i, v := range row {
			if !v.IsNull() && v.Kind() != t.Columns[i].Kind {
				return fmt.Errorf("%w: row %d column %q is %s, got %s", ErrKindMismatch, r, t.Columns[i].Name, t.Columns[i].Kind, v.Kind())
			}
		}
	}
	return nil
}

// Equal reports whether two tables have the same columns and cells.
func Equal(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Columns) != len(b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return false
		}
	}
	for r := range a.Rows {
		if len(a.Rows[r]) != len(b.Rows[r]) {
			return false
		}
		for i := range a.Rows[r] {
			if !a.Rows[r][i].Equal(b.Rows[r][i]) {
				return false
			}
		}
	}
	return true
}
