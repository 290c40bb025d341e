package core

import (
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

// NullPolicy decides what happens to missing cells before a table is shown
// or saved.
type NullPolicy string

const (
	// NullDrop removes every row holding at least one missing cell.
	NullDrop NullPolicy = "drop"
	// NullZero replaces missing cells with the zero value of their column.
	NullZero NullPolicy = "zero"
	// NullKeep leaves the table as it is.
	NullKeep NullPolicy = "keep"
)

// ParseNullPolicy maps a user choice to a policy. Unrecognized input keeps
// missing values.
func ParseNullPolicy(s string) NullPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "dropna", "remove":
		return NullDrop
	case "zero", "fill", "fillna", "0":
		return NullZero
	default:
		return NullKeep
	}
}

// ApplyNullPolicy returns a new table with the policy applied; the input is
// never modified. Under NullZero, Int columns get 0, Float columns 0.0,
// String columns "0", and Bool columns false; a column with no values at
// all becomes a Float column of 0.0.
func ApplyNullPolicy(t *table.Table, p NullPolicy) *table.Table {
	if t == nil {
		return nil
	}
	switch p {
	case NullDrop:
		return dropNullRows(t)
	case NullZero:
		return fillZero(t)
	default:
		return t.Clone()
	}
}

func dropNullRows(t *table.Table) *table.Table {
	out := table.New(t.Columns)
	out.Rows = make([][]table.Value, 0, t.Len())
	for _, row := range t.Rows {
		if hasNull(row) {
			continue
		}
		out.Rows = append(out.Rows, append([]table.Value(nil), row...))
	}
	return out
}

func hasNull(row []table.Value) bool {
	for _, v := range row {
		if v.IsNull() {
			return true
		}
	}
	return false
}

func fillZero(t *table.Table) *table.Table {
	out := t.Clone()
	zeros := make([]table.Value, len(out.Columns))
	for i, c := range out.Columns {
		switch c.Kind {
		case table.KindInt:
			zeros[i] = table.Int(0)
		case table.KindString:
			zeros[i] = table.String("0")
		case table.KindBool:
			zeros[i] = table.Bool(false)
		default:
			out.Columns[i].Kind = table.KindFloat
			zeros[i] = table.Float(0)
		}
	}
	for _, row := range out.Rows {
		for i, v := range row {
			if v.IsNull() {
				row[i] = zeros[i]
			}
		}
	}
	return out
}
