package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

// Concat stacks tables row-wise into a new table.
//
// Columns are matched by name and appear in order of first appearance;
// cells a table has no column for are Null. A column shared by tables whose
// kinds cannot be unified is a collision. On collision every column of the
// i-th table is renamed to "<name>_<i>" and the stack is retried once, which
// always succeeds because the suffixed names are unique across tables.
func Concat(tables []*table.Table) (*table.Table, error) {
	out, _, err := concat(tables)
	return out, err
}

// concat is Concat that also reports whether the rename fallback was used.
func concat(tables []*table.Table) (*table.Table, bool, error) {
	out, err := stack(tables)
	if err == nil {
		return out, false, nil
	}
	if !errors.Is(err, ErrColumnCollision) {
		return nil, false, err
	}

	out, err = stack(suffixColumns(tables))
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

func stack(tables []*table.Table) (*table.Table, error) {
	var cols []table.Column
	index := make(map[string]int)
	rows := 0

	for ti, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("table %d: %w", ti, err)
		}
		rows += t.Len()
		for _, c := range t.Columns {
			j, seen := index[c.Name]
			if !seen {
				index[c.Name] = len(cols)
				cols = append(cols, c)
				continue
			}
			k, ok := table.Unify(cols[j].Kind, c.Kind)
			if !ok {
				return nil, &CollisionError{Column: c.Name, Kinds: [2]table.Kind{cols[j].Kind, c.Kind}, Table: ti}
			}
			cols[j].Kind = k
		}
	}

	out := table.New(cols)
	out.Rows = make([][]table.Value, 0, rows)
	for _, t := range tables {
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = index[c.Name]
		}
		for _, src := range t.Rows {
			row := make([]table.Value, len(cols))
			for i, v := range src {
				row[pos[i]] = v
			}
			if err := out.Append(row); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// suffixColumns returns views of the tables with every column of table i
// renamed to "<name>_<i>". Rows are shared with the inputs.
func suffixColumns(tables []*table.Table) []*table.Table {
	out := make([]*table.Table, len(tables))
	for i, t := range tables {
		cols := make([]table.Column, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = table.Column{Name: fmt.Sprintf("%s_%d", c.Name, i), Kind: c.Kind}
		}
		out[i] = &table.Table{Columns: cols, Rows: t.Rows}
	}
	return out
}
