package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

// nullText is how a missing cell is shown.
const nullText = "NaN"

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderTable prints t as aligned columns with an index column on the left.
func renderTable(w io.Writer, t *table.Table) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "\t%s\n", strings.Join(t.Names(), "\t"))
	cells := make([]string, t.Width())
	for i, row := range t.Rows {
		for j, v := range row {
			if v.IsNull() {
				cells[j] = nullText
			} else {
				cells[j] = v.String()
			}
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// renderSchema prints each column with its kind and missing-cell count.
func renderSchema(w io.Writer, t *table.Table) error {
	nulls := make([]int, t.Width())
	for _, row := range t.Rows {
		for j, v := range row {
			if v.IsNull() {
				nulls[j]++
			}
		}
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "COLUMN\tKIND\tNULLS")
	for j, c := range t.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, c.Kind, nulls[j])
	}
	return tw.Flush()
}
