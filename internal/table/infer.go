package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var intRegex = regexp.MustCompile(`^[+-]?\d+$`)

// naTokens are the cell texts read as missing values.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw cell should be read as Null.
func IsNA(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// Infer builds a table from raw text cells, choosing one kind per column:
// all missing is Null, all integers is Int, all numeric is Float, all
// true/false is Bool, anything else is String with the text kept as is.
// Every row must have len(names) cells.
func Infer(names []string, rows [][]string) (*Table, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Kind: inferKind(rows, i)}
	}

	t := New(cols)
	t.Rows = make([][]Value, 0, len(rows))
	for r, raw := range rows {
		if len(raw) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, r, len(raw), len(cols))
		}
		row := make([]Value, len(cols))
		for i, s := range raw {
			row[i] = parseAs(s, cols[i].Kind)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func inferKind(rows [][]string, col int) Kind {
	kind := KindNull
	for _, row := range rows {
		if col >= len(row) || IsNA(row[col]) {
			continue
		}
		k := cellKind(row[col])
		next, ok := Unify(kind, k)
		if !ok {
			return KindString
		}
		kind = next
	}
	return kind
}

func cellKind(s string) Kind {
	t := strings.TrimSpace(s)
	switch {
	case intRegex.MatchString(t):
		if _, err := strconv.ParseInt(t, 10, 64); err != nil {
			return KindFloat
		}
		return KindInt
	case numericRegex.MatchString(t):
		if _, err := strconv.ParseFloat(t, 64); err != nil {
			return KindString
		}
		return KindFloat
	case strings.EqualFold(t, "true") || strings.EqualFold(t, "false"):
		return KindBool
	default:
		return KindString
	}
}

func parseAs(s string, k Kind) Value {
	if IsNA(s) {
		return Null
	}
	t := strings.TrimSpace(s)
	switch k {
	case KindInt:
		i, _ := strconv.ParseInt(t, 10, 64)
		return Int(i)
	case KindFloat:
		f, _ := strconv.ParseFloat(t, 64)
		return Float(f)
	case KindBool:
		return Bool(strings.EqualFold(t, "true"))
	case KindString:
		return String(s)
	}
	return Null
}
