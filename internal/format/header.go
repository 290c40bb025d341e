package format

import (
	"fmt"
	"strconv"
)

// normalizeHeader names blank columns "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... so every column name is unique.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = base + "." + strconv.Itoa(n)
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
