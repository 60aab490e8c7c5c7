package query

import "strings"

// SortKey is one ordering term.
type SortKey struct {
	Field string
	Desc  bool
}

// DefaultSort orders newest first.
var DefaultSort = []SortKey{{Field: "createdAt", Desc: true}}

// ApplySort parses "-price,ratingsAverage" into ordered sort keys. An empty
// value yields DefaultSort.
func ApplySort(raw string) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")
		if part == "" {
			continue
		}
		keys = append(keys, SortKey{Field: part, Desc: desc})
	}
	if len(keys) == 0 {
		return append([]SortKey(nil), DefaultSort...)
	}
	return keys
}
