package collection

import (
	"slices"
	"strings"
)

// Filter keeps the records where any search field contains query, preserving order.
// A blank query returns a copy of every record. The result never aliases records.
func Filter[T any](records []T, query string, fields []SearchField[T]) []T {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(records)
	}
	lower := strings.ToLower(query)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, f := range fields {
			value := f.Value(rec)
			if f.CaseSensitive {
				if strings.Contains(value, query) {
					out = append(out, rec)
					break
				}
				continue
			}
			if strings.Contains(strings.ToLower(value), lower) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
