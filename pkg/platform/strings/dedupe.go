// Package strings provides string-keyed collection utilities.
package strings

import (
	"strings"
)

// DedupeByKey collapses values sharing a key after trimming whitespace. The
// surviving value is the last one seen for the key, kept at the position of
// the first. Values whose trimmed key is empty are dropped.
//
// Example:
//
//	DedupeByKey([]row{{"a", 1}, {"b", 2}, {" a", 3}}, func(r row) string { return r.name })
//	// Returns: []row{{" a", 3}, {"b", 2}}
func DedupeByKey[T any](values []T, key func(T) string) []T {
	if len(values) == 0 {
		return values
	}

	index := make(map[string]int, len(values))
	result := make([]T, 0, len(values))

	for _, v := range values {
		k := strings.TrimSpace(key(v))
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			result[i] = v
			continue
		}
		index[k] = len(result)
		result = append(result, v)
	}

	return result
}
