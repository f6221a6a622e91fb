// Package strings cleans free-text lists such as allergies before they are
// stored.
package strings

import (
	"strings"
)

// DedupeFold collapses runs of whitespace, drops blanks and removes
// case-insensitive duplicates, preserving first-seen order. The first
// spelling of each value is the one kept.
func DedupeFold(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.Join(strings.Fields(v), " ")
		if trimmed == "" {
			continue
		}
		k := strings.ToLower(trimmed)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
