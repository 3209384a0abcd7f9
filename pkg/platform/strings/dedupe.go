// Package strings provides string slice helpers shared by request parsing
// and filter normalization.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value, drops empty ones and keeps the first
// occurrence of each remaining value, in order. The result is never nil.
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
