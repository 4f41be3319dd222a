package engine

import (
	"path/filepath"
	"strings"
)

// Excluded reports whether a folder name matches any exclude pattern.
func Excluded(name string, patterns []string) bool {
	return matchesAnyPattern(patterns, name)
}

func matchesAnyPattern(patterns []string, name string) bool {
	for _, p := range patterns {
		if matchPattern(p, name) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, name string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	// Patterns name folders directly under the scan directory.
	pattern = strings.TrimSuffix(pattern, "/")
	matched, _ := filepath.Match(pattern, name)
	return matched
}
