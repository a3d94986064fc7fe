package utils

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// GenerateSlug converts a string into a URL-friendly slug.
// e.g. "No-Code Tools!" -> "no-code-tools"
func GenerateSlug(input string) string {
	return slug.Make(strings.TrimSpace(input))
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// ParseID parses a positive numeric identifier from a path segment.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
