package utils

import (
	"math"
	"strings"
	"unicode"
)

// Normalize trims, lowercases and collapses internal whitespace runs to
// single hyphens, producing a token safe to embed in grouping keys.
// Blank input normalizes to the empty string.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, "-")
}

// Round2 rounds to 2 decimal places
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Clamp bounds v to the [lo, hi] range
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
