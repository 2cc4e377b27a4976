package engine

import (
	"strconv"
	"strings"
)

// DefaultSeed is used when no usable seed is supplied.
const DefaultSeed = 1

// ParseSeed reads a seed from a query parameter or environment value.
// Absent, malformed and zero values yield DefaultSeed. Negative values are made positive.
func ParseSeed(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultSeed
	}
	return NormalizeSeed(n)
}

// NormalizeSeed applies the seed rules of ParseSeed to an integer.
func NormalizeSeed(seed int) int {
	if seed < 0 {
		seed = -seed
	}
	if seed <= 0 {
		// Zero, or the negation of the smallest int overflowing.
		return DefaultSeed
	}
	return seed
}
