package random

// Source is a 32-bit seeded generator. Two sources created from the same seed produce the same sequence forever.
//
// The mixing function is mulberry32: an additive Weyl step of 0x6D2B79F5 followed by two rounds of
// xor-shift combined with self-multiplication. All arithmetic wraps at 32 bits.
//
// Source is not safe for concurrent use.
type Source struct {
	state uint32
}

// NewSource returns a Source seeded with seed. Only the low 32 bits of seed are used.
func NewSource(seed int) *Source {
	return &Source{state: uint32(seed)} //nolint:gosec // truncation to 32 bits is the intended seeding.
}

// Float64 returns the next value in [0, 1).
func (s *Source) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0 //nolint:mnd // 2^32
}

// Pick draws a uniformly distributed element of items by scaling the next value of s into an index.
// It returns the zero value for an empty slice without advancing s.
func Pick[T any](s *Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	idx := int(s.Float64() * float64(len(items)))
	if idx >= len(items) {
		idx = len(items) - 1
	}
	return items[idx]
}
