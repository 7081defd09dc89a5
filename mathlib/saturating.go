package mathlib

import "math"

// SaturatingAdd returns a+b clamped to [MinInt64, MaxInt64].
func SaturatingAdd(a, b int64) int64 {
	s := a + b
	// Overflow happened iff both operands share a sign the sum does not.
	if (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0) {
		if a >= 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

// SaturatingSub returns a-b clamped to [MinInt64, MaxInt64].
func SaturatingSub(a, b int64) int64 {
	s := a - b
	if (a >= 0) != (b >= 0) && (s >= 0) != (a >= 0) {
		if a >= 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return s
}

// SaturatingMul returns a*b clamped to [MinInt64, MaxInt64].
func SaturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64) {
		return p
	}
	if (a < 0) == (b < 0) {
		return math.MaxInt64
	}
	return math.MinInt64
}

// saturatingAbs returns |n|, mapping MinInt64 to MaxInt64.
func saturatingAbs(n int64) int64 {
	if n == math.MinInt64 {
		return math.MaxInt64
	}
	if n < 0 {
		return -n
	}
	return n
}
