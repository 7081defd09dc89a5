package mathlib

import "math"

// Division and modulo by zero return zero by policy; callers relying on the
// C ABI depend on this exact behaviour.

// SubtractInt returns the saturating difference a-b.
func SubtractInt(a, b int64) int64 {
	return SaturatingSub(a, b)
}

// DivideInt returns a/b truncated toward zero, 0 when b is 0.
// MinInt64 / -1 saturates to MaxInt64.
func DivideInt(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	if a == math.MinInt64 && b == -1 {
		return math.MaxInt64
	}
	return a / b
}

// ModuloInt returns a%b with the sign of a, 0 when b is 0.
func ModuloInt(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return a % b
}

// AbsInt returns |n|; MinInt64 saturates to MaxInt64.
func AbsInt(n int64) int64 {
	return saturatingAbs(n)
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int64) int64 {
	return min(a, b)
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int64) int64 {
	return max(a, b)
}

// AddFloat returns the IEEE-754 sum a+b.
func AddFloat(a, b float64) float64 {
	return a + b
}

// SubtractFloat returns the IEEE-754 difference a-b.
func SubtractFloat(a, b float64) float64 {
	return a - b
}

// MultiplyFloat returns the IEEE-754 product a*b.
func MultiplyFloat(a, b float64) float64 {
	return a * b
}

// DivideFloat returns a/b, 0.0 when b is zero (either sign).
func DivideFloat(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// AbsFloat returns |n|. NaN stays NaN.
func AbsFloat(n float64) float64 {
	return math.Abs(n)
}

// MinFloat returns the smaller of a and b. If one operand is NaN the other
// is returned.
func MinFloat(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}

// MaxFloat returns the larger of a and b. If one operand is NaN the other
// is returned.
func MaxFloat(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}

// IsEven reports whether n is divisible by two.
func IsEven(n int64) bool {
	return n%2 == 0
}

// IsOdd reports whether n is not divisible by two.
func IsOdd(n int64) bool {
	return n%2 != 0
}

// InRange reports whether lo <= n <= hi.
func InRange(n, lo, hi int64) bool {
	return n >= lo && n <= hi
}
