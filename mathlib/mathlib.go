// Package mathlib implements the pure arithmetic functions exported by the
// extension.
//
// Every function is deterministic, allocation-free except for Fibonacci, and
// never panics: integer overflow saturates and division by zero yields zero.
// Input range checks that only matter at the foreign boundary (for example
// the Fibonacci term limit) live in package boundary, not here.
package mathlib

import (
	"math"
	"math/bits"

	"github.com/reglet-dev/numext/domain/entities"
)

// MaxFactorialInput is the largest n whose factorial fits in an int64.
const MaxFactorialInput = 20

// Add returns the saturating sum of a and b.
func Add(a, b int64) int64 {
	return SaturatingAdd(a, b)
}

// Multiply returns the float product of a and b. Floats overflow to ±Inf.
func Multiply(a, b float64) float64 {
	return a * b
}

// MultiplyInt returns the saturating product of a and b.
func MultiplyInt(a, b int64) int64 {
	return SaturatingMul(a, b)
}

// Factorial computes n! iteratively for 0 <= n <= MaxFactorialInput.
func Factorial(n int64) entities.Result[int64] {
	if n < 0 {
		return entities.Fail[int64](entities.NegativeNumber, -1)
	}
	if n > MaxFactorialInput {
		return entities.Fail[int64](entities.Overflow, -2)
	}

	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result = SaturatingMul(result, i)
	}
	return entities.Ok(result)
}

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, 5, ...
// Terms past the int64 range saturate at MaxInt64.
func Fibonacci(n int64) []int64 {
	if n <= 0 {
		return []int64{}
	}

	seq := make([]int64, 0, n)
	seq = append(seq, 0)
	if n == 1 {
		return seq
	}
	seq = append(seq, 1)
	for i := int64(2); i < n; i++ {
		seq = append(seq, SaturatingAdd(seq[i-1], seq[i-2]))
	}
	return seq
}

// IsPrime reports whether n is prime using trial division up to floor(sqrt(n)).
func IsPrime(n int64) bool {
	if n == 2 {
		return true
	}
	if n < 2 || n%2 == 0 {
		return false
	}

	limit := SqrtInt(n)
	for i := int64(3); i <= limit; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// maxSqrt is floor(sqrt(MaxInt64)); (maxSqrt+1)^2 overflows int64.
const maxSqrt = 3037000499

// SqrtInt returns floor(sqrt(n)) for n > 0 and 0 otherwise.
//
// The float64 estimate can be off by one in either direction for large n,
// so it is corrected until r*r <= n < (r+1)*(r+1) holds exactly.
func SqrtInt(n int64) int64 {
	if n <= 0 {
		return 0
	}

	r := int64(math.Sqrt(float64(n)))
	if r > maxSqrt {
		r = maxSqrt
	}
	for r*r > n {
		r--
	}
	for r < maxSqrt && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// GCD returns the greatest common divisor of |a| and |b|.
// GCD(0, b) is |b|. The only result outside int64, 2^63, saturates.
func GCD(a, b int64) int64 {
	return clampMagnitude(gcdMagnitude(magnitude(a), magnitude(b)))
}

// LCM returns the least common multiple of |a| and |b|, or 0 when either is 0.
// Results beyond the int64 range saturate.
func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	ma, mb := magnitude(a), magnitude(b)
	hi, lo := bits.Mul64(ma/gcdMagnitude(ma, mb), mb)
	if hi != 0 {
		return math.MaxInt64
	}
	return clampMagnitude(lo)
}

// magnitude returns |n| exactly, including for MinInt64.
func magnitude(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func gcdMagnitude(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func clampMagnitude(m uint64) int64 {
	if m > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(m)
}

// Power computes base^exponent by square-and-multiply with saturation at
// every step.
func Power(base, exponent int64) entities.Result[int64] {
	if exponent < 0 {
		return entities.Fail[int64](entities.InvalidParameter, 0)
	}
	if exponent == 0 {
		return entities.Ok[int64](1)
	}

	result := int64(1)
	for exponent > 0 {
		if exponent%2 == 1 {
			result = SaturatingMul(result, base)
		}
		exponent /= 2
		if exponent > 0 {
			base = SaturatingMul(base, base)
		}
	}
	return entities.Ok(result)
}
