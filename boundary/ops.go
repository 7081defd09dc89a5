package boundary

import (
	"github.com/reglet-dev/numext/domain/entities"
	"github.com/reglet-dev/numext/internal/abi"
	"github.com/reglet-dev/numext/mathlib"
)

// Reserved return values of the scalar exports.
const (
	FactorialNegative int64 = -1
	FactorialOverflow int64 = -2
	FactorialInvalid  int64 = -3
	PowerInvalid      int64 = -1
)

// FactorialSentinel maps a failed factorial to its reserved return value.
func FactorialSentinel(kind entities.ErrorKind) int64 {
	switch kind {
	case entities.NegativeNumber:
		return FactorialNegative
	case entities.Overflow:
		return FactorialOverflow
	default:
		return FactorialInvalid
	}
}

// Add returns the saturating sum of x and y.
func (b *Boundary) Add(x, y int64) int64 {
	return Guard(b, "add", 0, func() int64 {
		return mathlib.Add(x, y)
	})
}

// Multiply returns the float product of x and y.
func (b *Boundary) Multiply(x, y float64) float64 {
	return Guard(b, "multiply", 0, func() float64 {
		return mathlib.Multiply(x, y)
	})
}

// Factorial returns n!, or -1 for negative n and -2 when n! exceeds int64.
func (b *Boundary) Factorial(n int64) int64 {
	return Guard(b, "factorial", FactorialInvalid, func() int64 {
		r := mathlib.Factorial(n)
		if r.IsError() {
			b.logger.Debug("numext: factorial rejected", "n", n, "reason", r.Err.String())
			return FactorialSentinel(r.Err)
		}
		return r.Value
	})
}

// Fibonacci hands the first n Fibonacci numbers to the caller. n outside
// [0, MaxFibonacciTerms] yields the null sequence. A non-null result must be
// passed back to ReleaseFibonacci exactly once.
func (b *Boundary) Fibonacci(n int64) abi.Sequence {
	return Guard(b, "fibonacci", abi.Sequence{}, func() abi.Sequence {
		if n < 0 || n > MaxFibonacciTerms {
			b.logger.Debug("numext: fibonacci length out of range", "n", n, "max", MaxFibonacciTerms)
			return abi.Sequence{}
		}
		seq, err := b.ledger.Produce(mathlib.Fibonacci(n))
		if err != nil {
			b.misuse(err)
			return abi.Sequence{}
		}
		return seq
	})
}

// ReleaseFibonacci returns a sequence obtained from Fibonacci. The null
// sequence is accepted and ignored. Unknown pointers, repeated releases and
// length mismatches are handled according to the release policy.
func (b *Boundary) ReleaseFibonacci(seq abi.Sequence) {
	Guard(b, "free_fibonacci_result", struct{}{}, func() struct{} {
		if err := b.ledger.Release(seq); err != nil {
			b.misuse(err)
		}
		return struct{}{}
	})
}

// IsPrime reports whether n is prime.
func (b *Boundary) IsPrime(n int64) bool {
	return Guard(b, "is_prime", false, func() bool {
		return mathlib.IsPrime(n)
	})
}

// GCD returns the greatest common divisor of |x| and |y|.
func (b *Boundary) GCD(x, y int64) int64 {
	return Guard(b, "gcd", 0, func() int64 {
		return mathlib.GCD(x, y)
	})
}

// LCM returns the least common multiple of |x| and |y|, 0 if either is 0.
func (b *Boundary) LCM(x, y int64) int64 {
	return Guard(b, "lcm", 0, func() int64 {
		return mathlib.LCM(x, y)
	})
}

// Power returns base**exp, or -1 for a negative exponent.
func (b *Boundary) Power(base, exp int64) int64 {
	return Guard(b, "power", PowerInvalid, func() int64 {
		r := mathlib.Power(base, exp)
		if r.IsError() {
			b.logger.Debug("numext: power rejected", "base", base, "exp", exp, "reason", r.Err.String())
			return PowerInvalid
		}
		return r.Value
	})
}

// Subtract returns the saturating difference x - y.
func (b *Boundary) Subtract(x, y int64) int64 {
	return Guard(b, "subtract", 0, func() int64 { return mathlib.SubtractInt(x, y) })
}

// Divide returns x / y truncated toward zero, or 0 when y is 0.
func (b *Boundary) Divide(x, y int64) int64 {
	return Guard(b, "divide", 0, func() int64 { return mathlib.DivideInt(x, y) })
}

// Modulo returns x % y, or 0 when y is 0.
func (b *Boundary) Modulo(x, y int64) int64 {
	return Guard(b, "modulo", 0, func() int64 { return mathlib.ModuloInt(x, y) })
}

// Abs returns |x|, saturating MinInt64 to MaxInt64.
func (b *Boundary) Abs(x int64) int64 {
	return Guard(b, "abs", 0, func() int64 { return mathlib.AbsInt(x) })
}

// Min returns the smaller of x and y.
func (b *Boundary) Min(x, y int64) int64 {
	return Guard(b, "min", 0, func() int64 { return mathlib.MinInt(x, y) })
}

// Max returns the larger of x and y.
func (b *Boundary) Max(x, y int64) int64 {
	return Guard(b, "max", 0, func() int64 { return mathlib.MaxInt(x, y) })
}

// AddFloat returns the float sum of x and y.
func (b *Boundary) AddFloat(x, y float64) float64 {
	return Guard(b, "add_float", 0, func() float64 { return mathlib.AddFloat(x, y) })
}

// SubtractFloat returns the float difference x - y.
func (b *Boundary) SubtractFloat(x, y float64) float64 {
	return Guard(b, "subtract_float", 0, func() float64 { return mathlib.SubtractFloat(x, y) })
}

// DivideFloat returns x / y, or 0.0 when y is 0.0.
func (b *Boundary) DivideFloat(x, y float64) float64 {
	return Guard(b, "divide_float", 0, func() float64 { return mathlib.DivideFloat(x, y) })
}

// AbsFloat returns |x|.
func (b *Boundary) AbsFloat(x float64) float64 {
	return Guard(b, "abs_float", 0, func() float64 { return mathlib.AbsFloat(x) })
}

// MinFloat returns the smaller of x and y, ignoring a single NaN operand.
func (b *Boundary) MinFloat(x, y float64) float64 {
	return Guard(b, "min_float", 0, func() float64 { return mathlib.MinFloat(x, y) })
}

// MaxFloat returns the larger of x and y, ignoring a single NaN operand.
func (b *Boundary) MaxFloat(x, y float64) float64 {
	return Guard(b, "max_float", 0, func() float64 { return mathlib.MaxFloat(x, y) })
}
