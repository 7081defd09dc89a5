//go:build wasip1

// Command numext-wasm is the numext WebAssembly reactor module. Build it with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o numext.wasm ./cmd/numext-wasm
//
// Sequences are returned packed as ptr<<32 | length and must be passed back
// to numext_free_fibonacci_result.
package main

import (
	"os"

	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/internal/abi"
	numextlog "github.com/reglet-dev/numext/log"
)

var lib *boundary.Boundary

func init() {
	cfg, err := config.FromEnv()
	if err != nil {
		cfg = config.Default()
	}
	logger := numextlog.InstallHostHandler(cfg.SlogLevel())
	if err != nil {
		logger.Error("numext: ignoring invalid configuration", "error", err)
	}
	lib = boundary.New(abi.NewLedger(abi.NewHeapAllocator()),
		boundary.WithConfig(cfg),
		boundary.WithLogger(logger),
		boundary.WithPanicHook(abi.FreeAllTracked),
		boundary.WithFatalHandler(func(error) { os.Exit(boundary.AbortExitCode) }),
	)
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

//go:wasmexport numext_add
func numextAdd(a, b int64) int64 { return lib.Add(a, b) }

//go:wasmexport numext_multiply
func numextMultiply(a, b float64) float64 { return lib.Multiply(a, b) }

//go:wasmexport numext_factorial
func numextFactorial(n int64) int64 { return lib.Factorial(n) }

//go:wasmexport numext_fibonacci
func numextFibonacci(n int64) uint64 {
	return abi.PackSequence(lib.Fibonacci(n))
}

//go:wasmexport numext_free_fibonacci_result
func numextFreeFibonacciResult(ptr, length uint32) {
	lib.ReleaseFibonacci(abi.SequenceAt(ptr, length))
}

//go:wasmexport numext_is_prime
func numextIsPrime(n int64) int32 { return boolToI32(lib.IsPrime(n)) }

//go:wasmexport numext_gcd
func numextGCD(a, b int64) int64 { return lib.GCD(a, b) }

//go:wasmexport numext_lcm
func numextLCM(a, b int64) int64 { return lib.LCM(a, b) }

//go:wasmexport numext_power
func numextPower(base, exp int64) int64 { return lib.Power(base, exp) }

//go:wasmexport numext_subtract
func numextSubtract(a, b int64) int64 { return lib.Subtract(a, b) }

//go:wasmexport numext_divide
func numextDivide(a, b int64) int64 { return lib.Divide(a, b) }

//go:wasmexport numext_modulo
func numextModulo(a, b int64) int64 { return lib.Modulo(a, b) }

//go:wasmexport numext_min
func numextMin(a, b int64) int64 { return lib.Min(a, b) }

//go:wasmexport numext_max
func numextMax(a, b int64) int64 { return lib.Max(a, b) }

//go:wasmexport numext_abs
func numextAbs(n int64) int64 { return lib.Abs(n) }

//go:wasmexport numext_add_float
func numextAddFloat(a, b float64) float64 { return lib.AddFloat(a, b) }

//go:wasmexport numext_subtract_float
func numextSubtractFloat(a, b float64) float64 { return lib.SubtractFloat(a, b) }

//go:wasmexport numext_divide_float
func numextDivideFloat(a, b float64) float64 { return lib.DivideFloat(a, b) }

//go:wasmexport numext_min_float
func numextMinFloat(a, b float64) float64 { return lib.MinFloat(a, b) }

//go:wasmexport numext_max_float
func numextMaxFloat(a, b float64) float64 { return lib.MaxFloat(a, b) }

//go:wasmexport numext_abs_float
func numextAbsFloat(n float64) float64 { return lib.AbsFloat(n) }

// numextDescribe returns the manifest JSON packed as ptr<<32 | length. The
// host frees it with deallocate.
//
//go:wasmexport numext_describe
func numextDescribe() uint64 {
	return abi.PtrFromBytes(lib.Describe())
}

//go:wasmexport numext_outstanding
func numextOutstanding() int64 { return int64(lib.Outstanding()) }

func main() {}
