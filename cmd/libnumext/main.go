// Command libnumext is the numext shared library. Build it with
//
//	go build -buildmode=c-shared -o libnumext.so ./cmd/libnumext
//
// which also writes libnumext.h declaring every exported symbol.
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	int64_t *numbers;
	int32_t length;
} numext_sequence;
*/
import "C"

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/reglet-dev/numext/boundary"
	"github.com/reglet-dev/numext/config"
	"github.com/reglet-dev/numext/internal/abi"
	numextlog "github.com/reglet-dev/numext/log"
)

var (
	libOnce sync.Once
	lib     *boundary.Boundary
)

// library builds the boundary on first use. Configuration comes from the
// file named by NUMEXT_CONFIG; an invalid file falls back to defaults.
func library() *boundary.Boundary {
	libOnce.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			cfg = config.Default()
		}
		logger := numextlog.Setup(cfg.SlogLevel(), os.Stderr)
		if err != nil {
			logger.Error("numext: ignoring invalid configuration", "error", err)
		}
		lib = boundary.New(abi.NewLedger(abi.CAllocator{}),
			boundary.WithConfig(cfg),
			boundary.WithLogger(logger),
			boundary.WithFatalHandler(abort),
		)
	})
	return lib
}

func abort(err error) {
	fmt.Fprintf(os.Stderr, "numext: fatal: %v\n", err)
	C.abort()
}

//export numext_add
func numext_add(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Add(int64(a), int64(b)))
}

//export numext_multiply
func numext_multiply(a, b C.double) C.double {
	return C.double(library().Multiply(float64(a), float64(b)))
}

//export numext_factorial
func numext_factorial(n C.int64_t) C.int64_t {
	return C.int64_t(library().Factorial(int64(n)))
}

//export numext_fibonacci
func numext_fibonacci(n C.int64_t) C.numext_sequence {
	seq := library().Fibonacci(int64(n))
	return C.numext_sequence{
		numbers: (*C.int64_t)(seq.Data),
		length:  C.int32_t(seq.Len),
	}
}

//export numext_free_fibonacci_result
func numext_free_fibonacci_result(seq C.numext_sequence) {
	library().ReleaseFibonacci(abi.Sequence{
		Data: unsafe.Pointer(seq.numbers),
		Len:  int(seq.length),
	})
}

//export numext_is_prime
func numext_is_prime(n C.int64_t) C.bool {
	return C.bool(library().IsPrime(int64(n)))
}

//export numext_gcd
func numext_gcd(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().GCD(int64(a), int64(b)))
}

//export numext_lcm
func numext_lcm(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().LCM(int64(a), int64(b)))
}

//export numext_power
func numext_power(base, exp C.int64_t) C.int64_t {
	return C.int64_t(library().Power(int64(base), int64(exp)))
}

//export numext_subtract
func numext_subtract(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Subtract(int64(a), int64(b)))
}

//export numext_divide
func numext_divide(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Divide(int64(a), int64(b)))
}

//export numext_modulo
func numext_modulo(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Modulo(int64(a), int64(b)))
}

//export numext_min
func numext_min(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Min(int64(a), int64(b)))
}

//export numext_max
func numext_max(a, b C.int64_t) C.int64_t {
	return C.int64_t(library().Max(int64(a), int64(b)))
}

//export numext_abs
func numext_abs(n C.int64_t) C.int64_t {
	return C.int64_t(library().Abs(int64(n)))
}

//export numext_add_float
func numext_add_float(a, b C.double) C.double {
	return C.double(library().AddFloat(float64(a), float64(b)))
}

//export numext_subtract_float
func numext_subtract_float(a, b C.double) C.double {
	return C.double(library().SubtractFloat(float64(a), float64(b)))
}

//export numext_divide_float
func numext_divide_float(a, b C.double) C.double {
	return C.double(library().DivideFloat(float64(a), float64(b)))
}

//export numext_min_float
func numext_min_float(a, b C.double) C.double {
	return C.double(library().MinFloat(float64(a), float64(b)))
}

//export numext_max_float
func numext_max_float(a, b C.double) C.double {
	return C.double(library().MaxFloat(float64(a), float64(b)))
}

//export numext_abs_float
func numext_abs_float(n C.double) C.double {
	return C.double(library().AbsFloat(float64(n)))
}

// numext_describe returns the manifest as a NUL-terminated JSON string, or
// NULL on failure. Release it with numext_free_string.
//
//export numext_describe
func numext_describe() *C.char {
	data := library().Describe()
	if data == nil {
		return nil
	}
	return C.CString(string(data))
}

//export numext_free_string
func numext_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

//export numext_outstanding
func numext_outstanding() C.int64_t {
	return C.int64_t(library().Outstanding())
}

func main() {}
