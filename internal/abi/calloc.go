//go:build cgo

package abi

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// CAllocator allocates sequence storage on the C heap with malloc, so the
// memory outlives any Go stack frame and may be handed to C callers freely.
type CAllocator struct{}

// Alloc reserves n int64 elements with malloc.
func (CAllocator) Alloc(n int) (unsafe.Pointer, []int64, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("abi: invalid allocation size %d", n)
	}
	p := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(int64(0))))
	if p == nil {
		return nil, nil, errors.New("abi: malloc returned NULL")
	}
	return p, unsafe.Slice((*int64)(p), n), nil
}

// Free releases memory obtained from Alloc.
func (CAllocator) Free(p unsafe.Pointer) {
	C.free(p)
}
