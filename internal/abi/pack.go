// Package abi implements the ownership transfer protocol for values that
// cross the foreign boundary: sequence allocations handed to the caller,
// the ledger that tracks them until release, and the ptr/len packing used
// by the wasm exports.
package abi

import "fmt"

// PackPtrLen packs a 32-bit pointer and length into a single uint64, pointer
// in the high half. A null pointer with a non-zero length is never valid.
func PackPtrLen(ptr, length uint32) uint64 {
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: cannot pack null pointer with length %d", length))
	}
	return uint64(ptr)<<32 | uint64(length)
}

// UnpackPtrLen splits a value produced by PackPtrLen.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr, length = uint32(packed>>32), uint32(packed)
	if ptr == 0 && length > 0 {
		panic(fmt.Sprintf("abi: packed value 0x%x has null pointer with length %d", packed, length))
	}
	return ptr, length
}

// SplitPtrLen is UnpackPtrLen for values received from untrusted code: an
// invalid value is reported as an error instead of a panic.
func SplitPtrLen(packed uint64) (ptr, length uint32, err error) {
	ptr, length = uint32(packed>>32), uint32(packed)
	if ptr == 0 && length > 0 {
		return 0, 0, fmt.Errorf("abi: packed value 0x%x has null pointer with length %d", packed, length)
	}
	return ptr, length, nil
}
