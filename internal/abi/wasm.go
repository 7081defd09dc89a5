//go:build wasip1

package abi

import (
	"sync"
	"unsafe"
)

// buffers pins byte buffers handed to the host (describe output, log
// records) until the host or the guest deallocates them.
var buffers = struct {
	sync.Mutex
	pinned map[uint32][]byte
}{pinned: make(map[uint32][]byte)}

// allocate reserves size bytes in linear memory for the host to read or write.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}
	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))

	buffers.Lock()
	buffers.pinned[ptr] = buf
	buffers.Unlock()
	return ptr
}

// deallocate unpins a buffer obtained from allocate or PtrFromBytes.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, size uint32) {
	buffers.Lock()
	delete(buffers.pinned, ptr)
	buffers.Unlock()
}

// FreeAllTracked drops every pinned byte buffer. Called after a recovered
// panic, when buffers mid-flight can no longer be handed over.
// Sequence allocations are tracked by the Ledger and are not touched.
func FreeAllTracked() {
	buffers.Lock()
	clear(buffers.pinned)
	buffers.Unlock()
}

// TrackedBuffers returns the number of pinned byte buffers.
func TrackedBuffers() int {
	buffers.Lock()
	defer buffers.Unlock()
	return len(buffers.pinned)
}

// PtrFromBytes copies data into a pinned buffer and returns it packed.
// The receiver owns the buffer and frees it with deallocate.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data))
	ptr := allocate(size)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size), data)
	return PackPtrLen(ptr, size)
}

// BytesFromPtr returns a copy of the bytes described by packed.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	out := make([]byte, length)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length))
	return out
}

// DeallocatePacked frees the buffer described by packed.
func DeallocatePacked(packed uint64) {
	ptr, length := UnpackPtrLen(packed)
	if ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}

// PackSequence encodes a sequence as ptr<<32 | element count.
func PackSequence(seq Sequence) uint64 {
	if seq.IsNull() {
		return 0
	}
	return PackPtrLen(uint32(uintptr(seq.Data)), uint32(seq.Len))
}

// SequenceAt rebuilds the sequence descriptor the host passed back on release.
func SequenceAt(ptr, length uint32) Sequence {
	if ptr == 0 || length == 0 {
		return Sequence{}
	}
	return Sequence{Data: unsafe.Pointer(uintptr(ptr)), Len: int(length)}
}
