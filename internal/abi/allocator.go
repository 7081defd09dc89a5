package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// Allocator provides stable, non-moving storage for sequence elements.
// The returned slice aliases the memory at the returned pointer.
type Allocator interface {
	Alloc(n int) (unsafe.Pointer, []int64, error)
	Free(p unsafe.Pointer)
}

// HeapAllocator allocates on the Go heap. Each buffer is kept reachable in a
// map so the collector cannot reclaim it while the caller holds the raw
// pointer; Free drops the reference. The Go collector does not move heap
// objects, so the address stays valid until then.
type HeapAllocator struct {
	mu     sync.Mutex
	pinned map[unsafe.Pointer][]int64
}

// NewHeapAllocator returns an empty HeapAllocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{pinned: make(map[unsafe.Pointer][]int64)}
}

// Alloc reserves n int64 elements.
func (h *HeapAllocator) Alloc(n int) (unsafe.Pointer, []int64, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("abi: invalid allocation size %d", n)
	}
	buf := make([]int64, n)
	p := unsafe.Pointer(&buf[0])

	h.mu.Lock()
	h.pinned[p] = buf
	h.mu.Unlock()
	return p, buf, nil
}

// Free unpins the buffer at p. Unknown pointers are ignored.
func (h *HeapAllocator) Free(p unsafe.Pointer) {
	h.mu.Lock()
	delete(h.pinned, p)
	h.mu.Unlock()
}

// Pinned returns the number of buffers currently kept alive.
func (h *HeapAllocator) Pinned() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pinned)
}
