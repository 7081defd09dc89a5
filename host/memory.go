package host

import (
	"encoding/binary"
	"fmt"
	"math"
)

// memoryReader is the subset of api.Memory used to copy results out of the
// guest.
type memoryReader interface {
	Read(offset, byteCount uint32) ([]byte, bool)
}

// readBytes copies length bytes at ptr out of guest memory.
func readBytes(mem memoryReader, ptr, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	view, ok := mem.Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("read of %d bytes at 0x%x is out of range", length, ptr)
	}
	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

// readSequence copies count little-endian int64 values at ptr out of guest
// memory.
func readSequence(mem memoryReader, ptr, count uint32) ([]int64, error) {
	if count == 0 {
		return nil, nil
	}
	if uint64(count)*8 > math.MaxUint32 {
		return nil, fmt.Errorf("sequence of %d elements exceeds linear memory", count)
	}
	view, ok := mem.Read(ptr, count*8)
	if !ok {
		return nil, fmt.Errorf("read of %d elements at 0x%x is out of range", count, ptr)
	}
	out := make([]int64, count)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(view[i*8:]))
	}
	return out, nil
}
