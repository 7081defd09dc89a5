package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackPtrLen(t *testing.T) {
	ptr := uint32(0x12345678)
	length := uint32(0xABCDEF00)

	packed := PackPtrLen(ptr, length)
	assert.Equal(t, uint64(0x12345678ABCDEF00), packed)

	p, l := UnpackPtrLen(packed)
	assert.Equal(t, ptr, p)
	assert.Equal(t, length, l)
}

func TestPackPtrLen_Null(t *testing.T) {
	assert.Equal(t, uint64(0), PackPtrLen(0, 0))
	p, l := UnpackPtrLen(0)
	assert.Zero(t, p)
	assert.Zero(t, l)
}

func TestPackPtrLen_PanicsOnNullWithLength(t *testing.T) {
	assert.Panics(t, func() { PackPtrLen(0, 100) })
	assert.Panics(t, func() { UnpackPtrLen(uint64(1)) })
}

func TestSplitPtrLen(t *testing.T) {
	p, l, err := SplitPtrLen(PackPtrLen(64, 10))
	assert.NoError(t, err)
	assert.Equal(t, uint32(64), p)
	assert.Equal(t, uint32(10), l)

	_, _, err = SplitPtrLen(uint64(7))
	assert.Error(t, err)
}
