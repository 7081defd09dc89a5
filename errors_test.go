package numext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/numext/domain/entities"
)

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode string
	}{
		{
			name:     "compute",
			err:      &ComputeError{Op: "factorial", Kind: entities.Overflow, Input: []int64{25}},
			wantType: "compute",
			wantCode: "overflow",
		},
		{
			name:     "ownership wrapped",
			err:      fmt.Errorf("release: %w", &OwnershipError{Op: "release", Kind: LengthMismatch, Ptr: 0x10, Length: 3, Expected: 5}),
			wantType: "ownership",
			wantCode: "length_mismatch",
		},
		{
			name:     "config",
			err:      &ConfigError{Field: "release_policy", Err: errors.New("bad value")},
			wantType: "config",
			wantCode: "release_policy",
		},
		{
			name:     "module",
			err:      &ModuleError{Phase: PhaseCall, Export: "numext_add", Err: errors.New("trap")},
			wantType: "module",
			wantCode: "call",
		},
		{
			name:     "internal",
			err:      errors.New("boom"),
			wantType: "internal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ToErrorDetail(tt.err)
			require.NotNil(t, d)
			assert.Equal(t, tt.wantType, d.Type)
			assert.Equal(t, tt.wantCode, d.Code)
			assert.NotEmpty(t, d.Message)
		})
	}
	assert.Nil(t, ToErrorDetail(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "factorial[25]: overflow",
		(&ComputeError{Op: "factorial", Kind: entities.Overflow, Input: []int64{25}}).Error())
	assert.Equal(t, "release 0x10: length 3 does not match allocation length 5",
		(&OwnershipError{Op: "release", Kind: LengthMismatch, Ptr: 0x10, Length: 3, Expected: 5}).Error())
	assert.Equal(t, "release 0x10 (length 3): pointer is not owned by the caller",
		(&OwnershipError{Op: "release", Kind: UnknownAllocation, Ptr: 0x10, Length: 3}).Error())
	assert.Equal(t, "wasm call numext_add failed: trap",
		(&ModuleError{Phase: PhaseCall, Export: "numext_add", Err: errors.New("trap")}).Error())
}

func TestErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ComputeError{Op: "power", Kind: entities.InvalidParameter})
	assert.ErrorIs(t, err, entities.ErrInvalidParameter)

	cause := errors.New("malloc")
	own := &OwnershipError{Op: "produce", Kind: AllocationFailed, Err: cause}
	assert.ErrorIs(t, own, cause)
	assert.False(t, own.Fatal())
	assert.True(t, (&OwnershipError{Kind: UnknownAllocation}).Fatal())
}
