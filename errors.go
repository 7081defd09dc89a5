// Package numext is the Go-side surface of the numext arithmetic extension.
//
// This package includes the error types shared by the boundary layer, the
// ownership ledger, configuration loading and the wasm host. All error types
// support error unwrapping via errors.As() and errors.Is().
package numext

import (
	"errors"
	"fmt"

	"github.com/reglet-dev/numext/domain/entities"
)

// ComputeError reports a failed computation in the pure library.
type ComputeError struct {
	Op    string             // "factorial", "power", ...
	Kind  entities.ErrorKind // Why it failed
	Input []int64            // Arguments as received
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s%v: %s", e.Op, e.Input, e.Kind)
}

func (e *ComputeError) Unwrap() error {
	return e.Kind.Err()
}

// OwnershipErrorKind names a violation of the sequence ownership protocol.
type OwnershipErrorKind string

const (
	// UnknownAllocation means the pointer is not owned by the caller:
	// already released, never produced, or produced by someone else.
	UnknownAllocation OwnershipErrorKind = "unknown_allocation"
	// LengthMismatch means release was called with a length other than the
	// one the allocation was made with.
	LengthMismatch OwnershipErrorKind = "length_mismatch"
	// AllocationFailed means the allocator could not provide memory.
	AllocationFailed OwnershipErrorKind = "allocation_failed"
)

// OwnershipError represents a misuse of a produced sequence by the caller.
type OwnershipError struct {
	Op       string             // "release", "produce"
	Kind     OwnershipErrorKind // Violation
	Ptr      uintptr            // Pointer as passed by the caller
	Length   int                // Length as passed by the caller
	Expected int                // Length recorded at allocation time, if known
	Err      error              // Underlying allocator error
}

func (e *OwnershipError) Error() string {
	switch e.Kind {
	case LengthMismatch:
		return fmt.Sprintf("%s 0x%x: length %d does not match allocation length %d", e.Op, e.Ptr, e.Length, e.Expected)
	case AllocationFailed:
		return fmt.Sprintf("%s: allocating %d elements failed: %v", e.Op, e.Length, e.Err)
	default:
		return fmt.Sprintf("%s 0x%x (length %d): pointer is not owned by the caller", e.Op, e.Ptr, e.Length)
	}
}

func (e *OwnershipError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the violation must stop the process under the
// abort release policy. Allocation failures are recoverable.
func (e *OwnershipError) Fatal() bool {
	return e.Kind != AllocationFailed
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field string // Field name that failed validation
	Err   error  // Underlying validation error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ModulePhase indicates where in the wasm host lifecycle an error occurred.
type ModulePhase string

const (
	PhaseCompile     ModulePhase = "compile"
	PhaseInstantiate ModulePhase = "instantiate"
	PhaseCall        ModulePhase = "call"
	PhaseMemory      ModulePhase = "memory"
)

// ModuleError represents a failure while loading or calling the wasm module.
type ModuleError struct {
	Phase  ModulePhase
	Export string // Export being resolved or called, if any
	Err    error
}

func (e *ModuleError) Error() string {
	if e.Export != "" {
		return fmt.Sprintf("wasm %s %s failed: %v", e.Phase, e.Export, e.Err)
	}
	return fmt.Sprintf("wasm %s failed: %v", e.Phase, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// ErrorDetail is a flattened, serialisable view of an error.
// Types: "compute", "ownership", "config", "module", "internal".
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Message
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	var detail *ErrorDetail
	if errors.As(err, &detail) {
		return detail
	}

	var (
		compErr *ComputeError
		ownErr  *OwnershipError
		confErr *ConfigError
		modErr  *ModuleError
	)

	switch {
	case errors.As(err, &compErr):
		return &ErrorDetail{
			Message: compErr.Error(),
			Type:    "compute",
			Code:    compErr.Kind.String(),
		}
	case errors.As(err, &ownErr):
		return &ErrorDetail{
			Message: ownErr.Error(),
			Type:    "ownership",
			Code:    string(ownErr.Kind),
		}
	case errors.As(err, &confErr):
		return &ErrorDetail{
			Message: confErr.Error(),
			Type:    "config",
			Code:    confErr.Field,
		}
	case errors.As(err, &modErr):
		return &ErrorDetail{
			Message: modErr.Error(),
			Type:    "module",
			Code:    string(modErr.Phase),
		}
	default:
		return &ErrorDetail{
			Message: err.Error(),
			Type:    "internal",
		}
	}
}
