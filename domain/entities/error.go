package entities

import "errors"

// ErrorKind classifies why a computation did not produce a value.
// The numeric values are part of the C ABI and must not change.
type ErrorKind int32

const (
	Success          ErrorKind = 0
	NegativeNumber   ErrorKind = -1
	Overflow         ErrorKind = -2
	InvalidParameter ErrorKind = -3
)

var (
	ErrNegativeNumber   = errors.New("negative number")
	ErrOverflow         = errors.New("overflow")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// String returns a short description for native-side diagnostics.
// It never crosses the foreign boundary.
func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "success"
	case NegativeNumber:
		return "negative number"
	case Overflow:
		return "overflow"
	case InvalidParameter:
		return "invalid parameter"
	default:
		return "unknown error"
	}
}

// Err returns the sentinel error for k, or nil for Success.
func (k ErrorKind) Err() error {
	switch k {
	case Success:
		return nil
	case NegativeNumber:
		return ErrNegativeNumber
	case Overflow:
		return ErrOverflow
	default:
		return ErrInvalidParameter
	}
}
