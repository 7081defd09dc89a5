// Package entities holds the value types shared by the computation library,
// the boundary layer and the wasm host.
package entities

// Result is a tagged value/error pair produced by the computation library.
// When Err is not Success, Value is unspecified and callers must ignore it.
type Result[T any] struct {
	Value T
	Err   ErrorKind
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Err: Success}
}

// Fail builds a failed result. v is carried along but carries no meaning.
func Fail[T any](kind ErrorKind, v T) Result[T] {
	return Result[T]{Value: v, Err: kind}
}

// IsSuccess reports whether the computation produced a value.
func (r Result[T]) IsSuccess() bool {
	return r.Err == Success
}

// IsError reports whether the computation failed.
func (r Result[T]) IsError() bool {
	return !r.IsSuccess()
}

// Unwrap returns the value and the sentinel error for the kind, for
// callers that prefer Go's (value, error) shape.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err.Err()
}
