package boundary

import (
	"fmt"
	"runtime/debug"
)

// Guard runs fn and returns its result. If fn panics the panic is recovered,
// logged together with its stack, and fallback is returned instead.
func Guard[T any](b *Boundary, op string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("numext: panic recovered",
				"op", op,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			if b.onPanic != nil {
				b.onPanic()
			}
			out = fallback
		}
	}()
	return fn()
}
