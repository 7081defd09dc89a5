package abi

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/reglet-dev/numext"
)

// State is the lifecycle position of a sequence allocation.
type State int

const (
	Unallocated  State = iota
	LibraryOwned       // allocated, being filled before the boundary returns
	CallerOwned        // handed to the caller, awaiting release
	Released           // freed; terminal
)

func (s State) String() string {
	switch s {
	case Unallocated:
		return "unallocated"
	case LibraryOwned:
		return "library-owned"
	case CallerOwned:
		return "caller-owned"
	case Released:
		return "released"
	default:
		return "invalid"
	}
}

// Sequence describes a contiguous run of int64 owned by the caller.
// Capacity always equals Len. Len == 0 implies Data == nil.
type Sequence struct {
	Data unsafe.Pointer
	Len  int
}

// IsNull reports whether s is the empty sequence.
func (s Sequence) IsNull() bool {
	return s.Data == nil || s.Len == 0
}

// Values views the sequence as a Go slice without copying. The view is only
// valid until the sequence is released.
func (s Sequence) Values() []int64 {
	if s.IsNull() {
		return nil
	}
	return unsafe.Slice((*int64)(s.Data), s.Len)
}

type allocation struct {
	length int
	state  State
}

// Ledger tracks every sequence handed across the boundary until the caller
// releases it. One allocation per sequence; no arenas.
type Ledger struct {
	mu       sync.Mutex
	alloc    Allocator
	live     map[unsafe.Pointer]*allocation
	produced uint64
	released uint64
}

// NewLedger returns a ledger drawing storage from alloc.
func NewLedger(alloc Allocator) *Ledger {
	return &Ledger{
		alloc: alloc,
		live:  make(map[unsafe.Pointer]*allocation),
	}
}

// Produce copies values into a fresh allocation and transfers it to the
// caller. An empty input yields the null sequence and allocates nothing.
func (l *Ledger) Produce(values []int64) (Sequence, error) {
	if len(values) == 0 {
		return Sequence{}, nil
	}

	p, buf, err := l.alloc.Alloc(len(values))
	if err != nil {
		return Sequence{}, &numext.OwnershipError{
			Op:     "produce",
			Kind:   numext.AllocationFailed,
			Length: len(values),
			Err:    err,
		}
	}
	a := &allocation{length: len(values), state: LibraryOwned}
	copy(buf, values)

	l.mu.Lock()
	l.live[p] = a
	a.state = CallerOwned
	l.produced++
	l.mu.Unlock()

	slog.Debug("abi: sequence handed to caller", "ptr", uintptr(p), "length", a.length)
	return Sequence{Data: p, Len: a.length}, nil
}

// Release frees a sequence previously returned by Produce. It must be called
// with the exact pointer and length that were handed out. A null pointer or
// zero length is a no-op. Unknown pointers (including a second release) and
// length mismatches return an *numext.OwnershipError and free nothing.
func (l *Ledger) Release(seq Sequence) error {
	if seq.Data == nil || seq.Len == 0 {
		return nil
	}

	l.mu.Lock()
	a, ok := l.live[seq.Data]
	if !ok {
		l.mu.Unlock()
		return &numext.OwnershipError{
			Op:     "release",
			Kind:   numext.UnknownAllocation,
			Ptr:    uintptr(seq.Data),
			Length: seq.Len,
		}
	}
	if a.length != seq.Len {
		l.mu.Unlock()
		return &numext.OwnershipError{
			Op:       "release",
			Kind:     numext.LengthMismatch,
			Ptr:      uintptr(seq.Data),
			Length:   seq.Len,
			Expected: a.length,
		}
	}
	delete(l.live, seq.Data)
	a.state = Released
	l.released++
	l.mu.Unlock()

	l.alloc.Free(seq.Data)
	slog.Debug("abi: sequence released", "ptr", uintptr(seq.Data), "length", seq.Len)
	return nil
}

// State reports the lifecycle state of the allocation at p. Released
// allocations are forgotten and report Unallocated.
func (l *Ledger) State(p unsafe.Pointer) State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.live[p]; ok {
		return a.state
	}
	return Unallocated
}

// Outstanding returns the number of sequences the caller has not released.
func (l *Ledger) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// Stats returns the number of sequences produced and released so far.
func (l *Ledger) Stats() (produced, released uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.produced, l.released
}

// FreeAll releases every outstanding allocation. It is meant for module
// shutdown only: any pointer still held by the caller becomes invalid.
func (l *Ledger) FreeAll() int {
	l.mu.Lock()
	ptrs := make([]unsafe.Pointer, 0, len(l.live))
	for p, a := range l.live {
		a.state = Released
		ptrs = append(ptrs, p)
	}
	l.live = make(map[unsafe.Pointer]*allocation)
	l.released += uint64(len(ptrs))
	l.mu.Unlock()

	for _, p := range ptrs {
		l.alloc.Free(p)
	}
	return len(ptrs)
}
