package elasticheap

import (
	"unsafe"

	"github.com/timandy/routine"
)

// defaultAllocator holds one Allocator per goroutine, implementing
// strategy (i) of the spec's "global mutable state" design note: rather
// than one shared instance behind a lock (which would serialize every
// allocation) or a manual per-CPU hand-off, each goroutine that touches the
// shim gets its own lazily-constructed Allocator, keyed by goroutine
// identity the same way internal/debug keys its test-capture hook.
var defaultAllocator = routine.NewThreadLocal[*Allocator]()

func current() *Allocator {
	a := defaultAllocator.Get()
	if a == nil {
		var err error
		a, err = New(DefaultConfig())
		if err != nil {
			panic(err)
		}
		defaultAllocator.Set(a)
	}
	return a
}

// Malloc allocates n bytes from the calling goroutine's default allocator.
func Malloc(n int) unsafe.Pointer {
	return current().Allocate(n)
}

// Calloc allocates space for count elements of size bytes each, zeroed.
func Calloc(count, size int) unsafe.Pointer {
	n := count * size
	ptr := current().Allocate(n)
	clear(unsafe.Slice((*byte)(ptr), n))
	return ptr
}

// Realloc resizes the allocation at ptr to n bytes, preserving its
// contents up to min(old, n) bytes. Realloc(nil, n) behaves like Malloc(n).
func Realloc(ptr unsafe.Pointer, n int) unsafe.Pointer {
	if ptr == nil {
		return Malloc(n)
	}
	return current().Reallocate(ptr, n)
}

// Free releases ptr. Free(nil) is a no-op.
func Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	current().Deallocate(ptr, 0)
}
