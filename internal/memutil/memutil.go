// Package memutil provides the small set of unsafe-pointer primitives the
// allocator engine needs to treat raw virtual memory as typed storage:
// casting, address arithmetic, and power-of-two alignment/masking.
//
// Unlike github.com/flier/goutil/pkg/xunsafe, which this package takes its
// naming and shape from, none of these helpers need to cooperate with the Go
// garbage collector: every pointer here addresses memory obtained directly
// from the OS (see internal/vmem), never the Go heap, so there is no write
// barrier or GC-visibility concern to engineer around.
package memutil

import "unsafe"

// Cast reinterprets a pointer to one type as a pointer to another.
func Cast[To, From any](p *From) *To {
	return (*To)(unsafe.Pointer(p))
}

// Addr returns the numeric address of p.
func Addr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}

// AtAddr reinterprets a numeric address as a pointer.
func AtAddr[T any](addr uintptr) *T {
	return (*T)(unsafe.Pointer(addr)) //nolint:govet
}

// Add offsets p by n bytes.
func Add[T any](p *T, n int) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(p), n))
}

// AlignUp rounds addr up to the next multiple of align, which must be a
// power of two.
func AlignUp(addr uintptr, align uintptr) uintptr {
	return (addr + align - 1) &^ (align - 1)
}

// Mask rounds addr down to the start of its containing align-sized region,
// which must be a power of two. This recovers the base of a page or arena
// from any pointer inside it.
func Mask(addr uintptr, align uintptr) uintptr {
	return addr &^ (align - 1)
}

// IsPow2 reports whether n is a power of two.
func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// InRange reports whether the half-open region [addr, addr+size) lies
// entirely within [begin, end).
func InRange(addr, size, begin, end uintptr) bool {
	return addr >= begin && addr+size <= end
}
