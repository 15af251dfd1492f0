// Package elastic implements the two "grows and shrinks with the OS page
// cache" containers the allocator engine keeps its own bookkeeping in: a
// tail-growable Array and a binary-heap Heap built on top of it. Both commit
// and decommit memory in whole-page steps so bookkeeping structures that are
// mostly empty (the common case: only a handful of pages are ever partially
// full at once) cost only a page or two of resident memory regardless of how
// large a capacity they were reserved with.
//
// Ported from the upstream C++ elasticheap library's elastic_array and
// elastic_heap (the growable-vector variant, used here for the arena
// manager's heap of pages and the allocator's per-class arena heaps; the page
// manager uses pkg/bitset.AtomicSet instead. Not the index-addressed, per-slot
// elastic_array used elsewhere in the original — that one is ported as
// pkg/arenamgr's metadata table instead).
package elastic

import (
	"unsafe"

	"github.com/romanpauk/elasticheap-go/internal/fatal"
	"github.com/romanpauk/elasticheap-go/internal/vmem"
)

// Array is a tail-growable slice of T backed by a single reservation of
// capacity*sizeof(T) bytes. Pushing past the end of the committed region
// commits one more page; popping far enough back decommits the trailing
// page. The reservation itself is sized for the worst case up front, so
// Array never needs to move existing elements.
type Array[T any] struct {
	res       *vmem.Reservation
	base      uintptr
	pageSize  uintptr
	elemSize  uintptr
	perPage   int
	capacity  int
	size      int
	committed int
}

// NewArray reserves address space for up to capacity elements of T, none of
// it committed yet. pageSize is the OS page size (or a multiple of it) used
// as the commit/decommit granularity.
func NewArray[T any](capacity int, pageSize uintptr) (*Array[T], error) {
	var zero T
	elemSize := unsafe.Sizeof(zero)
	res, err := vmem.Reserve(uintptr(capacity) * elemSize)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		res:      res,
		base:     res.Base(),
		pageSize: pageSize,
		elemSize: elemSize,
		perPage:  int(pageSize / elemSize),
		capacity: capacity,
	}, nil
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the reserved capacity.
func (a *Array[T]) Cap() int { return a.capacity }

// Committed returns the number of elements currently backed by physical
// memory, exposed for tests and diagnostics.
func (a *Array[T]) Committed() int { return a.committed }

func (a *Array[T]) at(i int) *T {
	return (*T)(unsafe.Pointer(a.base + uintptr(i)*a.elemSize))
}

// Get returns the element at index i.
func (a *Array[T]) Get(i int) T { return *a.at(i) }

// Set overwrites the element at index i.
func (a *Array[T]) Set(i int, v T) { *a.at(i) = v }

// Back returns the last element.
func (a *Array[T]) Back() T { return a.Get(a.size - 1) }

// Empty reports whether the array holds no elements.
func (a *Array[T]) Empty() bool { return a.size == 0 }

// PushBack appends v, committing another page first if the array has grown
// past its currently committed region.
func (a *Array[T]) PushBack(v T) {
	a.grow(1)
	*a.at(a.size) = v
	a.size++
}

// PopBack removes the last element, decommitting a trailing page once
// enough slack has accumulated.
func (a *Array[T]) PopBack() {
	a.size--
	a.shrink()
}

func (a *Array[T]) grow(n int) {
	if a.size+n > a.committed {
		offset := uintptr(a.committed) * a.elemSize
		fatal.OnError("mprotect", a.res.Commit(offset, a.pageSize))
		a.committed += a.perPage
	}
}

func (a *Array[T]) shrink() {
	if a.size+a.perPage < a.committed {
		offset := uintptr(a.committed)*a.elemSize - a.pageSize
		fatal.OnError("mprotect", a.res.ProtectNone(offset, a.pageSize))
		a.committed -= a.perPage
	}
}
