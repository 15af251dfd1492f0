package elastic

import "container/heap"

// Heap is a binary heap over T stored in an Array, ordered by a caller
// supplied less function. The allocator engine uses it as a min-heap of
// page/arena indices (lower index popped first, so reuse favors low
// addresses and the tail of the reservation stays decommitted longer).
//
// The C++ original reimplements std::push_heap/pop_heap/make_heap by hand
// over its own elastic_array (allocator.h's elastic_heap). container/heap
// already expresses exactly that algorithm over any sort.Interface, so Heap
// adapts Array to it instead of reimplementing sift-up/sift-down.
type Heap[T comparable] struct {
	arr  *Array[T]
	less func(a, b T) bool
}

// NewHeap reserves a heap able to hold up to capacity elements.
func NewHeap[T comparable](capacity int, pageSize uintptr, less func(a, b T) bool) (*Heap[T], error) {
	arr, err := NewArray[T](capacity, pageSize)
	if err != nil {
		return nil, err
	}
	return &Heap[T]{arr: arr, less: less}, nil
}

// Len implements sort.Interface.
func (h *Heap[T]) Len() int { return h.arr.Len() }

// Less implements sort.Interface.
func (h *Heap[T]) Less(i, j int) bool { return h.less(h.arr.Get(i), h.arr.Get(j)) }

// Swap implements sort.Interface.
func (h *Heap[T]) Swap(i, j int) {
	vi, vj := h.arr.Get(i), h.arr.Get(j)
	h.arr.Set(i, vj)
	h.arr.Set(j, vi)
}

// Push implements heap.Interface. Use PushValue below, not this one, from
// outside the package.
func (h *Heap[T]) Push(x any) { h.arr.PushBack(x.(T)) }

// Pop implements heap.Interface. Use PopValue below, not this one, from
// outside the package.
func (h *Heap[T]) Pop() any {
	v := h.arr.Back()
	h.arr.PopBack()
	return v
}

// PushValue pushes a value onto the heap.
func (h *Heap[T]) PushValue(v T) { heap.Push(h, v) }

// PopValue removes and returns the minimal element.
func (h *Heap[T]) PopValue() T { return heap.Pop(h).(T) }

// Top returns the minimal element without removing it.
func (h *Heap[T]) Top() T { return h.arr.Get(0) }

// Empty reports whether the heap holds no elements.
func (h *Heap[T]) Empty() bool { return h.arr.Empty() }

// Size returns the number of elements in the heap.
func (h *Heap[T]) Size() int { return h.arr.Len() }

// Erase removes the first occurrence of v, wherever it sits in the heap,
// by linear scan. The engine's own heaps do not call it: they drop stale
// entries lazily when those reach the top.
func (h *Heap[T]) Erase(v T) bool {
	for i := 0; i < h.arr.Len(); i++ {
		if h.arr.Get(i) == v {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
