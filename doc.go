// Package elasticheap implements an elastic, segregated-fit, size-classed,
// arena-based general-purpose memory allocator.
//
// The engine is built in four layers, each its own package: pkg/pagemgr
// hands out fixed-size pages from one large virtual reservation;
// pkg/arenamgr subdivides pages into fixed-size arenas and tracks which
// ones are free; pkg/arena owns one arena's slot free list; and this
// package ties the three together behind 23 fixed size classes (pkg/
// sizeclass), caching one hot arena per class so the common allocate/
// deallocate path never touches a heap or a lock.
//
// An Allocator is not safe for concurrent use from multiple goroutines; the
// spec models one allocator per logical thread of control. Embedders
// wanting a single process-wide malloc-style entry point should use the
// package-level Malloc/Calloc/Realloc/Free functions instead, which keep
// one Allocator per goroutine behind the scenes (see shim.go).
package elasticheap
