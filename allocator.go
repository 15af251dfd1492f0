package elasticheap

import (
	"unsafe"

	"github.com/romanpauk/elasticheap-go/internal/debug"
	"github.com/romanpauk/elasticheap-go/internal/fatal"
	"github.com/romanpauk/elasticheap-go/pkg/arena"
	"github.com/romanpauk/elasticheap-go/pkg/arenamgr"
	"github.com/romanpauk/elasticheap-go/pkg/elastic"
	"github.com/romanpauk/elasticheap-go/pkg/ledger"
	"github.com/romanpauk/elasticheap-go/pkg/pagemgr"
	"github.com/romanpauk/elasticheap-go/pkg/sizeclass"
)

// Allocator is a complete allocator instance: one reservation, one arena
// manager, and one cached arena per size class.
//
// Ported from the upstream C++ elasticheap library's arena_allocator_base
// and allocator<T>, which keep classes_/classes_cache_ as template statics
// shared by every allocator<T> instantiation over the same (PageSize,
// ArenaSize, MaxSize) — a single implicit global instance reached through an
// STL-allocator shaped facade. Go has no equivalent of template statics, so
// this port makes Allocator an explicit, independently constructible value
// instead, and reserves the "one shared instance" behavior for the
// goroutine-local shim in shim.go.
type Allocator struct {
	cfg    Config
	pages  *pagemgr.Manager
	arenas *arenamgr.Manager

	heap   [sizeclass.Count]*elastic.Heap[uint32]
	cached [sizeclass.Count]uintptr

	ledger *ledger.Ledger
}

// New constructs an Allocator over a fresh reservation sized per cfg. It
// returns an error if cfg fails validation (see Config.validate) or if the
// underlying reservation cannot be made.
func New(cfg Config) (*Allocator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pages, err := pagemgr.New(cfg.PageSize, cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	arenas, err := arenamgr.New(pages, cfg.ArenaSize)
	if err != nil {
		return nil, err
	}

	a := &Allocator{cfg: cfg, pages: pages, arenas: arenas}
	arenaCount := int(cfg.MaxSize / cfg.ArenaSize)
	for i := range a.heap {
		h, err := elastic.NewHeap[uint32](arenaCount, cfg.PageSize, func(x, y uint32) bool { return x < y })
		if err != nil {
			return nil, err
		}
		a.heap[i] = h
	}
	if debug.Enabled {
		a.ledger = ledger.New()
	}
	return a, nil
}

// Stats reports point-in-time counters restoring the original's optional
// allocator_stats: how many pages and arenas are currently live. Intended
// for tests and diagnostics, never consulted on an allocation path.
type Stats struct {
	PagesAllocated  int
	ArenasAllocated int
}

// Stats returns the allocator's current page and arena counts.
func (a *Allocator) Stats() Stats {
	return Stats{
		PagesAllocated:  a.pages.Allocated(),
		ArenasAllocated: a.arenas.Allocated(),
	}
}

// String implements fmt.Stringer via the debug package's dictionary
// formatter, so a Stats value prints as a single readable line in test
// failures and debug traces instead of Go's default struct dump.
func (s Stats) String() string {
	return debug.Dict("stats", "pages", s.PagesAllocated, "arenas", s.ArenasAllocated).String()
}

// Allocate returns a pointer to an uninitialized region of at least n
// bytes, aligned to at least 8 bytes. It aborts the process if n exceeds
// the largest size class (this engine has no large-object tier) or if the
// reservation is exhausted.
func (a *Allocator) Allocate(n int) unsafe.Pointer {
	class, ok := sizeclass.RoundUp(max(n, 8))
	if !ok {
		fatal.TooLarge(n)
	}
	idx := sizeclass.IndexOf(class)
	ptr := a.allocateClass(idx, class)
	if debug.Enabled {
		a.ledger.Add(ptr, class)
	}
	return unsafe.Pointer(ptr)
}

// allocateClass implements allocate_impl: take from the cached arena while
// it has room, otherwise pop it (it is full) and refill before retrying.
func (a *Allocator) allocateClass(idx, class int) uintptr {
	for {
		if cached := a.cached[idx]; cached != 0 {
			buf := arena.Open(cached)
			if buf.Size() < buf.Capacity() {
				return buf.Allocate()
			}
			debug.Assert(buf.Size() == buf.Capacity(), "cached arena is neither open nor full")
			a.heap[idx].PopValue()
		}
		a.resetCachedArena(idx, class)
	}
}

// resetCachedArena implements reset_cached_arena: scan the class heap for
// a still-live, non-full arena, skipping stale entries left behind by lazy
// invalidation; allocate a fresh arena if none is found.
func (a *Allocator) resetCachedArena(idx, class int) {
	h := a.heap[idx]
	for !h.Empty() {
		index := h.Top()
		candidate := a.arenas.ArenaAt(index)
		if a.arenas.ArenaState(candidate, class, arena.SizeClassAt) {
			buf := arena.Open(candidate)
			if buf.Size() < buf.Capacity() {
				a.cached[idx] = candidate
				return
			}
		}
		h.PopValue()
	}

	base := a.arenas.AllocateArena()
	index := a.arenas.ArenaIndex(base)
	arena.New(base, a.cfg.ArenaSize, class, index)
	h.PushValue(index)
	a.cached[idx] = base
}

// Deallocate releases a pointer previously returned by Allocate or
// Reallocate. nHint is advisory and may be zero; it is never consulted
// because the arena's own header already records its size class.
func (a *Allocator) Deallocate(ptr unsafe.Pointer, nHint int) {
	addr := uintptr(ptr)
	base := a.arenas.ArenaOf(addr)
	buf := arena.Open(base)
	class := buf.SizeClass()
	idx := sizeclass.IndexOf(class)

	if debug.Enabled {
		got := a.ledger.Remove(addr)
		debug.Assert(got == class, "deallocated pointer's recorded size class does not match its arena")
	}

	buf.Deallocate(addr)

	switch {
	case buf.Size() == 0:
		// The cached arena for this class must always stay alive, even
		// when it has nothing allocated in it: returning it to the arena
		// manager here would leave cached[idx] dangling.
		if base != a.cached[idx] {
			a.arenas.DeallocateArena(base)
		}
	case buf.Size() == buf.Capacity()-1:
		index := a.arenas.ArenaIndex(base)
		a.heap[idx].PushValue(index)
		a.resetCachedArena(idx, class)
	}
}

// Reallocate returns a pointer to a region of at least n bytes holding the
// first min(old size class, n) bytes of the region at ptr, and releases
// ptr if a new region was allocated.
func (a *Allocator) Reallocate(ptr unsafe.Pointer, n int) unsafe.Pointer {
	addr := uintptr(ptr)
	base := a.arenas.ArenaOf(addr)
	oldClass := arena.Open(base).SizeClass()

	newClass, ok := sizeclass.RoundUp(max(n, 8))
	if !ok {
		fatal.TooLarge(n)
	}
	if newClass == oldClass {
		return ptr
	}

	newPtr := a.Allocate(n)
	copySize := min(oldClass, newClass)
	src := unsafe.Slice((*byte)(ptr), copySize)
	dst := unsafe.Slice((*byte)(newPtr), copySize)
	copy(dst, src)
	a.Deallocate(ptr, oldClass)
	return newPtr
}
