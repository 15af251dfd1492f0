// Package arenamgr carves the pages handed out by pkg/pagemgr into
// fixed-size arenas and tracks, per page, which of its arena slots are
// currently in use.
//
// Ported from the upstream C++ elasticheap library's arena_manager.
package arenamgr

import (
	"github.com/romanpauk/elasticheap-go/internal/memutil"
	"github.com/romanpauk/elasticheap-go/pkg/bitset"
	"github.com/romanpauk/elasticheap-go/pkg/elastic"
	"github.com/romanpauk/elasticheap-go/pkg/pagemgr"
)

type pageState uint8

const (
	stateDeallocated pageState = iota
	stateAllocated
	stateFull
)

type pageMetadata struct {
	state pageState
	used  *bitset.Set // 1 = arena slot is allocated; allocated lazily on first use
}

// Manager owns the arena-sized subdivision of a page manager's reservation.
type Manager struct {
	pages         *pagemgr.Manager
	arenaSize     uintptr
	arenasPerPage int

	metadata       []pageMetadata
	allocatedPages *elastic.Heap[uint32]
	arenasLive     int
}

// New builds an arena manager over pages, subdividing each page into
// arenaSize blocks.
func New(pages *pagemgr.Manager, arenaSize uintptr) (*Manager, error) {
	heap, err := elastic.NewHeap[uint32](int(pages.PageCount()), pages.PageSize(), func(a, b uint32) bool { return a < b })
	if err != nil {
		return nil, err
	}
	return &Manager{
		pages:          pages,
		arenaSize:      arenaSize,
		arenasPerPage:  int(pages.PageSize() / arenaSize),
		metadata:       make([]pageMetadata, pages.PageCount()),
		allocatedPages: heap,
	}, nil
}

// ArenaSize returns the fixed arena block size.
func (m *Manager) ArenaSize() uintptr { return m.arenaSize }

func (m *Manager) metaOf(pageIndex uint32) *pageMetadata {
	return &m.metadata[pageIndex]
}

// getAllocatedPage returns a page with at least one free arena slot,
// allocating a fresh page from the page manager if none of the
// already-known allocated pages have room left.
func (m *Manager) getAllocatedPage() uintptr {
	for !m.allocatedPages.Empty() {
		index := m.allocatedPages.Top()
		page := m.pages.PageAddr(index)
		meta := m.metaOf(index)
		if meta.state == stateDeallocated {
			m.allocatedPages.PopValue()
			continue
		}
		return page
	}

	page := m.pages.AllocatePage()
	index := m.pages.PageIndex(page)
	meta := m.metaOf(index)
	meta.used = bitset.New(m.arenasPerPage)
	meta.state = stateAllocated
	m.allocatedPages.PushValue(index)
	return page
}

// AllocateArena returns the address of a free arena-sized block.
func (m *Manager) AllocateArena() uintptr {
	page := m.getAllocatedPage()
	index := m.pages.PageIndex(page)
	meta := m.metaOf(index)

	slot, ok := meta.used.FindFirstClear()
	if !ok {
		panic("arenamgr: allocated page reported no free arena slot")
	}
	meta.used.Set(slot)
	addr := page + uintptr(slot)*m.arenaSize

	if meta.used.Full() {
		m.allocatedPages.PopValue()
		meta.state = stateFull
	}
	m.arenasLive++
	return addr
}

// DeallocateArena returns the arena-sized block at ptr to its page,
// releasing the page itself once every arena on it is free.
func (m *Manager) DeallocateArena(ptr uintptr) {
	page := m.PageOf(ptr)
	index := m.pages.PageIndex(page)
	meta := m.metaOf(index)

	if meta.state == stateFull {
		m.allocatedPages.PushValue(index)
		meta.state = stateAllocated
	}

	slot := int((ptr - page) / m.arenaSize)
	meta.used.Clear(slot)
	if meta.used.Empty() {
		meta.state = stateDeallocated
		meta.used = nil
		m.pages.DeallocatePage(page)
	}
	m.arenasLive--
}

// Allocated returns the number of arenas currently handed out. Exposed for
// diagnostics and tests, not consulted on any allocation path.
func (m *Manager) Allocated() int { return m.arenasLive }

// PageOf returns the base address of the page containing the arena at ptr.
func (m *Manager) PageOf(ptr uintptr) uintptr {
	return m.pages.PageOf(ptr)
}

// ArenaOf returns the base address of the arena containing ptr.
func (m *Manager) ArenaOf(ptr uintptr) uintptr {
	return memutil.Mask(ptr, m.arenaSize)
}

// ArenaIndex returns an arena's index relative to the start of the
// reservation, usable as a compact key (e.g. in a pkg/elastic.Heap) instead
// of its full address.
func (m *Manager) ArenaIndex(ptr uintptr) uint32 {
	return uint32((ptr - m.pages.Begin()) / m.arenaSize)
}

// ArenaAt returns the address of the arena at the given index.
func (m *Manager) ArenaAt(index uint32) uintptr {
	return m.pages.Begin() + uintptr(index)*m.arenaSize
}

// ArenaState reports whether the arena at ptr is still allocated, on a page
// that has not since filled up completely, and still labeled with size
// class wantClass. readSizeClass reads the size class an arena header at an
// address claims for itself (pkg/arena.SizeClassAt); kept as a parameter
// rather than an import so this package does not need to know pkg/arena's
// header layout.
//
// A page that has filled up since the arena was cached makes this report
// false even though the arena itself is still perfectly live — matching
// get_arena_state in the original, which only trusts a page in the
// Allocated state. The caller (the root allocator's reset_cached_arena)
// pops such an entry from its class heap and moves on to the next one; the
// arena is not pushed back, so its free slots are not handed out again, and
// it returns to the arena manager once it empties (unless it is cached).
func (m *Manager) ArenaState(ptr uintptr, wantClass int, readSizeClass func(uintptr) int) bool {
	page := m.PageOf(ptr)
	index := m.pages.PageIndex(page)
	meta := m.metaOf(index)
	if meta.state != stateAllocated {
		return false
	}
	slot := int((ptr - page) / m.arenaSize)
	return meta.used.Get(slot) && readSizeClass(ptr) == wantClass
}
