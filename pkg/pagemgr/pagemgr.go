// Package pagemgr implements the engine's lowest-level address-space owner:
// a single large reservation divided into fixed-size pages, handed out on
// demand and returned to a free-page set (not released back to the OS
// reservation) on deallocation.
//
// Ported from the upstream C++ elasticheap library's page_manager, whose
// deallocated-page pool is a lock-free atomic_bitset_heap so that
// allocate_page/deallocate_page never block a concurrent caller sharing the
// same instance. This port keeps that lock-free property for the
// deallocated-page pool itself: pkg/bitset.AtomicSet's PopFirst returns the
// lowest free page index without ever taking a lock. The one remaining
// piece of mutable state still needs a mutex: the high-water mark tracking
// how far the reservation's frontier has been extended.
package pagemgr

import (
	"sync"

	"github.com/romanpauk/elasticheap-go/internal/fatal"
	"github.com/romanpauk/elasticheap-go/internal/memutil"
	"github.com/romanpauk/elasticheap-go/internal/vmem"
	"github.com/romanpauk/elasticheap-go/pkg/bitset"
)

// Manager owns one reservation of PageCount*PageSize bytes and doles it out
// one page at a time.
type Manager struct {
	res       *vmem.Reservation
	pageSize  uintptr
	pageCount uint32

	mu        sync.Mutex
	highWater uint32

	deallocated *bitset.AtomicSet
}

// New reserves maxSize bytes of address space, divided into pageSize pages.
func New(pageSize, maxSize uintptr) (*Manager, error) {
	res, err := vmem.Reserve(maxSize)
	if err != nil {
		return nil, err
	}
	pageCount := uint32(maxSize / pageSize)
	return &Manager{
		res:         res,
		pageSize:    pageSize,
		pageCount:   pageCount,
		deallocated: bitset.NewAtomic(int(pageCount)),
	}, nil
}

// PageSize returns the manager's page size.
func (m *Manager) PageSize() uintptr { return m.pageSize }

// PageCount returns the total number of pages the reservation holds.
func (m *Manager) PageCount() uint32 { return m.pageCount }

// Begin returns the address of the first byte of the reservation.
func (m *Manager) Begin() uintptr { return m.res.Base() }

// End returns the address one past the last byte of the reservation.
func (m *Manager) End() uintptr { return m.res.Base() + uintptr(m.pageCount)*m.pageSize }

// Allocated returns the number of pages currently handed out (committed and
// not yet deallocated). Exposed for diagnostics and tests, not consulted on
// any allocation path.
func (m *Manager) Allocated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.highWater) - m.deallocated.Popcount()
}

// AllocatePage returns the address of a freshly committed page, preferring a
// previously deallocated page over extending the high-water mark.
func (m *Manager) AllocatePage() uintptr {
	page, ok := m.nextPage()
	if !ok {
		fatal.OutOfMemory("page manager reservation exhausted")
	}
	addr := m.pageAddr(page)
	fatal.OnError("mprotect", m.res.Commit(uintptr(page)*m.pageSize, m.pageSize))
	return addr
}

func (m *Manager) nextPage() (uint32, bool) {
	if index, ok := m.deallocated.PopFirst(); ok {
		return uint32(index), true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.highWater == m.pageCount {
		return 0, false
	}
	page := m.highWater
	m.highWater++
	return page, true
}

// DeallocatePage releases the physical backing of the page at ptr and makes
// its address available for reuse.
func (m *Manager) DeallocatePage(ptr uintptr) {
	fatal.OnError("madvise", m.res.DontNeed(ptr-m.res.Base(), m.pageSize))
	index := m.PageIndex(ptr)
	m.deallocated.Set(int(index))
}

// PageOf returns the base address of the page containing ptr.
func (m *Manager) PageOf(ptr uintptr) uintptr {
	return memutil.Mask(ptr, m.pageSize)
}

// PageIndex returns the index of the page at ptr, which must be page-aligned.
func (m *Manager) PageIndex(ptr uintptr) uint32 {
	return uint32((ptr - m.res.Base()) / m.pageSize)
}

func (m *Manager) pageAddr(index uint32) uintptr {
	return m.res.Base() + uintptr(index)*m.pageSize
}

// PageAddr returns the address of the page at index.
func (m *Manager) PageAddr(index uint32) uintptr {
	return m.pageAddr(index)
}
