// Package arena implements a single fixed-size-class slab: a header
// describing it, a hybrid free list of unused slots, and the slot data
// region itself, all living in one ArenaSize-aligned block of raw OS
// memory handed to it by pkg/arenamgr.
//
// Ported from the upstream C++ elasticheap library's arena_metadata and
// arena<ArenaSize,Size,Alignment>.
package arena

import (
	"unsafe"

	"github.com/romanpauk/elasticheap-go/internal/memutil"
)

// Arena is the header placed at the start of every arena-sized block.
// Slot data begins immediately after it, at Begin().
type Arena struct {
	begin     uintptr
	index     uint32
	sizeClass uint32
	count     uint32
	freeSize  uint32
	slot0Free bool
	fl        freeList
}

// metadataSize is the full size of the Arena header, free list included;
// slot data starts right after it. Count's capacity formula divides by
// (sizeClass+2), mirroring the original's assumption that each slot costs 2
// bytes of free list bookkeeping — true of the simpler free-list prototypes
// it replaced, no longer true of the fixed-size hybrid list actually used
// here. The original leaves this as a known TODO ("move all metadata
// elsewhere") rather than reworking the capacity formula, and this port
// keeps the same divisor.
const metadataSize = unsafe.Sizeof(Arena{})

// Count returns the number of fixed-size slots an arena of arenaSize bytes
// holds for the given size class.
func Count(arenaSize uintptr, sizeClass int) int {
	return int((arenaSize - metadataSize) / uintptr(sizeClass+2))
}

// New constructs an arena header in place at base, which must point to a
// fresh (zeroed) arenaSize-byte block, and returns it. index is the arena's
// position in the arena manager's address space, recorded for diagnostics.
//
// Slot 0 is kept out of the free list proper and tracked by slot0Free
// instead: it is handed out directly, without a pop, on whichever Allocate
// call happens to be the first one to need it, and returned the same way by
// Deallocate. This is one of two equivalent slot-0 policies (the other
// being to push every slot, including 0, onto the free list and always
// pop); either way a fresh arena reports size() == 0 until something is
// actually allocated from it.
func New(base uintptr, arenaSize uintptr, sizeClass int, index uint32) *Arena {
	a := memutil.AtAddr[Arena](base)
	*a = Arena{}
	a.begin = base + metadataSize
	a.index = index
	a.sizeClass = uint32(sizeClass)
	a.count = uint32(Count(arenaSize, sizeClass))
	a.slot0Free = true
	for i := int(a.count) - 1; i > 0; i-- {
		a.pushFree(uint16(i))
	}
	return a
}

// Open reinterprets an existing arena-sized block at base as an *Arena,
// without touching its contents. Used to recover the arena header from an
// address known (via pkg/arenamgr and pkg/sizeclass) to already hold one.
func Open(base uintptr) *Arena {
	return memutil.AtAddr[Arena](base)
}

// SizeClassAt reads the size class recorded in the arena header at base,
// without fully reconstructing an *Arena. Used by the root allocator to
// validate that a cached arena reference still refers to a live arena of
// the expected size class before trusting it.
func SizeClassAt(base uintptr) int {
	return int(Open(base).sizeClass)
}

func (a *Arena) pushFree(v uint16) {
	a.fl.push(v)
	a.freeSize++
}

func (a *Arena) popFree() uint16 {
	v := a.fl.pop()
	a.freeSize--
	return v
}

// Begin returns the address of the first slot.
func (a *Arena) Begin() uintptr { return a.begin }

// Index returns the arena's index, as recorded at construction.
func (a *Arena) Index() uint32 { return a.index }

// SizeClass returns the byte size of each slot.
func (a *Arena) SizeClass() int { return int(a.sizeClass) }

// Capacity returns the total number of slots.
func (a *Arena) Capacity() int { return int(a.count) }

// Size returns the number of slots currently allocated.
func (a *Arena) Size() int {
	n := int(a.count) - int(a.freeSize)
	if a.slot0Free {
		n--
	}
	return n
}

// Allocate hands out one free slot. The caller must have already checked
// Size() < Capacity().
func (a *Arena) Allocate() uintptr {
	if a.slot0Free {
		a.slot0Free = false
		return a.begin
	}
	index := a.popFree()
	return a.begin + uintptr(index)*uintptr(a.sizeClass)
}

// Deallocate returns the slot at ptr to the free list. ptr must have come
// from a prior Allocate call on this same arena.
func (a *Arena) Deallocate(ptr uintptr) {
	index := uint16((ptr - a.begin) / uintptr(a.sizeClass))
	if index == 0 {
		a.slot0Free = true
		return
	}
	a.pushFree(index)
}
