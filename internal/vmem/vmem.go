// Package vmem wraps the handful of OS virtual-memory operations the
// allocator engine needs: reserve a large address range without backing it
// with physical memory, commit/decommit pages within it, and release the
// whole range on shutdown.
//
// golang.org/x/sys/unix is the idiomatic door to mmap/mprotect/madvise on
// every unix target, so it is adopted here rather than hand-rolling raw
// syscall numbers.
package vmem

import "github.com/romanpauk/elasticheap-go/internal/memutil"

// Reservation is a single contiguous range of address space obtained from
// the OS with "reserve but do not commit" semantics. Sub-ranges of it are
// committed and decommitted independently; the whole range is released at
// once.
type Reservation struct {
	mem []byte
}

// Base returns the address of the first byte of the reservation.
func (r *Reservation) Base() uintptr {
	if len(r.mem) == 0 {
		return 0
	}
	return memutil.Addr(&r.mem[0])
}

// Size returns the number of bytes reserved.
func (r *Reservation) Size() uintptr {
	return uintptr(len(r.mem))
}

// Contains reports whether the half-open byte range [addr, addr+size) lies
// within the reservation.
func (r *Reservation) Contains(addr, size uintptr) bool {
	return memutil.InRange(addr, size, r.Base(), r.Base()+r.Size())
}

func (r *Reservation) slice(offset, length uintptr) []byte {
	return r.mem[offset : offset+length]
}
