//go:build unix

package vmem

import "golang.org/x/sys/unix"

// Reserve reserves size bytes of address space with no access permissions.
// No physical memory backs the range until Commit is called on part of it.
func Reserve(size uintptr) (*Reservation, error) {
	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &Reservation{mem: mem}, nil
}

// Commit grants read/write access to the byte range [offset, offset+length)
// of the reservation, backing it with physical memory on first touch.
func (r *Reservation) Commit(offset, length uintptr) error {
	return unix.Mprotect(r.slice(offset, length), unix.PROT_READ|unix.PROT_WRITE)
}

// ProtectNone revokes access to the byte range [offset, offset+length),
// used to decommit an elastic array's trailing pages.
func (r *Reservation) ProtectNone(offset, length uintptr) error {
	return unix.Mprotect(r.slice(offset, length), unix.PROT_NONE)
}

// DontNeed releases the physical backing of [offset, offset+length) without
// changing its protection, used to decommit a page manager page that may
// still be reused (and re-committed) shortly after.
func (r *Reservation) DontNeed(offset, length uintptr) error {
	return unix.Madvise(r.slice(offset, length), unix.MADV_DONTNEED)
}

// Release unmaps the entire reservation. The allocator engine does not call
// this during normal operation (the reservation lives for the process
// lifetime); it exists for tests and embedders that tear down an allocator
// instance explicitly.
func (r *Reservation) Release() error {
	return unix.Munmap(r.mem)
}
