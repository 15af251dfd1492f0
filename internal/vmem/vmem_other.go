//go:build !unix

package vmem

import "github.com/romanpauk/elasticheap-go/internal/debug"

// Reserve is unimplemented on non-unix targets: the engine's promise to hand
// pages back to the OS depends on madvise, which has no portable equivalent
// outside the unix family in golang.org/x/sys.
func Reserve(size uintptr) (*Reservation, error) {
	return nil, debug.Unsupported()
}

func (r *Reservation) Commit(offset, length uintptr) error      { return debug.Unsupported() }
func (r *Reservation) ProtectNone(offset, length uintptr) error { return debug.Unsupported() }
func (r *Reservation) DontNeed(offset, length uintptr) error    { return debug.Unsupported() }
func (r *Reservation) Release() error                           { return debug.Unsupported() }
