package elasticheap

import (
	"fmt"

	"github.com/romanpauk/elasticheap-go/internal/memutil"
)

// Config holds the three tunable geometry constants the whole engine is
// parameterized over. All three must be powers of two; ArenaSize must
// divide PageSize, and PageSize must divide MaxSize.
type Config struct {
	// PageSize is the page manager's commit/decommit granularity.
	PageSize uintptr
	// ArenaSize is the size of every arena, regardless of size class.
	ArenaSize uintptr
	// MaxSize bounds the total address space reserved up front. It is a
	// reservation, not a commitment: nothing is backed by physical memory
	// until touched.
	MaxSize uintptr
}

// DefaultConfig returns the geometry used throughout the engine's own
// tests and scenarios: a 2 MiB page holding 16 arenas of 128 KiB each, and
// a 1 TiB address space reservation.
func DefaultConfig() Config {
	return Config{
		PageSize:  2 << 20,
		ArenaSize: 128 << 10,
		MaxSize:   1 << 40,
	}
}

// validate checks the invariants New relies on: every dimension a power of
// two, ArenaSize dividing evenly into PageSize, and PageSize dividing evenly
// into MaxSize.
func (c Config) validate() error {
	if !memutil.IsPow2(c.PageSize) {
		return fmt.Errorf("elasticheap: PageSize %d is not a power of two", c.PageSize)
	}
	if !memutil.IsPow2(c.ArenaSize) {
		return fmt.Errorf("elasticheap: ArenaSize %d is not a power of two", c.ArenaSize)
	}
	if !memutil.IsPow2(c.MaxSize) {
		return fmt.Errorf("elasticheap: MaxSize %d is not a power of two", c.MaxSize)
	}
	if c.ArenaSize > c.PageSize || c.PageSize%c.ArenaSize != 0 {
		return fmt.Errorf("elasticheap: ArenaSize %d does not divide PageSize %d", c.ArenaSize, c.PageSize)
	}
	if c.MaxSize%c.PageSize != 0 {
		return fmt.Errorf("elasticheap: PageSize %d does not divide MaxSize %d", c.PageSize, c.MaxSize)
	}
	return nil
}
