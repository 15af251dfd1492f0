package arena_test

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/arena"
)

const testArenaSize = 128 * 1024

func newTestArena(sizeClass int) *arena.Arena {
	mem := make([]byte, testArenaSize)
	base := uintptr(unsafe.Pointer(&mem[0]))
	return arena.New(base, testArenaSize, sizeClass, 7)
}

func TestArena(t *testing.T) {
	Convey("Given a freshly constructed arena for the 64-byte size class", t, func() {
		a := newTestArena(64)

		Convey("it reports no slot in use yet", func() {
			So(a.Size(), ShouldEqual, 0)
			So(a.Capacity(), ShouldBeGreaterThan, 1)
			So(a.SizeClass(), ShouldEqual, 64)
			So(a.Index(), ShouldEqual, uint32(7))
		})

		Convey("allocating fills the arena up to capacity", func() {
			var ptrs []uintptr
			for a.Size() < a.Capacity() {
				ptrs = append(ptrs, a.Allocate())
			}
			So(a.Size(), ShouldEqual, a.Capacity())

			seen := make(map[uintptr]bool)
			for _, p := range ptrs {
				So(seen[p], ShouldBeFalse)
				seen[p] = true
				So(p, ShouldBeGreaterThanOrEqualTo, a.Begin())
			}
		})

		Convey("deallocating frees a slot for reuse", func() {
			p := a.Allocate()
			sizeBefore := a.Size()
			a.Deallocate(p)
			So(a.Size(), ShouldEqual, sizeBefore-1)

			p2 := a.Allocate()
			So(p2, ShouldEqual, p)
		})

		Convey("allocations spill past the free list's stack into its bitmap overflow", func() {
			// Drive the free count past the 2048-entry stack to exercise the
			// bitmap overflow path pushed at construction time. A 64-byte
			// arena holds fewer than 2048 slots, so use the 8-byte class.
			a := newTestArena(8)
			if a.Capacity() <= 2048 {
				t.Skip("size class too large to exceed the stack in this arena size")
			}
			var ptrs []uintptr
			for a.Size() < a.Capacity() {
				ptrs = append(ptrs, a.Allocate())
			}
			for _, p := range ptrs {
				a.Deallocate(p)
			}
			So(a.Size(), ShouldEqual, 0)
		})
	})
}

func TestCount(t *testing.T) {
	Convey("Count divides the arena body by slot size plus bookkeeping overhead", t, func() {
		c := arena.Count(testArenaSize, 64)
		So(c, ShouldBeGreaterThan, 0)
		So(c*66, ShouldBeLessThanOrEqualTo, testArenaSize)
	})
}
