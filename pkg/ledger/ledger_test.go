package ledger_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/ledger"
)

func TestLedger(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		l := ledger.New()
		So(l.Len(), ShouldEqual, 0)

		Convey("Add then Remove round-trips the size class", func() {
			l.Add(0x1000, 64)
			So(l.Contains(0x1000), ShouldBeTrue)
			So(l.Len(), ShouldEqual, 1)

			got := l.Remove(0x1000)
			So(got, ShouldEqual, 64)
			So(l.Contains(0x1000), ShouldBeFalse)
			So(l.Len(), ShouldEqual, 0)
		})

		Convey("Add panics on a double allocation of the same address", func() {
			l.Add(0x2000, 32)
			So(func() { l.Add(0x2000, 32) }, ShouldPanic)
		})

		Convey("Remove panics on an address that was never added", func() {
			So(func() { l.Remove(0x3000) }, ShouldPanic)
		})

		Convey("distinct addresses coexist regardless of shard collisions", func() {
			for i := uintptr(0); i < 500; i++ {
				l.Add(0x10000+i*8, 16)
			}
			So(l.Len(), ShouldEqual, 500)
		})
	})
}
