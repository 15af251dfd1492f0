package elastic_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/elastic"
)

func less(a, b uint32) bool { return a < b }

func TestHeap(t *testing.T) {
	Convey("Given an empty min-heap of uint32", t, func() {
		h, err := elastic.NewHeap[uint32](1024, testPageSize, less)
		So(err, ShouldBeNil)
		So(h.Empty(), ShouldBeTrue)

		Convey("pushed values pop out in ascending order", func() {
			for _, v := range []uint32{5, 1, 9, 3, 7, 2} {
				h.PushValue(v)
			}
			So(h.Size(), ShouldEqual, 6)

			var out []uint32
			for !h.Empty() {
				out = append(out, h.PopValue())
			}
			So(out, ShouldResemble, []uint32{1, 2, 3, 5, 7, 9})
		})

		Convey("Top peeks the minimum without removing it", func() {
			h.PushValue(10)
			h.PushValue(4)
			So(h.Top(), ShouldEqual, uint32(4))
			So(h.Size(), ShouldEqual, 2)
		})

		Convey("Erase removes a value from the middle of the heap", func() {
			for _, v := range []uint32{5, 1, 9, 3, 7, 2} {
				h.PushValue(v)
			}
			So(h.Erase(7), ShouldBeTrue)
			So(h.Erase(100), ShouldBeFalse)

			var out []uint32
			for !h.Empty() {
				out = append(out, h.PopValue())
			}
			So(out, ShouldResemble, []uint32{1, 2, 3, 5, 9})
		})
	})
}
