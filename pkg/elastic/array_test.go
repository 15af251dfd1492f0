package elastic_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/elastic"
)

const testPageSize = 4096

func TestArray(t *testing.T) {
	Convey("Given an array reserved for 1 million uint32 elements", t, func() {
		a, err := elastic.NewArray[uint32](1_000_000, testPageSize)
		So(err, ShouldBeNil)
		So(a.Cap(), ShouldEqual, 1_000_000)
		So(a.Len(), ShouldEqual, 0)
		So(a.Committed(), ShouldEqual, 0)

		Convey("pushing commits pages lazily", func() {
			for i := uint32(0); i < 10; i++ {
				a.PushBack(i)
			}
			So(a.Len(), ShouldEqual, 10)
			So(a.Committed(), ShouldBeGreaterThanOrEqualTo, 10)
			for i := uint32(0); i < 10; i++ {
				So(a.Get(int(i)), ShouldEqual, i)
			}
		})

		Convey("popping back down decommits trailing pages", func() {
			elemsPerPage := testPageSize / 4
			for i := 0; i < elemsPerPage*3; i++ {
				a.PushBack(uint32(i))
			}
			committedAtPeak := a.Committed()
			for i := 0; i < elemsPerPage*2+elemsPerPage/2; i++ {
				a.PopBack()
			}
			So(a.Committed(), ShouldBeLessThan, committedAtPeak)
		})

		Convey("Set overwrites an existing element", func() {
			a.PushBack(1)
			a.PushBack(2)
			a.Set(0, 99)
			So(a.Get(0), ShouldEqual, 99)
			So(a.Back(), ShouldEqual, 2)
		})
	})
}
