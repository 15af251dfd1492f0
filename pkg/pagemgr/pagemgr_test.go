package pagemgr_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/romanpauk/elasticheap-go/pkg/pagemgr"
)

const (
	testPageSize = 4096
	testMaxSize  = testPageSize * 64
)

func TestManager(t *testing.T) {
	Convey("Given a page manager over a small reservation", t, func() {
		m, err := pagemgr.New(testPageSize, testMaxSize)
		require.NoError(t, err)
		So(m.PageCount(), ShouldEqual, uint32(64))

		Convey("allocating pages advances the high-water mark", func() {
			a := m.AllocatePage()
			b := m.AllocatePage()
			So(a, ShouldNotEqual, b)
			So(m.PageOf(a), ShouldEqual, a)
			So(m.PageIndex(b), ShouldEqual, m.PageIndex(a)+1)
		})

		Convey("a deallocated page is reused before extending the high-water mark", func() {
			a := m.AllocatePage()
			m.DeallocatePage(a)
			b := m.AllocatePage()
			So(b, ShouldEqual, a)
		})

		Convey("PageOf recovers the page base from any interior pointer", func() {
			a := m.AllocatePage()
			interior := a + 100
			So(m.PageOf(interior), ShouldEqual, a)
		})
	})
}
