package bitset_test

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/bitset"
)

func TestAtomicSet(t *testing.T) {
	Convey("Given an atomic bitset of 256 bits", t, func() {
		s := bitset.NewAtomic(256)

		Convey("Set reports the prior value", func() {
			So(s.Set(10), ShouldBeFalse)
			So(s.Set(10), ShouldBeTrue)
			So(s.Get(10), ShouldBeTrue)
		})

		Convey("Clear reports the prior value", func() {
			s.Set(10)
			So(s.Clear(10), ShouldBeTrue)
			So(s.Clear(10), ShouldBeFalse)
			So(s.Get(10), ShouldBeFalse)
		})

		Convey("concurrent Set calls across disjoint bits all land", func() {
			var wg sync.WaitGroup
			for i := 0; i < 256; i++ {
				i := i
				wg.Add(1)
				go func() {
					defer wg.Done()
					s.Set(i)
				}()
			}
			wg.Wait()
			So(s.Empty(), ShouldBeFalse)
			for i := 0; i < 256; i++ {
				So(s.Get(i), ShouldBeTrue)
			}
		})

		Convey("concurrent PopFirst calls drain every bit exactly once", func() {
			for i := 0; i < 256; i++ {
				s.Set(i)
			}
			seen := make([]int32, 256)
			var mu sync.Mutex
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						i, ok := s.PopFirst()
						if !ok {
							return
						}
						mu.Lock()
						seen[i]++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			for i := 0; i < 256; i++ {
				So(seen[i], ShouldEqual, 1)
			}
		})
	})
}
