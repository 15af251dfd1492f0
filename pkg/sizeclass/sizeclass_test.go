package sizeclass_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/romanpauk/elasticheap-go/pkg/sizeclass"
)

func TestRoundUp(t *testing.T) {
	Convey("RoundUp picks the smallest fitting class", t, func() {
		cases := map[int]int{
			1:     8,
			8:     8,
			9:     12,
			17:    24,
			96:    96,
			97:    128,
			16384: 16384,
		}
		for in, want := range cases {
			got, ok := sizeclass.RoundUp(in)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}
	})

	Convey("RoundUp rejects sizes above the largest class", t, func() {
		_, ok := sizeclass.RoundUp(sizeclass.Max + 1)
		So(ok, ShouldBeFalse)
	})
}

func TestIndexRoundTrip(t *testing.T) {
	Convey("every class round-trips through IndexOf/ClassOf", t, func() {
		for i, c := range sizeclass.Classes {
			So(sizeclass.IndexOf(c), ShouldEqual, i)
			So(sizeclass.ClassOf(i), ShouldEqual, c)
		}
	})
}
