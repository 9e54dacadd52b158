package types_test

import (
	"testing"

	types "github.com/okian/runboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry_RanksBefore(t *testing.T) {
	Convey("Given two entries", t, func() {
		Convey("When times differ", func() {
			fast := types.Entry{Name: "fast", Time: 90, Items: 10}
			slow := types.Entry{Name: "slow", Time: 120, Items: 1}

			Convey("Then the lower time ranks first regardless of items", func() {
				So(fast.RanksBefore(slow), ShouldBeTrue)
				So(slow.RanksBefore(fast), ShouldBeFalse)
			})
		})

		Convey("When times tie", func() {
			a := types.Entry{Time: 100, Items: 3}
			b := types.Entry{Time: 100, Items: 5}

			Convey("Then fewer items ranks first", func() {
				So(a.RanksBefore(b), ShouldBeTrue)
				So(b.RanksBefore(a), ShouldBeFalse)
			})
		})

		Convey("When time and items tie", func() {
			a := types.Entry{Name: "a", Time: 100, Items: 3}
			b := types.Entry{Name: "b", Time: 100, Items: 3}

			Convey("Then neither ranks before the other", func() {
				So(a.RanksBefore(b), ShouldBeFalse)
				So(b.RanksBefore(a), ShouldBeFalse)
			})
		})
	})
}

func TestIsOrdered(t *testing.T) {
	Convey("Given entry sequences", t, func() {
		Convey("Then empty and single sequences are ordered", func() {
			So(types.IsOrdered(nil), ShouldBeTrue)
			So(types.IsOrdered([]types.Entry{{Time: 5}}), ShouldBeTrue)
		})

		Convey("Then a sorted sequence with ties is ordered", func() {
			entries := []types.Entry{
				{Time: 90, Items: 10},
				{Time: 100, Items: 3},
				{Time: 100, Items: 3},
				{Time: 100, Items: 7},
			}
			So(types.IsOrdered(entries), ShouldBeTrue)
		})

		Convey("Then an items inversion is detected", func() {
			entries := []types.Entry{
				{Time: 100, Items: 7},
				{Time: 100, Items: 3},
			}
			So(types.IsOrdered(entries), ShouldBeFalse)
		})
	})
}
