package rotation_test

import (
	"testing"

	rotation "github.com/parishops/rosterd/internal/domain/rotation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given the Sundays of a month", t, func() {
		sundays := []string{
			"2026-03-01", "2026-03-08", "2026-03-15", "2026-03-22", "2026-03-29",
		}

		Convey("When building the rotation table", func() {
			table := rotation.Table(sundays, rotation.DefaultTeamCount)

			Convey("Then the index starts at 1 and increases by one per Sunday", func() {
				So(table["2026-03-01"], ShouldEqual, 1)
				So(table["2026-03-08"], ShouldEqual, 2)
				So(table["2026-03-15"], ShouldEqual, 3)
				So(table["2026-03-22"], ShouldEqual, 4)
			})

			Convey("And a fifth Sunday maps to no team", func() {
				So(table["2026-03-29"], ShouldEqual, 0)
			})
		})
	})

	Convey("Given Sundays spanning a month boundary", t, func() {
		sundays := []string{
			"2026-03-22", "2026-03-29", "2026-04-05", "2026-04-12",
		}

		Convey("When building the rotation table", func() {
			table := rotation.Table(sundays, rotation.DefaultTeamCount)

			Convey("Then the index resets to 1 on the first Sunday of the next month", func() {
				So(table["2026-04-05"], ShouldEqual, 1)
				So(table["2026-04-12"], ShouldEqual, 2)
			})
		})
	})

	Convey("Given a custom team count", t, func() {
		sundays := []string{"2026-05-03", "2026-05-10", "2026-05-17"}

		Convey("When the cap is two teams", func() {
			table := rotation.Table(sundays, 2)

			Convey("Then Sundays past the cap get no team", func() {
				So(table["2026-05-03"], ShouldEqual, 1)
				So(table["2026-05-10"], ShouldEqual, 2)
				So(table["2026-05-17"], ShouldEqual, 0)
			})
		})

		Convey("When the cap is non-positive", func() {
			table := rotation.Table(sundays, 0)

			Convey("Then the default cap applies", func() {
				So(table["2026-05-17"], ShouldEqual, 3)
			})
		})
	})

	Convey("Given a malformed date", t, func() {
		table := rotation.Table([]string{"bad", "2026-06-07"}, 4)

		Convey("Then it maps to no team without disturbing the rest", func() {
			So(table["bad"], ShouldEqual, 0)
			So(table["2026-06-07"], ShouldEqual, 1)
		})
	})
}
