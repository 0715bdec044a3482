package roster_test

import (
	"testing"

	"github.com/parishops/rosterd/internal/domain/directory"
	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func testDirectory() *directory.Directory {
	return directory.New([]model.Person{
		{ID: "p1", DisplayName: "Jane Doe", Category: model.CategoryVolunteer, Roles: []roles.Key{roles.Lector, roles.LEM}},
		{ID: "p2", DisplayName: "John Smith", Category: model.CategoryClergy, Roles: []roles.Key{roles.Celebrant}},
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer over a small directory", t, func() {
		n := roster.New(testDirectory())

		Convey("An empty field is unassigned with nobody attached", func() {
			a := n.Normalize(roles.Lector, "")
			So(a.Status, ShouldEqual, model.StatusUnassigned)
			So(a.People, ShouldBeEmpty)

			a = n.Normalize(roles.Lector, "   ")
			So(a.Status, ShouldEqual, model.StatusUnassigned)
			So(a.People, ShouldBeEmpty)
		})

		Convey("A volunteer-needed marker becomes an open placeholder", func() {
			a := n.Normalize(roles.Lector, "Volunteer Needed")
			So(a.Status, ShouldEqual, model.StatusNeedsSupport)
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].HasTag(model.TagOpen), ShouldBeTrue)
			So(a.People[0].DisplayName, ShouldEqual, "Volunteer Needed")
			So(a.People[0].ID, ShouldStartWith, "open-")
		})

		Convey("The marker matches case-insensitively inside the token", func() {
			a := n.Normalize(roles.Lector, "volunteer needed (am)")
			So(a.Status, ShouldEqual, model.StatusNeedsSupport)
			So(a.People[0].HasTag(model.TagOpen), ShouldBeTrue)
		})

		Convey("A mixed list keeps the match and synthesizes a guest", func() {
			a := n.Normalize(roles.Lector, "Jane Doe, Someone Unknown")
			So(a.Status, ShouldEqual, model.StatusAssigned)
			So(a.People, ShouldHaveLength, 2)
			So(a.People[0].ID, ShouldEqual, "p1")
			So(a.People[1].HasTag(model.TagGuest), ShouldBeTrue)
			So(a.People[1].DisplayName, ShouldEqual, "Someone Unknown")
			So(a.People[1].ID, ShouldStartWith, "guest-")
		})

		Convey("A stored person id resolves to the directory person", func() {
			a := n.Normalize(roles.Lector, "p1")
			So(a.Status, ShouldEqual, model.StatusAssigned)
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].ID, ShouldEqual, "p1")
			So(a.People[0].DisplayName, ShouldEqual, "Jane Doe")
			So(a.People[0].HasTag(model.TagGuest), ShouldBeFalse)
		})

		Convey("Ids and names mix within one field", func() {
			a := n.Normalize(roles.Lector, "p1, John Smith, Someone Unknown")
			So(a.People, ShouldHaveLength, 3)
			So(a.People[0].ID, ShouldEqual, "p1")
			So(a.People[1].ID, ShouldEqual, "p2")
			So(a.People[2].HasTag(model.TagGuest), ShouldBeTrue)
		})

		Convey("An id and its display name collapse to one person", func() {
			a := n.Normalize(roles.Lector, "p1, Jane Doe")
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].ID, ShouldEqual, "p1")
		})

		Convey("Name matching ignores case and surrounding whitespace", func() {
			a := n.Normalize(roles.Lector, "  jane   doe  ")
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].ID, ShouldEqual, "p1")
			So(a.Status, ShouldEqual, model.StatusAssigned)
		})

		Convey("A legacy lone first name resolves when unambiguous", func() {
			a := n.Normalize(roles.Lector, "Jane")
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].ID, ShouldEqual, "p1")
			So(a.People[0].HasTag(model.TagGuest), ShouldBeFalse)
		})

		Convey("Multi-assignment roles dedupe directory people by id", func() {
			a := n.Normalize(roles.Lector, "Jane Doe, jane doe, Jane Doe")
			So(a.People, ShouldHaveLength, 1)
		})

		Convey("Guests dedupe by lowercased name, placeholders never do", func() {
			a := n.Normalize(roles.Lector, "Stranger, stranger, Volunteer Needed, Volunteer Needed")
			So(a.People, ShouldHaveLength, 3)
			So(a.Status, ShouldEqual, model.StatusNeedsSupport)
		})

		Convey("Single-assignment roles keep the first person only", func() {
			a := n.Normalize(roles.Celebrant, "John Smith, Jane Doe")
			So(a.People, ShouldHaveLength, 1)
			So(a.People[0].ID, ShouldEqual, "p2")
		})

		Convey("An open marker ahead of a match still flags the slot", func() {
			a := n.Normalize(roles.LEM, "Volunteer Needed, Jane Doe")
			So(a.People, ShouldHaveLength, 2)
			So(a.Status, ShouldEqual, model.StatusNeedsSupport)
		})
	})
}

func TestNormalizeRow(t *testing.T) {
	Convey("Given a normalizer over a small directory", t, func() {
		n := roster.New(testDirectory())

		Convey("A primary-service row exposes the full role set", func() {
			got := n.NormalizeRow(model.ScheduleRow{
				Date:        "2026-03-01",
				ServiceTime: "10:00",
				Fields: map[roles.Key]string{
					roles.Celebrant: "John Smith",
					roles.Lector:    "Jane Doe",
				},
			})
			So(len(got), ShouldEqual, len(roles.All()))
			So(got[roles.Celebrant].Status, ShouldEqual, model.StatusAssigned)
			So(got[roles.Usher].Status, ShouldEqual, model.StatusUnassigned)
		})

		Convey("An early-service row exposes the reduced subset", func() {
			got := n.NormalizeRow(model.ScheduleRow{
				Date:        "2026-03-01",
				ServiceTime: "08:00",
				Fields: map[roles.Key]string{
					roles.Celebrant: "John Smith",
					roles.Usher:     "Jane Doe",
				},
			})
			So(len(got), ShouldEqual, 4)
			So(got, ShouldContainKey, roles.Celebrant)
			So(got, ShouldNotContainKey, roles.Usher)
		})
	})
}
