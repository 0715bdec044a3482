package roles_test

import (
	"testing"

	"github.com/parishops/rosterd/internal/domain/roles"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSchema(t *testing.T) {
	Convey("Every role has a label and a storage column", t, func() {
		all := roles.All()
		So(all, ShouldHaveLength, 15)
		for _, k := range all {
			def, ok := roles.Lookup(k)
			So(ok, ShouldBeTrue)
			So(def.Label, ShouldNotBeEmpty)
			So(roles.StorageColumn(k), ShouldNotBeEmpty)
		}
	})

	Convey("Known accepts only the closed key set", t, func() {
		k, ok := roles.Known("lem")
		So(ok, ShouldBeTrue)
		So(k, ShouldEqual, roles.LEM)

		_, ok = roles.Known("deacon")
		So(ok, ShouldBeFalse)
		_, ok = roles.Known("")
		So(ok, ShouldBeFalse)
	})

	Convey("Label falls back to the raw key for unknown input", t, func() {
		So(roles.Label(roles.LEM), ShouldEqual, "LEM / Chalice Bearer")
		So(roles.Label(roles.Key("mystery")), ShouldEqual, "mystery")
	})

	Convey("Assignment arity is fixed per role", t, func() {
		So(roles.Multi(roles.Lector), ShouldBeTrue)
		So(roles.Multi(roles.Usher), ShouldBeTrue)
		So(roles.Multi(roles.Celebrant), ShouldBeFalse)
		So(roles.Multi(roles.Organist), ShouldBeFalse)
	})
}

func TestServiceTimes(t *testing.T) {
	Convey("EarlyService recognizes both eight o'clock spellings", t, func() {
		So(roles.EarlyService("08:00"), ShouldBeTrue)
		So(roles.EarlyService("8:00"), ShouldBeTrue)
		So(roles.EarlyService(" 8:00 AM"), ShouldBeTrue)
		So(roles.EarlyService("10:00"), ShouldBeFalse)
		So(roles.EarlyService("18:00"), ShouldBeFalse)
	})

	Convey("RequiredForTime exposes the reduced early subset", t, func() {
		early := roles.RequiredForTime("08:00")
		So(early, ShouldResemble, []roles.Key{
			roles.Celebrant, roles.Preacher, roles.Lector, roles.Organist,
		})
		So(roles.RequiredForTime("10:00"), ShouldHaveLength, 15)
	})

	Convey("Rotation covers exactly the team-filled roles", t, func() {
		So(roles.RotationRoles(), ShouldResemble, []roles.Key{
			roles.LEM, roles.Acolyte, roles.Usher,
		})
	})
}
