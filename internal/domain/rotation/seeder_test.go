package rotation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/internal/domain/rotation"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeStore struct {
	empty     bool
	emptyErr  error
	inserted  []model.ScheduleRow
	insertErr error
}

func (s *fakeStore) Empty(_ context.Context) (bool, error) {
	return s.empty, s.emptyErr
}

func (s *fakeStore) BulkInsert(_ context.Context, rows []model.ScheduleRow) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = rows
	return nil
}

type fakeMembership struct {
	teams map[roles.Key]map[int][]string
	err   error
}

func (m *fakeMembership) TeamMembers(_ context.Context, role roles.Key) (map[int][]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.teams[role], nil
}

type fakeFallback struct {
	roster map[roles.Key][]string
}

func (f *fakeFallback) Roster(_ context.Context) (map[roles.Key][]string, error) {
	return f.roster, nil
}

func TestSeeder(t *testing.T) {
	ctx := context.Background()
	sundays := []string{
		"2026-03-01", "2026-03-08", "2026-03-15", "2026-03-22", "2026-03-29",
	}

	Convey("Given team membership and an empty store", t, func() {
		store := &fakeStore{empty: true}
		membership := &fakeMembership{teams: map[roles.Key]map[int][]string{
			roles.LEM:     {1: {"Walt Whitman", "Ada Byron"}, 2: {"Carl Sagan"}},
			roles.Acolyte: {1: {"Maya Angelou"}},
			roles.Usher:   {},
		}}
		seeder := rotation.NewSeeder(store, membership)

		Convey("When seeding", func() {
			n, err := seeder.Seed(ctx, sundays)

			Convey("Then one row per Sunday lands in a single batch", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 5)
				So(store.inserted, ShouldHaveLength, 5)
				So(store.inserted[0].Date, ShouldEqual, "2026-03-01")
				So(store.inserted[0].ServiceTime, ShouldEqual, "10:00")
			})

			Convey("And team names are joined in collated order", func() {
				So(store.inserted[0].Fields[roles.LEM], ShouldEqual, "Ada Byron, Walt Whitman")
				So(store.inserted[1].Fields[roles.LEM], ShouldEqual, "Carl Sagan")
				So(store.inserted[0].Fields[roles.Acolyte], ShouldEqual, "Maya Angelou")
			})

			Convey("And teams without members leave the field empty", func() {
				So(store.inserted[0].Fields[roles.Usher], ShouldEqual, "")
				So(store.inserted[2].Fields[roles.LEM], ShouldEqual, "")
			})

			Convey("And the fifth Sunday has every rotation field empty", func() {
				fifth := store.inserted[4]
				So(fifth.Fields[roles.LEM], ShouldEqual, "")
				So(fifth.Fields[roles.Acolyte], ShouldEqual, "")
				So(fifth.Fields[roles.Usher], ShouldEqual, "")
			})
		})
	})

	Convey("Given a non-empty store", t, func() {
		store := &fakeStore{empty: false}
		seeder := rotation.NewSeeder(store, &fakeMembership{})

		Convey("When seeding", func() {
			n, err := seeder.Seed(ctx, sundays)

			Convey("Then the guard declines without inserting", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				So(store.inserted, ShouldBeNil)
			})
		})
	})

	Convey("Given no team membership at all", t, func() {
		store := &fakeStore{empty: true}
		membership := &fakeMembership{teams: map[roles.Key]map[int][]string{}}

		Convey("When a fallback roster exists", func() {
			seeder := rotation.NewSeeder(store, membership,
				rotation.WithFallback(&fakeFallback{roster: map[roles.Key][]string{
					roles.Usher: {"Zora Hurston", "Al Green"},
				}}),
			)
			n, err := seeder.Seed(ctx, sundays)

			Convey("Then the same names land on every Sunday, unrotated", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 5)
				for _, row := range store.inserted {
					So(row.Fields[roles.Usher], ShouldEqual, "Al Green, Zora Hurston")
				}
			})
		})

		Convey("When no fallback is configured", func() {
			seeder := rotation.NewSeeder(store, membership)
			n, err := seeder.Seed(ctx, sundays)

			Convey("Then nothing is seeded", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a failing store probe", t, func() {
		store := &fakeStore{emptyErr: errors.New("boom")}
		seeder := rotation.NewSeeder(store, &fakeMembership{})

		Convey("When seeding", func() {
			_, err := seeder.Seed(ctx, sundays)

			Convey("Then the error propagates", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
