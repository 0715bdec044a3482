package rotation

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// MembershipSource supplies team groupings for a rotation role: team
// number to member display names.
type MembershipSource interface {
	TeamMembers(ctx context.Context, role roles.Key) (map[int][]string, error)
}

// FallbackSource supplies a static roster used when the membership
// source has no teams at all. The same names land on every Sunday; no
// rotation applies.
type FallbackSource interface {
	Roster(ctx context.Context) (map[roles.Key][]string, error)
}

// Store is the slice of the schedule store the seeder needs.
type Store interface {
	// Empty reports whether the store holds no rows.
	Empty(ctx context.Context) (bool, error)
	// BulkInsert writes all rows as a single atomic batch.
	BulkInsert(ctx context.Context, rows []model.ScheduleRow) error
}

// Seeder performs the one-time bulk assignment of rotation teams to
// Sundays. It is guarded: a non-empty store makes Seed a no-op.
type Seeder struct {
	store       Store
	membership  MembershipSource
	fallback    FallbackSource
	teamCount   int
	serviceTime string
	collator    *collate.Collator
}

// Option applies a configuration option to the Seeder.
type Option func(*Seeder)

// WithTeamCount overrides the rotation cap.
func WithTeamCount(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.teamCount = n
		}
	}
}

// WithServiceTime sets the service time seeded rows are keyed under.
func WithServiceTime(t string) Option {
	return func(s *Seeder) {
		if t != "" {
			s.serviceTime = t
		}
	}
}

// WithFallback sets the secondary seed source.
func WithFallback(f FallbackSource) Option {
	return func(s *Seeder) {
		s.fallback = f
	}
}

// WithCollation sets the locale used to sort member names.
func WithCollation(tag language.Tag) Option {
	return func(s *Seeder) {
		s.collator = collate.New(tag)
	}
}

// NewSeeder creates a Seeder with default configuration: four teams,
// the 10:00 primary service, English collation, no fallback.
func NewSeeder(store Store, membership MembershipSource, opts ...Option) *Seeder {
	s := &Seeder{
		store:       store,
		membership:  membership,
		teamCount:   DefaultTeamCount,
		serviceTime: "10:00",
		collator:    collate.New(language.AmericanEnglish),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed writes exactly one schedule row per Sunday when the store is
// empty, filling the rotation-eligible roles from their team for that
// Sunday's slot. Returns the number of rows written; zero with a nil
// error means the guard declined to run.
func (s *Seeder) Seed(ctx context.Context, sundays []string) (int, error) {
	empty, err := s.store.Empty(ctx)
	if err != nil {
		return 0, fmt.Errorf("probe schedule store: %w", err)
	}
	if !empty {
		return 0, nil
	}
	if len(sundays) == 0 {
		return 0, nil
	}

	rotationRoles := roles.RotationRoles()
	membership := make(map[roles.Key]map[int][]string, len(rotationRoles))
	populated := false
	for _, role := range rotationRoles {
		teams, err := s.membership.TeamMembers(ctx, role)
		if err != nil {
			return 0, fmt.Errorf("load %s team membership: %w", role, err)
		}
		membership[role] = teams
		if len(teams) > 0 {
			populated = true
		}
	}

	var rows []model.ScheduleRow
	if populated {
		rows = s.rotatedRows(sundays, membership)
	} else {
		// Fallback policy: a static roster with no rotation.
		if s.fallback == nil {
			return 0, nil
		}
		roster, err := s.fallback.Roster(ctx)
		if err != nil {
			return 0, fmt.Errorf("load fallback roster: %w", err)
		}
		if len(roster) == 0 {
			return 0, nil
		}
		rows = s.staticRows(sundays, roster)
	}

	if err := s.store.BulkInsert(ctx, rows); err != nil {
		return 0, fmt.Errorf("insert seeded schedule: %w", err)
	}
	return len(rows), nil
}

func (s *Seeder) rotatedRows(sundays []string, membership map[roles.Key]map[int][]string) []model.ScheduleRow {
	table := Table(sundays, s.teamCount)
	rows := make([]model.ScheduleRow, 0, len(sundays))
	for _, date := range sundays {
		fields := make(map[roles.Key]string)
		team := table[date]
		for _, role := range roles.RotationRoles() {
			if team == 0 {
				fields[role] = ""
				continue
			}
			fields[role] = s.joinSorted(membership[role][team])
		}
		rows = append(rows, model.ScheduleRow{
			Date:        date,
			ServiceTime: s.serviceTime,
			Fields:      fields,
		})
	}
	return rows
}

func (s *Seeder) staticRows(sundays []string, roster map[roles.Key][]string) []model.ScheduleRow {
	rows := make([]model.ScheduleRow, 0, len(sundays))
	for _, date := range sundays {
		fields := make(map[roles.Key]string)
		for role, names := range roster {
			fields[role] = s.joinSorted(names)
		}
		rows = append(rows, model.ScheduleRow{
			Date:        date,
			ServiceTime: s.serviceTime,
			Fields:      fields,
		})
	}
	return rows
}

// joinSorted sorts names with the configured locale collation and joins
// them into a role field value. The input slice is not modified.
func (s *Seeder) joinSorted(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	s.collator.SortStrings(sorted)
	return strings.Join(sorted, ", ")
}
