// Package app provides the schedule assembler: it joins the calendar,
// the raw schedule rows and the people directory into per-Sunday
// aggregates and serves them from a single cached snapshot.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/parishops/rosterd/internal/domain/directory"
	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/internal/domain/roster"
	"github.com/parishops/rosterd/internal/domain/rotation"
	"github.com/parishops/rosterd/pkg/logger"
	"github.com/parishops/rosterd/pkg/metrics"
)

// DirectoryReader is the consumed directory collaborator contract.
type DirectoryReader interface {
	ListPeople(ctx context.Context) ([]model.Person, error)
}

// CalendarReader is the consumed liturgical calendar feed contract.
type CalendarReader interface {
	ListDays(ctx context.Context) ([]model.LiturgicalDay, error)
}

// ScheduleStore is the consumed schedule persistence contract.
type ScheduleStore interface {
	ListRows(ctx context.Context) ([]model.ScheduleRow, error)
	// UpsertRow writes one row keyed by (date, service time).
	UpsertRow(ctx context.Context, row model.ScheduleRow) error
	// Empty reports whether the store holds no rows.
	Empty(ctx context.Context) (bool, error)
	// BulkInsert writes rows as one atomic batch.
	BulkInsert(ctx context.Context, rows []model.ScheduleRow) error
}

// Snapshot is one immutable assembled view of the whole schedule.
// Repeated reads between writes return the identical snapshot.
type Snapshot struct {
	Generation uint64
	BuiltAt    time.Time
	Sundays    []model.Sunday
	Directory  *directory.Directory

	byDate map[string]int
}

// Sunday returns the aggregate for an ISO date.
func (s *Snapshot) Sunday(date string) (model.Sunday, bool) {
	i, ok := s.byDate[date]
	if !ok {
		return model.Sunday{}, false
	}
	return s.Sundays[i], true
}

// Service assembles and caches the schedule. One snapshot slot, coarse
// invalidation: any successful write clears the whole thing.
type Service struct {
	mu       sync.RWMutex
	snapshot *Snapshot

	generation uint64
	rebuilds   singleflight.Group

	directory DirectoryReader
	calendar  CalendarReader
	schedule  ScheduleStore

	primaryServiceTime string
	teamCount          int
	fallbackRoster     map[roles.Key][]string
	collation          language.Tag

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrimaryServiceTime sets the service time rotation rows are seeded
// under.
func WithPrimaryServiceTime(t string) Option {
	return func(s *Service) {
		if t != "" {
			s.primaryServiceTime = t
		}
	}
}

// WithTeamCount sets the rotation cap.
func WithTeamCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.teamCount = n
		}
	}
}

// WithFallbackRoster sets the static secondary seed source.
func WithFallbackRoster(roster map[roles.Key][]string) Option {
	return func(s *Service) {
		s.fallbackRoster = roster
	}
}

// WithCollationLocale sets the locale for seeder name sorting. Invalid
// tags keep the default.
func WithCollationLocale(locale string) Option {
	return func(s *Service) {
		if tag, err := language.Parse(locale); err == nil {
			s.collation = tag
		}
	}
}

// New constructs a Service over the three collaborator contracts.
func New(dir DirectoryReader, cal CalendarReader, sched ScheduleStore, opts ...Option) *Service {
	s := &Service{
		directory:          dir,
		calendar:           cal,
		schedule:           sched,
		primaryServiceTime: "10:00",
		teamCount:          rotation.DefaultTeamCount,
		collation:          language.AmericanEnglish,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Snapshot returns the cached snapshot, rebuilding it when empty.
// Concurrent cold reads coalesce into one rebuild; a failed rebuild
// leaves the slot unpopulated so the next read retries.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		metrics.RecordCacheHit()
		return snap, nil
	}

	v, err, _ := s.rebuilds.Do("snapshot", func() (interface{}, error) {
		built, err := s.rebuild(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snapshot = built
		s.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot. All-or-nothing; there is no
// per-date invalidation.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
	metrics.RecordCacheInvalidation()
}

// Sundays returns every assembled Sunday in calendar order.
func (s *Service) Sundays(ctx context.Context) ([]model.Sunday, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Sundays, nil
}

// Sunday returns the aggregate for one ISO date.
func (s *Service) Sunday(ctx context.Context, date string) (model.Sunday, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.Sunday{}, err
	}
	day, ok := snap.Sunday(date)
	if !ok {
		return model.Sunday{}, fmt.Errorf("%w: %s", ErrSundayUnknown, date)
	}
	return day, nil
}

// EligibleCandidates returns the people selectable for a role,
// independent of what is currently stored.
func (s *Service) EligibleCandidates(ctx context.Context, role roles.Key) ([]model.Person, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Directory.EligibleFor(role), nil
}

// TeamGroups returns the rotation team grouping for a role.
func (s *Service) TeamGroups(ctx context.Context, role roles.Key) (model.TeamAssignmentMap, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Directory.TeamGroups(role), nil
}

// SaveRoster upserts one schedule row and invalidates the snapshot. On
// write failure the error propagates and the cache is left intact, so
// readers keep the last-known-good view.
func (s *Service) SaveRoster(ctx context.Context, date, serviceTime string, fields map[roles.Key]string) error {
	row := model.ScheduleRow{Date: date, ServiceTime: serviceTime, Fields: fields}
	if err := s.schedule.UpsertRow(ctx, row); err != nil {
		metrics.RecordScheduleWriteError()
		return fmt.Errorf("save schedule row %s %s: %w", date, serviceTime, err)
	}
	metrics.RecordScheduleWrite()
	s.Invalidate()
	return nil
}

// SeedRotation runs the guarded one-time rotation seeder over the
// calendar's Sundays. Returns the number of rows written; zero means
// the store already had rows and the guard declined.
func (s *Service) SeedRotation(ctx context.Context) (int, error) {
	days, err := s.calendar.ListDays(ctx)
	if err != nil {
		metrics.RecordFetchError("calendar")
		return 0, fmt.Errorf("%w: calendar: %w", ErrFetch, err)
	}
	sundays := sundayDates(days)

	seeder := rotation.NewSeeder(
		s.schedule,
		&directoryMembership{reader: s.directory},
		rotation.WithTeamCount(s.teamCount),
		rotation.WithServiceTime(s.primaryServiceTime),
		rotation.WithFallback(staticFallback(s.fallbackRoster)),
		rotation.WithCollation(s.collation),
	)
	n, err := seeder.Seed(ctx, sundays)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordSeededRows(n)
		s.logger.Info(ctx, "seeded rotation schedule", logger.Int("rows", n))
		s.Invalidate()
	}
	return n, nil
}

// rebuild fetches all three collections and assembles a fresh snapshot.
// The directory lands first; calendar and schedule fetches run
// concurrently with each other.
func (s *Service) rebuild(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	people, err := s.directory.ListPeople(ctx)
	if err != nil {
		metrics.RecordFetchError("directory")
		return nil, fmt.Errorf("%w: directory: %w", ErrFetch, err)
	}
	dir := directory.New(people)

	var (
		days []model.LiturgicalDay
		rows []model.ScheduleRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if days, err = s.calendar.ListDays(gctx); err != nil {
			metrics.RecordFetchError("calendar")
			return fmt.Errorf("%w: calendar: %w", ErrFetch, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rows, err = s.schedule.ListRows(gctx); err != nil {
			metrics.RecordFetchError("schedule")
			return fmt.Errorf("%w: schedule: %w", ErrFetch, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := s.assemble(ctx, dir, days, rows)
	snap.Generation = atomic.AddUint64(&s.generation, 1)
	snap.BuiltAt = time.Now()

	durationMs := float64(time.Since(start).Milliseconds())
	metrics.RecordSnapshotRebuild(durationMs, float64(snap.BuiltAt.Unix()))
	metrics.UpdateTotalSundays(len(snap.Sundays))
	metrics.UpdateDirectoryPeople(dir.Len())
	s.logger.Info(ctx, "rebuilt schedule snapshot",
		logger.Int("sundays", len(snap.Sundays)),
		logger.Int("people", dir.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return snap, nil
}

// assemble joins the three collections day by day.
func (s *Service) assemble(ctx context.Context, dir *directory.Directory, days []model.LiturgicalDay, rows []model.ScheduleRow) *Snapshot {
	norm := roster.New(dir)

	byDate := make(map[string][]model.ScheduleRow)
	for _, row := range rows {
		if row.Date == "" {
			metrics.RecordMalformedRow()
			s.logger.Warn(ctx, "skipping schedule row without date", logger.String("time", row.ServiceTime))
			continue
		}
		if _, ok := parseServiceTime(row.ServiceTime); !ok {
			metrics.RecordMalformedRow()
			s.logger.Warn(ctx, "skipping schedule row with unparseable time",
				logger.String("date", row.Date),
				logger.String("time", row.ServiceTime),
			)
			continue
		}
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	ordered := make([]model.LiturgicalDay, len(days))
	copy(ordered, days)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	snap := &Snapshot{
		Directory: dir,
		byDate:    make(map[string]int),
	}
	for _, day := range ordered {
		dateKey := day.Date.Format("2006-01-02")
		dayRows := byDate[dateKey]
		sort.SliceStable(dayRows, func(i, j int) bool {
			ti, _ := parseServiceTime(dayRows[i].ServiceTime)
			tj, _ := parseServiceTime(dayRows[j].ServiceTime)
			return ti.Before(tj)
		})

		services := make([]model.ServiceInstance, 0, len(dayRows))
		for i, row := range dayRows {
			instance := model.ServiceInstance{
				Date:     dateKey,
				Time:     row.ServiceTime,
				Rite:     riteLabel(i, len(dayRows)),
				Location: defaultLocation(row.ServiceTime),
				Roster:   norm.NormalizeRow(row),
			}
			countSynthesized(instance.Roster)
			services = append(services, instance)
		}

		snap.byDate[dateKey] = len(snap.Sundays)
		snap.Sundays = append(snap.Sundays, model.Sunday{Day: day, Services: services})
	}
	return snap
}

// riteLabel infers the rite from chronological position. The label is
// positional inference, not stored data: a sole row is Rite II, the
// earlier of two is Rite I. Rows past the second are labeled by ordinal.
func riteLabel(index, total int) string {
	switch {
	case total == 1:
		return "Rite II"
	case index == 0:
		return "Rite I"
	case index == 1:
		return "Rite II"
	default:
		return fmt.Sprintf("Service %d", index+1)
	}
}

// defaultLocation mirrors parish practice: the early service meets in
// the chapel, everything else in the sanctuary.
func defaultLocation(serviceTime string) string {
	if roles.EarlyService(serviceTime) {
		return "chapel"
	}
	return "sanctuary"
}

// parseServiceTime accepts "15:04" and "3:04" clock strings.
func parseServiceTime(raw string) (time.Time, bool) {
	for _, layout := range []string{"15:04", "3:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// countSynthesized feeds the data-quality counters from one roster.
func countSynthesized(r map[roles.Key]model.Assignment) {
	for _, a := range r {
		for _, p := range a.People {
			switch {
			case p.HasTag(model.TagOpen):
				metrics.RecordPlaceholderSlot()
			case p.HasTag(model.TagGuest):
				metrics.RecordGuestPerson()
			}
		}
	}
}

// sundayDates filters calendar days to Sundays and returns their ISO
// dates in ascending order.
func sundayDates(days []model.LiturgicalDay) []string {
	var dates []string
	for _, day := range days {
		if day.Date.Weekday() == time.Sunday {
			dates = append(dates, day.Date.Format("2006-01-02"))
		}
	}
	sort.Strings(dates)
	return dates
}
