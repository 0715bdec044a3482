package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/pkg/logger"
)

// roleColumns is the schedule_roles column list in canonical role
// order, derived from the one declarative role schema.
var roleColumns = func() []string {
	keys := roles.All()
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = roles.StorageColumn(k)
	}
	return cols
}()

// ScheduleStore persists raw schedule rows keyed by (date, service
// time), one column per role holding comma-joined names.
type ScheduleStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewScheduleStore creates a schedule store over db.
func NewScheduleStore(db *sql.DB, log logger.Logger) *ScheduleStore {
	return &ScheduleStore{db: db, log: log}
}

// ListRows returns every schedule row ordered by date and time.
func (s *ScheduleStore) ListRows(ctx context.Context) ([]model.ScheduleRow, error) {
	query := fmt.Sprintf(
		"SELECT date, service_time, %s FROM schedule_roles ORDER BY date, service_time",
		strings.Join(roleColumns, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule rows: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduleRow
	for rows.Next() {
		var (
			date        time.Time
			serviceTime string
			fields      = make([]sql.NullString, len(roleColumns))
		)
		dest := make([]interface{}, 0, len(roleColumns)+2)
		dest = append(dest, &date, &serviceTime)
		for i := range fields {
			dest = append(dest, &fields[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", err)
		}

		row := model.ScheduleRow{
			Date:        date.Format("2006-01-02"),
			ServiceTime: serviceTime,
			Fields:      make(map[roles.Key]string, len(roleColumns)),
		}
		for i, k := range roles.All() {
			row.Fields[k] = fields[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule rows: %w", err)
	}
	return out, nil
}

// UpsertRow writes one row, replacing the role fields of an existing
// (date, service_time) row.
func (s *ScheduleStore) UpsertRow(ctx context.Context, row model.ScheduleRow) error {
	if _, err := s.db.ExecContext(ctx, upsertQuery, rowArgs(row)...); err != nil {
		return fmt.Errorf("failed to upsert schedule row: %w", err)
	}
	return nil
}

// Empty reports whether the store holds no rows.
func (s *ScheduleStore) Empty(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schedule_roles)").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to probe schedule rows: %w", err)
	}
	return !exists, nil
}

// BulkInsert writes all rows in a single transaction. No partial batch
// is ever observable: any failure rolls the whole insert back.
func (s *ScheduleStore) BulkInsert(ctx context.Context, batch []model.ScheduleRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare bulk insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range batch {
		if _, err := stmt.ExecContext(ctx, rowArgs(row)...); err != nil {
			return fmt.Errorf("failed to insert schedule row %s %s: %w", row.Date, row.ServiceTime, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

var (
	insertQuery = buildInsertQuery(false)
	upsertQuery = buildInsertQuery(true)
)

func buildInsertQuery(upsert bool) string {
	cols := append([]string{"date", "service_time"}, roleColumns...)
	params := make([]string, len(cols))
	for i := range cols {
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO schedule_roles (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(params, ", "))
	if upsert {
		sets := make([]string, len(roleColumns))
		for i, col := range roleColumns {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
		}
		fmt.Fprintf(&b, " ON CONFLICT (date, service_time) DO UPDATE SET %s",
			strings.Join(sets, ", "))
	}
	return b.String()
}

func rowArgs(row model.ScheduleRow) []interface{} {
	args := make([]interface{}, 0, len(roleColumns)+2)
	args = append(args, row.Date, row.ServiceTime)
	for _, k := range roles.All() {
		args = append(args, row.Fields[k])
	}
	return args
}
