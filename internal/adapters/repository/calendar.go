package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/pkg/logger"
)

// CalendarStore reads the liturgical calendar feed from Postgres. The
// feed is reference data: this adapter never writes it.
type CalendarStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewCalendarStore creates a calendar reader over db.
func NewCalendarStore(db *sql.DB, log logger.Logger) *CalendarStore {
	return &CalendarStore{db: db, log: log}
}

// ListDays returns every calendar day in ascending date order.
func (s *CalendarStore) ListDays(ctx context.Context) ([]model.LiturgicalDay, error) {
	query := `
		SELECT date, feast, color, readings
		FROM liturgical_days
		ORDER BY date
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query liturgical days: %w", err)
	}
	defer rows.Close()

	var days []model.LiturgicalDay
	for rows.Next() {
		var (
			day      model.LiturgicalDay
			date     time.Time
			feast    sql.NullString
			color    sql.NullString
			readings sql.NullString
		)
		if err := rows.Scan(&date, &feast, &color, &readings); err != nil {
			return nil, fmt.Errorf("failed to scan liturgical day: %w", err)
		}
		day.Date = date
		day.Feast = feast.String
		day.Color = color.String
		day.Readings = readings.String
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liturgical days: %w", err)
	}
	return days, nil
}
