package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/pkg/logger"
)

// DirectoryStore reads people records from Postgres. The roles, tags
// and teams columns hold JSON; unknown role tokens are dropped here,
// at ingestion, so the domain only ever sees the closed vocabulary.
type DirectoryStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewDirectoryStore creates a directory reader over db.
func NewDirectoryStore(db *sql.DB, log logger.Logger) *DirectoryStore {
	return &DirectoryStore{db: db, log: log}
}

// ListPeople returns every directory record. Order by id is the
// directory iteration order the rest of the engine relies on.
func (s *DirectoryStore) ListPeople(ctx context.Context) ([]model.Person, error) {
	query := `
		SELECT id, display_name, email, category, roles, tags, teams
		FROM people
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var (
			p        model.Person
			email    sql.NullString
			category sql.NullString
			rawRoles []byte
			rawTags  []byte
			rawTeams []byte
		)
		if err := rows.Scan(&p.ID, &p.DisplayName, &email, &category, &rawRoles, &rawTags, &rawTeams); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		p.Email = email.String
		p.Category = normalizeCategory(category.String)
		p.Roles = parseRoles(rawRoles, s.log, p.ID)
		p.Tags = parseStrings(rawTags)
		p.Teams = parseTeams(rawTeams)
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

func normalizeCategory(raw string) model.Category {
	switch model.Category(raw) {
	case model.CategoryClergy, model.CategoryStaff, model.CategoryVolunteer:
		return model.Category(raw)
	default:
		return model.CategoryVolunteer
	}
}

// parseRoles decodes a JSON role list and keeps only recognized keys.
func parseRoles(raw []byte, log logger.Logger, personID string) []roles.Key {
	var tokens []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tokens); err != nil {
			return nil
		}
	}
	var keys []roles.Key
	for _, token := range tokens {
		k, ok := roles.Known(token)
		if !ok {
			if log != nil {
				log.Debug(context.Background(), "dropping unknown role token",
					logger.String("person", personID),
					logger.String("role", token),
				)
			}
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func parseStrings(raw []byte) []string {
	var out []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// parseTeams decodes {"lem": [1, 3], ...}; unknown roles and
// non-positive team numbers are dropped.
func parseTeams(raw []byte) map[roles.Key][]int {
	var decoded map[string][]int
	if len(raw) == 0 || json.Unmarshal(raw, &decoded) != nil {
		return nil
	}
	teams := make(map[roles.Key][]int, len(decoded))
	for token, nums := range decoded {
		k, ok := roles.Known(token)
		if !ok {
			continue
		}
		var kept []int
		for _, n := range nums {
			if n > 0 {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			teams[k] = kept
		}
	}
	if len(teams) == 0 {
		return nil
	}
	return teams
}
