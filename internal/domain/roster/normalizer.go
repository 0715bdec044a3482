// Package roster converts raw per-role assignment text into structured,
// status-tagged roster entries.
package roster

import (
	"strings"

	"github.com/google/uuid"

	"github.com/parishops/rosterd/internal/domain/directory"
	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// openMarker flags an explicitly unfilled slot in legacy free text.
const openMarker = "volunteer needed"

// openLabel is the display name given to synthesized placeholders.
const openLabel = "Volunteer Needed"

// Normalizer classifies raw schedule fields against a directory snapshot.
type Normalizer struct {
	dir *directory.Directory
}

// New creates a Normalizer over a directory snapshot.
func New(dir *directory.Directory) *Normalizer {
	return &Normalizer{dir: dir}
}

// Normalize classifies one raw role field. The value may be empty, a
// legacy single name, or a comma-joined list of names and ids. Tokens
// resolve id first, then by name; names not present in the directory
// become ephemeral guest people rather than errors; "volunteer needed"
// markers become open placeholders and drive the needs_support status.
func (n *Normalizer) Normalize(role roles.Key, raw string) model.Assignment {
	assignment := model.Assignment{Role: role, Status: model.StatusUnassigned}
	if strings.TrimSpace(raw) == "" {
		return assignment
	}

	seen := make(map[string]bool)
	for _, token := range strings.Split(raw, ",") {
		name := directory.CanonicalName(token)
		if name == "" {
			continue
		}

		var person model.Person
		switch {
		case strings.Contains(strings.ToLower(name), openMarker):
			person = newPlaceholder(role)
		default:
			if res := n.dir.Resolve(name); res.Kind == directory.Resolved {
				person = res.Person
			} else {
				person = newGuest(name, role)
			}
		}

		if roles.Multi(role) {
			// Multi-assignment roles hold a set: directory people dedupe
			// by id, guests by display name. Placeholders always count.
			key := person.ID
			if person.HasTag(model.TagGuest) {
				key = "guest:" + strings.ToLower(person.DisplayName)
			}
			if !person.HasTag(model.TagOpen) {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
		} else if len(assignment.People) > 0 {
			// Single-assignment roles keep the first person only.
			continue
		}
		assignment.People = append(assignment.People, person)
	}

	assignment.Status = deriveStatus(assignment.People)
	return assignment
}

// NormalizeRow normalizes every role the row's service time exposes.
// The early service exposes a reduced subset; the primary service
// exposes the full role set.
func (n *Normalizer) NormalizeRow(row model.ScheduleRow) map[roles.Key]model.Assignment {
	roster := make(map[roles.Key]model.Assignment)
	for _, k := range roles.RequiredForTime(row.ServiceTime) {
		roster[k] = n.Normalize(k, row.Fields[k])
	}
	return roster
}

func deriveStatus(people []model.Person) model.AssignmentStatus {
	if len(people) == 0 {
		return model.StatusUnassigned
	}
	for _, p := range people {
		if p.HasTag(model.TagOpen) {
			return model.StatusNeedsSupport
		}
	}
	return model.StatusAssigned
}

// newPlaceholder synthesizes the stand-in person for an open slot. The
// id is fresh on every call and never refers to a directory record.
func newPlaceholder(role roles.Key) model.Person {
	return model.Person{
		ID:          "open-" + uuid.NewString(),
		DisplayName: openLabel,
		Category:    model.CategoryVolunteer,
		Roles:       []roles.Key{role},
		Tags:        []string{model.TagOpen},
	}
}

// newGuest synthesizes an ephemeral person for an unresolved name.
func newGuest(name string, role roles.Key) model.Person {
	return model.Person{
		ID:          "guest-" + uuid.NewString(),
		DisplayName: name,
		Category:    model.CategoryVolunteer,
		Roles:       []roles.Key{role},
		Tags:        []string{model.TagGuest},
	}
}
