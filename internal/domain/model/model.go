// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/parishops/rosterd/internal/domain/roles"
)

// Category classifies a directory person.
type Category string

// Person categories.
const (
	CategoryClergy    Category = "clergy"
	CategoryStaff     Category = "staff"
	CategoryVolunteer Category = "volunteer"
)

// Tags carried by synthesized, non-directory people.
const (
	TagOpen  = "open"  // explicit "volunteer needed" placeholder
	TagGuest = "guest" // unresolved free-text name
)

// Person is a directory record. Roles holds only recognized role keys;
// unknown tokens are dropped at ingestion. Teams maps a role to the
// rotation team numbers the person serves on.
type Person struct {
	ID          string
	DisplayName string
	Email       string
	Category    Category
	Roles       []roles.Key
	Tags        []string
	Teams       map[roles.Key][]int
}

// HasRole reports whether the person is eligible for a role.
func (p Person) HasRole(k roles.Key) bool {
	for _, r := range p.Roles {
		if r == k {
			return true
		}
	}
	return false
}

// HasTag reports whether the person carries a tag.
func (p Person) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LiturgicalDay is one calendar day from the liturgical feed. Read-only
// reference data; this engine never computes or mutates it.
type LiturgicalDay struct {
	Date     time.Time
	Feast    string
	Color    string
	Readings string
}

// ScheduleRow is the persisted raw assignment state for one service,
// keyed by (date, service time). Each role field holds a comma-joined
// list of person ids or free-text names.
type ScheduleRow struct {
	Date        string // ISO calendar date, e.g. "2026-03-01"
	ServiceTime string // e.g. "10:00"
	Fields      map[roles.Key]string
}

// AssignmentStatus classifies a normalized role assignment.
type AssignmentStatus string

// Assignment statuses.
const (
	StatusUnassigned   AssignmentStatus = "unassigned"
	StatusNeedsSupport AssignmentStatus = "needs_support"
	StatusAssigned     AssignmentStatus = "assigned"
)

// Assignment is the normalized state of one role for one service.
// Derived on read; never persisted.
type Assignment struct {
	Role   roles.Key
	Status AssignmentStatus
	People []Person
}

// ServiceInstance is one assembled service: a schedule row joined with
// the directory and classified per role. Ephemeral.
type ServiceInstance struct {
	Date     string
	Time     string
	Rite     string
	Location string
	Roster   map[roles.Key]Assignment
}

// Sunday aggregates a liturgical day with its assembled services.
type Sunday struct {
	Day      LiturgicalDay
	Services []ServiceInstance
}

// TeamAssignmentMap groups eligible person ids by rotation team number
// for one role. Derived from Person.Teams on every directory load.
type TeamAssignmentMap map[int][]string
