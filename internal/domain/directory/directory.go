// Package directory indexes the people directory and answers the three
// questions the scheduling engine asks of it: what person does a raw
// token denote, who is eligible for a role, and how do the eligible
// people group into rotation teams.
package directory

import (
	"strings"

	"github.com/parishops/rosterd/internal/domain/model"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// ResolutionKind tags the outcome of resolving a raw token.
type ResolutionKind int

// Resolution outcomes.
const (
	// Resolved means the token matched a directory person.
	Resolved ResolutionKind = iota
	// Placeholder means the token denotes an explicit open slot rather
	// than a person. The directory never produces this kind itself; the
	// roster normalizer does, for "volunteer needed" markers.
	Placeholder
	// Unmatched means the token matched nothing and is retained as raw
	// text.
	Unmatched
)

// Resolution is the tagged result of resolving one token.
type Resolution struct {
	Kind   ResolutionKind
	Person model.Person // set when Kind == Resolved
	Reason string       // set when Kind == Placeholder
	Raw    string       // set when Kind == Unmatched
}

// Directory is an immutable index over a directory snapshot. Iteration
// order everywhere is the order people arrived in, never a sort.
type Directory struct {
	people  []model.Person
	byID    map[string]int
	byName  map[string]int
	byFirst map[string][]int
}

// CanonicalName trims a raw name and collapses interior whitespace.
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// New builds a directory index. Later records win duplicate ids or
// display names.
func New(people []model.Person) *Directory {
	d := &Directory{
		people:  people,
		byID:    make(map[string]int, len(people)),
		byName:  make(map[string]int, len(people)),
		byFirst: make(map[string][]int, len(people)),
	}
	for i, p := range people {
		if p.ID != "" {
			d.byID[p.ID] = i
		}
		if name := CanonicalName(p.DisplayName); name != "" {
			lower := strings.ToLower(name)
			d.byName[lower] = i
			first, _, _ := strings.Cut(lower, " ")
			d.byFirst[first] = append(d.byFirst[first], i)
		}
	}
	return d
}

// Len returns the number of directory people.
func (d *Directory) Len() int {
	return len(d.people)
}

// People returns the directory records in insertion order.
func (d *Directory) People() []model.Person {
	return d.people
}

// Resolve maps a raw token to a person: exact id match first, then the
// display-name phases of ResolveName, otherwise the raw token is kept
// as an Unmatched resolution.
func (d *Directory) Resolve(token string) Resolution {
	if i, ok := d.byID[token]; ok {
		return Resolution{Kind: Resolved, Person: d.people[i]}
	}
	if p, ok := d.ResolveName(token); ok {
		return Resolution{Kind: Resolved, Person: p}
	}
	return Resolution{Kind: Unmatched, Raw: token}
}

// ResolveName matches a free-text name against display names only:
// case-insensitive full match first, then a lone first name when it
// identifies exactly one person. Ambiguous first names stay unmatched.
func (d *Directory) ResolveName(name string) (model.Person, bool) {
	lower := strings.ToLower(CanonicalName(name))
	if i, ok := d.byName[lower]; ok {
		return d.people[i], true
	}
	if lower == "" || strings.Contains(lower, " ") {
		return model.Person{}, false
	}
	if matches := d.byFirst[lower]; len(matches) == 1 {
		return d.people[matches[0]], true
	}
	return model.Person{}, false
}

// EligibleFor returns, in directory order, the people whose role set
// contains k. Eligibility is independent of what is currently stored:
// a stale assignment keeps displaying a now-ineligible person, but the
// person does not appear here.
func (d *Directory) EligibleFor(k roles.Key) []model.Person {
	var out []model.Person
	for _, p := range d.people {
		if p.HasRole(k) {
			out = append(out, p)
		}
	}
	return out
}

// TeamGroups buckets the people eligible for k by rotation team number.
// A person listing several team numbers appears under each. Bucket order
// follows directory order; ties are not broken further.
func (d *Directory) TeamGroups(k roles.Key) model.TeamAssignmentMap {
	groups := make(model.TeamAssignmentMap)
	for _, p := range d.EligibleFor(k) {
		for _, team := range p.Teams[k] {
			if team <= 0 {
				continue
			}
			groups[team] = append(groups[team], p.ID)
		}
	}
	return groups
}
