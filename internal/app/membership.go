package app

import (
	"context"

	"github.com/parishops/rosterd/internal/domain/directory"
	"github.com/parishops/rosterd/internal/domain/roles"
)

// directoryMembership adapts the directory collaborator to the seeder's
// membership contract: team number to member display names, in
// directory order.
type directoryMembership struct {
	reader DirectoryReader
}

func (m *directoryMembership) TeamMembers(ctx context.Context, role roles.Key) (map[int][]string, error) {
	people, err := m.reader.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	dir := directory.New(people)

	teams := make(map[int][]string)
	for _, p := range dir.EligibleFor(role) {
		for _, team := range p.Teams[role] {
			if team <= 0 {
				continue
			}
			teams[team] = append(teams[team], p.DisplayName)
		}
	}
	return teams, nil
}

// staticFallback is the secondary seed source built from configuration.
type staticFallback map[roles.Key][]string

func (f staticFallback) Roster(_ context.Context) (map[roles.Key][]string, error) {
	return f, nil
}
