// Package rotation deterministically assigns rotating volunteer teams to
// the ordered sequence of calendar Sundays and seeds the schedule store
// from the result.
package rotation

// DefaultTeamCount caps the rotation. Sundays whose index within their
// month exceeds the cap get no team.
const DefaultTeamCount = 4

// Table maps each Sunday date (ISO "2006-01-02", ascending) to its
// 1-based team number. The index resets to 1 on the first Sunday of each
// month; a Sunday past teamCount within its month maps to 0, meaning the
// rotation leaves it empty. That cap is policy, not an error.
func Table(sundays []string, teamCount int) map[string]int {
	if teamCount <= 0 {
		teamCount = DefaultTeamCount
	}

	table := make(map[string]int, len(sundays))
	currentMonth := ""
	index := 0
	for _, date := range sundays {
		if len(date) < 7 {
			table[date] = 0
			continue
		}
		monthKey := date[:7]
		if monthKey != currentMonth {
			currentMonth = monthKey
			index = 0
		}
		index++
		if index > teamCount {
			table[date] = 0
			continue
		}
		table[date] = index
	}
	return table
}
