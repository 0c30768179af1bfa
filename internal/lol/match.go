package lol

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// officialIDParts is the number of '-' separated parts in a scrim match id
// such as 2024-01-08-1. Official match ids carry more.
const officialIDParts = 4

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// IsOfficialID returns true if the match id has the shape of an official
// (tournament) match rather than a scrim.
func IsOfficialID(id string) bool {
	return len(strings.Split(id, "-")) > officialIDParts
}

// DateFromID returns the calendar date (UTC midnight) encoded in the leading
// YYYY-MM-DD of a match id.
func DateFromID(id string) (time.Time, bool) {
	m := datePrefix.FindStringSubmatch(id)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Assemble builds a canonical match from a raw payload. The victorious side
// and team stay unresolved until ResolveVictory runs. Participants without an
// id are skipped.
func Assemble(raw *RawMatch, id string) *Match {
	m := &Match{
		ID:               id,
		PlayerIDs:        []string{},
		TeamIDs:          []int{},
		VictoriousTeamID: NoTeam,
		Stats:            map[string]PlayerMatchData{},
		IsOfficial:       IsOfficialID(id),
		Raw:              raw,
	}
	if raw == nil {
		return m
	}

	if d, ok := Number(raw.GameDuration); ok && d > 0 {
		m.Duration = int64(d)
	}

	for _, p := range raw.Participants {
		pid := p.PlayerID()
		if pid == "" {
			continue
		}
		if _, dup := m.Stats[pid]; !dup {
			m.PlayerIDs = append(m.PlayerIDs, pid)
		}
		m.Stats[pid] = Normalize(p)
	}

	return m
}

// ResolveVictory records the winning side and team of a match. The winning
// side comes from the first player (in participant order) who won. The team
// comes from that player's team membership. It also records the distinct
// teams represented in the match. It returns false if the winning team could
// not be resolved, leaving VictoriousTeamID at NoTeam. It is safe to call
// repeatedly, e.g. after team membership changes.
func ResolveVictory(m *Match, teams TeamResolver) bool {
	m.TeamIDs = []int{}
	for _, pid := range m.PlayerIDs {
		if id, ok := teams.TeamIDForPlayer(pid); ok && !slices.Contains(m.TeamIDs, id) {
			m.TeamIDs = append(m.TeamIDs, id)
		}
	}
	slices.Sort(m.TeamIDs)

	m.VictoriousTeamID = NoTeam
	for _, pid := range m.PlayerIDs {
		data, ok := m.Stats[pid]
		if !ok || !data.Win {
			continue
		}
		m.VictoriousTeamSide = data.TeamSideNumber
		if id, ok := teams.TeamIDForPlayer(pid); ok {
			m.VictoriousTeamID = id
			return true
		}
		return false
	}
	return false
}

// TeamKills returns the kills of every player on the given side, including
// players without a team.
func (m *Match) TeamKills(side int) float64 {
	var total float64
	for _, data := range m.Stats {
		if data.TeamSideNumber == side {
			total += data.Combat.Kills
		}
	}
	return total
}
