// Package recap builds the post-game view of a single match.
package recap

import (
	"slices"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// A PlayerLookup finds players by id.
type PlayerLookup interface {
	Player(id string) (*lol.Player, bool)
}

// A PlayerRow is one participant's line in a recap.
type PlayerRow struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	TeamID *int     `json:"teamId"` // Nil if the player is unknown or teamless.
	Champ  string   `json:"champ"`
	Side   int      `json:"side"` // 0 or 1.
	K      float64  `json:"k"`
	D      float64  `json:"d"`
	A      float64  `json:"a"`
	Role   lol.Role `json:"role"`
}

// SideTotals are one side's summed objectives.
type SideTotals struct {
	Gold    float64 `json:"gold"`
	Grubs   float64 `json:"grubs"`
	Dragons float64 `json:"dragons"`
	Herald  float64 `json:"herald"`
	Barons  float64 `json:"barons"`
	Atakhan float64 `json:"atakhan"`
	Towers  float64 `json:"towers"`
}

// A Recap summarizes a match.
type Recap struct {
	ID               string        `json:"id"`
	VictoriousTeamID *int          `json:"victoriousTeamId"` // Nil until victory is resolved.
	Duration         int64         `json:"duration"`
	IsOfficial       bool          `json:"isOfficial"`
	TeamSides        [2]int        `json:"teamSides"` // Side index to team id.
	Players          []PlayerRow   `json:"players"`
	Sides            [2]SideTotals `json:"sides"`
}

// Build returns the recap of a match. Players missing from the lookup keep
// an empty name, a nil team, and an unknown role.
func Build(m *lol.Match, players PlayerLookup) Recap {
	r := Recap{
		ID:         m.ID,
		Duration:   m.Duration,
		IsOfficial: m.IsOfficial,
		TeamSides:  TeamSides(m),
		Players:    make([]PlayerRow, 0, len(m.PlayerIDs)),
		Sides:      PerSide(m),
	}
	if m.VictoryResolved() {
		id := m.VictoriousTeamID
		r.VictoriousTeamID = &id
	}

	for _, pid := range m.PlayerIDs {
		data, ok := m.Stats[pid]
		if !ok {
			continue
		}
		row := PlayerRow{
			ID:    pid,
			Champ: data.ChampionPlayed,
			Side:  sideIndex(data.TeamSideNumber),
			K:     data.Combat.Kills,
			D:     data.Combat.Deaths,
			A:     data.Combat.Assists,
			Role:  lol.RoleUnknown,
		}
		if p, ok := players.Player(pid); ok {
			row.Name = p.Name
			row.Role = p.Role
			if p.TeamID != nil {
				id := *p.TeamID
				row.TeamID = &id
			}
		}
		r.Players = append(r.Players, row)
	}
	return r
}

// TeamSides maps side indexes (0 and 1) to team ids. The winning side holds
// the victorious team. The other side holds the first of the match's teams
// that isn't the victorious team, or 0 if there is none.
func TeamSides(m *lol.Match) [2]int {
	var sides [2]int
	win := min(max(m.VictoriousTeamSide-1, 0), 1)
	sides[win] = m.VictoriousTeamID

	other := 0
	if i := slices.IndexFunc(m.TeamIDs, func(id int) bool { return id != m.VictoriousTeamID }); i >= 0 {
		other = m.TeamIDs[i]
	}
	sides[1-win] = other
	return sides
}

// PerSide sums each side's gold and objectives.
func PerSide(m *lol.Match) [2]SideTotals {
	var out [2]SideTotals
	for _, data := range m.Stats {
		t := &out[sideIndex(data.TeamSideNumber)]
		t.Gold += data.Income.GoldEarned
		t.Grubs += value(data.Objectives.VoidGrubKills)
		t.Dragons += value(data.Objectives.DragonKills)
		t.Herald += value(data.Objectives.RiftHeraldKills)
		t.Barons += value(data.Objectives.BaronKills)
		t.Atakhan += value(data.Objectives.ObjectivesStolen)
		t.Towers += value(data.Objectives.TurretsKilled)
	}
	return out
}

// sideIndex maps a 1-based side number to 0 or 1. An unrecorded side is 0.
func sideIndex(n int) int {
	if n == 0 {
		n = 1
	}
	return min(max(n-1, 0), 1)
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
