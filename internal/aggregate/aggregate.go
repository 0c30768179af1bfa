// Package aggregate folds canonical matches into per-player running totals.
package aggregate

import (
	"cmp"
	"slices"
	"sync"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// UnknownChampion is counted when a match didn't record a champion.
const UnknownChampion = "UNKNOWN"

// A MatchLookup finds matches by id.
type MatchLookup interface {
	Match(id string) (*lol.Match, bool)
}

// NewPlayer returns a player seen for the first time with the supplied match
// data. The role is classified here, once, and never again.
func NewPlayer(id string, data lol.PlayerMatchData) *lol.Player {
	role := data.Role
	if role == "" {
		role = lol.RoleUnknown
	}
	return &lol.Player{
		UID:      id,
		Name:     data.Name,
		MatchIDs: []string{},
		Role:     role,
		Stats:    lol.NewPlayerStat(),
	}
}

// Apply folds a match into a player's lifetime stats. A match is applied at
// most once per player; Apply returns false if it was already applied. A match
// the player has no stats for is recorded in the player's ledger but adds
// nothing.
func Apply(p *lol.Player, m *lol.Match) bool {
	if slices.Contains(p.MatchIDs, m.ID) {
		return false
	}
	p.MatchIDs = append(p.MatchIDs, m.ID)
	if p.Stats.ChampionPlayed == nil {
		p.Stats.ChampionPlayed = map[string]int{}
	}
	Add(&p.Stats, m, p.UID)
	return true
}

// Add adds one match's contribution for the given player to s. It returns
// false if the player has no stats in the match.
func Add(s *lol.PlayerStat, m *lol.Match, playerID string) bool {
	data, ok := m.Stats[playerID]
	if !ok {
		return false
	}

	champ := data.ChampionPlayed
	if champ == "" {
		champ = UnknownChampion
	}
	s.ChampionPlayed[champ]++

	if data.Win {
		s.Wins++
	}
	s.TotalKills += data.Combat.Kills
	s.TotalDeaths += data.Combat.Deaths
	s.TotalAssists += data.Combat.Assists
	s.TotalDamageDealt += data.Damage.TotalDamageToChampions
	s.TotalVisionScore += data.Vision.VisionScore
	s.TotalControlWardsPurchased += value(data.Vision.ControlWardPurchased)
	s.TotalGoldEarned += data.Income.GoldEarned
	s.TotalMinionsKilled += value(data.Income.TotalMinionsKilled) + value(data.Income.NeutralMinionsKilled)
	s.TotalTimePlayed += m.Duration
	s.TotalTeamKills += m.TeamKills(data.TeamSideNumber)

	return true
}

// Subset aggregates a player's stats over the supplied matches without
// touching lifetime totals. Unknown matches, matches the player has no stats
// for, and repeated ids are skipped.
func Subset(matches MatchLookup, playerID string, ids []string) lol.PlayerStat {
	s := lol.NewPlayerStat()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		m, ok := matches.Match(id)
		if !ok {
			continue
		}
		Add(&s, m, playerID)
	}
	return s
}

// ChampionStat is a player's aggregate on a single champion.
type ChampionStat struct {
	Champion string         `json:"championName"`
	MatchIDs []string       `json:"matchesId"`
	Stats    lol.PlayerStat `json:"stats"`
}

// A ChampionCache memoizes per-champion breakdowns. A player's match history
// only grows, so an entry is reused until the player's ledger changes length.
type ChampionCache struct {
	mu      sync.Mutex
	entries map[string]championEntry
}

type championEntry struct {
	matches int
	stats   []ChampionStat
}

// PerChampion returns a player's stats grouped by champion, most played
// first.
func (c *ChampionCache) PerChampion(matches MatchLookup, p *lol.Player) []ChampionStat {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[p.UID]; ok && e.matches == len(p.MatchIDs) {
		return e.stats
	}

	stats := PerChampion(matches, p)
	if c.entries == nil {
		c.entries = make(map[string]championEntry)
	}
	c.entries[p.UID] = championEntry{matches: len(p.MatchIDs), stats: stats}
	return stats
}

// Reset drops every memoized breakdown.
func (c *ChampionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// PerChampion computes a player's stats grouped by champion, most played
// first. Ties are ordered by champion name.
func PerChampion(matches MatchLookup, p *lol.Player) []ChampionStat {
	byChamp := map[string][]string{}
	for _, id := range p.MatchIDs {
		m, ok := matches.Match(id)
		if !ok {
			continue
		}
		data, ok := m.Stats[p.UID]
		if !ok {
			continue
		}
		champ := data.ChampionPlayed
		if champ == "" {
			champ = UnknownChampion
		}
		byChamp[champ] = append(byChamp[champ], id)
	}

	out := make([]ChampionStat, 0, len(byChamp))
	for champ, ids := range byChamp {
		out = append(out, ChampionStat{
			Champion: champ,
			MatchIDs: ids,
			Stats:    Subset(matches, p.UID, ids),
		})
	}
	slices.SortFunc(out, func(a, b ChampionStat) int {
		if c := cmp.Compare(len(b.MatchIDs), len(a.MatchIDs)); c != 0 {
			return c
		}
		return cmp.Compare(a.Champion, b.Champion)
	})
	return out
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
