// Package store holds the in-memory matches, players, and teams that every
// read is computed from.
package store

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// Sentinel errors returned at the edges of the store.
var (
	ErrNotFound = errors.New("not found")
	ErrNotReady = errors.New("data is still loading")
)

// Status reports ingestion progress.
type Status struct {
	IsLoading     bool `json:"isLoading"`
	IsInitialized bool `json:"isInitialized"`
	TeamsCount    int  `json:"teamsCount"`
	PlayersCount  int  `json:"playersCount"`
	MatchesCount  int  `json:"matchesCount"`
}

// A Store is the process-wide set of matches, players, and teams. Reads
// return copies, so callers may hold them while ingestion continues. Writes
// are expected to come from a single ingestion worker.
type Store struct {
	mu          sync.RWMutex // Protects everything below.
	matches     map[string]*lol.Match
	players     map[string]*lol.Player
	teams       map[int]*lol.Team
	loading     bool
	initialized bool
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.matches = map[string]*lol.Match{}
	s.players = map[string]*lol.Player{}
	s.teams = map[int]*lol.Team{}
}

// Reset empties the store. The readiness flags are unchanged.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Matches.

// IsProcessed returns true if the match is stored with a non-empty payload.
func (s *Store) IsProcessed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return false
	}
	// Matches restored from the database keep no payload but were processed.
	return m.Raw == nil || !m.Raw.Empty()
}

// PutMatch stores a match, replacing any match with the same id.
func (s *Store) PutMatch(m *lol.Match) {
	c := m.Clone()
	c.Raw = m.Raw
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = c
}

// ResolveMatch records the winner and teams of a stored match. It returns
// false if the match isn't stored.
func (s *Store) ResolveMatch(id string, side, teamID int, teamIDs []int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return false
	}
	m.VictoriousTeamSide = side
	m.VictoriousTeamID = teamID
	m.TeamIDs = slices.Clone(teamIDs)
	return true
}

// Match returns a copy of a match.
func (s *Store) Match(id string) (*lol.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Matches returns a copy of every match, ordered by id.
func (s *Store) Matches() []*lol.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*lol.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m.Clone())
	}
	slices.SortFunc(out, func(a, b *lol.Match) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// MatchIDs returns every match id in order.
func (s *Store) MatchIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.matches))
	for id := range s.matches {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Players.

// PutPlayer stores a player, replacing any player with the same id.
func (s *Store) PutPlayer(p *lol.Player) {
	c := p.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.UID] = c
}

// Player returns a copy of a player.
func (s *Store) Player(id string) (*lol.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// PlayerByName returns a copy of the first player, by id, whose name matches
// case-insensitively.
func (s *Store) PlayerByName(name string) (*lol.Player, bool) {
	for _, p := range s.Players() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// Players returns a copy of every player, ordered by id.
func (s *Store) Players() []*lol.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*lol.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b *lol.Player) int { return cmp.Compare(a.UID, b.UID) })
	return out
}

// Teams.

// PutTeam stores a team, replacing any team with the same id.
func (s *Store) PutTeam(t *lol.Team) {
	c := t.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = c
}

// ClearTeams removes every team.
func (s *Store) ClearTeams() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = map[int]*lol.Team{}
}

// Team returns a copy of a team.
func (s *Store) Team(id int) (*lol.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Teams returns a copy of every team, ordered by id.
func (s *Store) Teams() []*lol.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*lol.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *lol.Team) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// TeamName returns the name of a team, or "No team" if it is unknown.
func (s *Store) TeamName(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.teams[id]; ok && t.Name != "" {
		return t.Name
	}
	return "No team"
}

// TeamIDForPlayer returns the team a player belongs to.
func (s *Store) TeamIDForPlayer(playerID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok || p.TeamID == nil {
		return 0, false
	}
	return *p.TeamID, true
}

// Readiness.

// SetLoading records whether ingestion is running.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetInitialized records that the first ingestion completed.
func (s *Store) SetInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

// Ready returns ErrNotReady until the first ingestion completes.
func (s *Store) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotReady
	}
	return nil
}

// Status returns the current ingestion status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		IsLoading:     s.loading,
		IsInitialized: s.initialized,
		TeamsCount:    len(s.teams),
		PlayersCount:  len(s.players),
		MatchesCount:  len(s.matches),
	}
}
