// Package scrim groups matches into scrims: blocks of games played against
// the same opponent on the same day.
package scrim

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// Scrim size limits.
const (
	MaxMatches = 3
	MinMatches = 2
)

// A Scrim is a block of two or three matches against one opponent.
type Scrim struct {
	Date           time.Time   `json:"date"`
	MatchIDs       []string    `json:"matchIds"`
	OpponentTeamID int         `json:"opponentTeamId"` // lol.NoTeam if no opposing team was identified.
	Score          map[int]int `json:"score"`          // Team id to wins.
}

// Option configures grouping.
type Option func(*Options)

// Options holds optional parameters for grouping.
type Options struct {
	log *slog.Logger
}

// WithLogger logs matches that can't be scored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.log = l
	}
}

type key struct {
	date     time.Time
	opponent int
}

// Group returns the scrims found in matches, most recent first. Only matches
// our team played in are considered. Matches are grouped by date and
// opponent, sorted by id, and split into blocks of at most three. Leftover
// single matches are dropped.
func Group(matches []*lol.Match, teams lol.TeamResolver, opts ...Option) []Scrim {
	o := Options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	groups := map[key][]*lol.Match{}
	for _, m := range matches {
		date, ok := lol.DateFromID(m.ID)
		if !ok {
			continue
		}
		opponent, ok := Opponent(m, teams)
		if !ok {
			continue
		}
		k := key{date: date, opponent: opponent}
		groups[k] = append(groups[k], m)
	}

	out := make([]Scrim, 0, len(groups))
	for k, ms := range groups {
		slices.SortFunc(ms, func(a, b *lol.Match) int { return cmp.Compare(a.ID, b.ID) })
		for chunk := range slices.Chunk(ms, MaxMatches) {
			if len(chunk) < MinMatches {
				continue
			}
			s := Scrim{Date: k.date, OpponentTeamID: k.opponent, MatchIDs: make([]string, 0, len(chunk)), Score: map[int]int{}}
			for _, m := range chunk {
				s.MatchIDs = append(s.MatchIDs, m.ID)
				if !m.VictoryResolved() {
					o.log.Warn("Match has no resolved winner", "match", m.ID)
					continue
				}
				s.Score[m.VictoriousTeamID]++
			}
			out = append(out, s)
		}
	}

	slices.SortFunc(out, func(a, b Scrim) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.OpponentTeamID, b.OpponentTeamID); c != 0 {
			return c
		}
		return cmp.Compare(a.MatchIDs[0], b.MatchIDs[0])
	})
	return out
}

// Opponent returns the team our team faced in a match: the team other than
// ours with the most players in it, ties going to the lowest team id. It
// returns lol.NoTeam if no other team played, and false if our team didn't
// play at all.
func Opponent(m *lol.Match, teams lol.TeamResolver) (int, bool) {
	counts := map[int]int{}
	for _, pid := range m.PlayerIDs {
		if id, ok := teams.TeamIDForPlayer(pid); ok {
			counts[id]++
		}
	}
	if counts[lol.OurTeamID] == 0 {
		return 0, false
	}

	opponent, best := lol.NoTeam, 0
	for id, n := range counts {
		if id == lol.OurTeamID {
			continue
		}
		if n > best || (n == best && id < opponent) {
			opponent, best = id, n
		}
	}
	return opponent, true
}

// A View is a scrim ready for display.
type View struct {
	Key          string   `json:"key"`
	MatchIDs     []string `json:"matchIds"`
	DisplayDate  string   `json:"displayDate"`
	Score        string   `json:"score"`
	OurWins      int      `json:"ourWins"`
	OpponentWins int      `json:"opponentWins"`
	Opponent     string   `json:"opponent"`
	IsOfficial   bool     `json:"isOfficial"`
}

// NewView returns the display form of a scrim. teamName names teams by id.
func NewView(s Scrim, teamName func(int) string) View {
	us, them := s.Score[lol.OurTeamID], s.Score[s.OpponentTeamID]
	first := ""
	if len(s.MatchIDs) > 0 {
		first = s.MatchIDs[0]
	}
	return View{
		Key:          fmt.Sprintf("%s::%d::%s", s.Date.Format(time.DateOnly), s.OpponentTeamID, first),
		MatchIDs:     s.MatchIDs,
		DisplayDate:  s.Date.Format("Mon, Jan 02"),
		Score:        fmt.Sprintf("%d - %d", us, them),
		OurWins:      us,
		OpponentWins: them,
		Opponent:     teamName(s.OpponentTeamID),
		IsOfficial:   slices.ContainsFunc(s.MatchIDs, lol.IsOfficialID),
	}
}
