// Package recap implements the recap command.
package recap

import (
	"context"
	"fmt"
	"os"

	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/output"
	"github.com/Aezurly/Lol-Metrics/internal/store"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/recap"
)

// Command shows the recap of a match.
type Command struct {
	Match string `arg:"" help:"Match id (e.g., '2024-01-08-1')."`
}

// Run executes the recap command.
func (c *Command) Run(d *cache.DB) error {
	e, err := d.SyncedEngine(context.Background())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	m, ok := e.Store.Match(c.Match)
	if !ok {
		return fmt.Errorf("match %q: %w", c.Match, store.ErrNotFound)
	}
	r := recap.Build(m, e.Store)

	winner := "unresolved"
	if r.VictoriousTeamID != nil {
		winner = e.Store.TeamName(*r.VictoriousTeamID)
	}
	official := ""
	if r.IsOfficial {
		official = " (official)"
	}
	fmt.Printf("%s%s  %s  Winner: %s\n\n", r.ID, official, output.FormatDuration(r.Duration), winner)

	rows := make([][]string, len(r.Players))
	for i, p := range r.Players {
		team := "-"
		if p.TeamID != nil {
			team = e.Store.TeamName(*p.TeamID)
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		rows[i] = []string{
			e.Store.TeamName(r.TeamSides[p.Side]),
			name,
			team,
			string(p.Role),
			p.Champ,
			fmt.Sprintf("%.0f/%.0f/%.0f", p.K, p.D, p.A),
		}
	}
	if err := output.Table(os.Stdout, []string{"Side", "Player", "Team", "Role", "Champion", "K/D/A"}, rows); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	fmt.Println()

	rows = make([][]string, len(r.Sides))
	for i, s := range r.Sides {
		rows[i] = []string{
			e.Store.TeamName(r.TeamSides[i]),
			output.FormatNumber(s.Gold),
			fmt.Sprintf("%.0f", s.Towers),
			fmt.Sprintf("%.0f", s.Dragons),
			fmt.Sprintf("%.0f", s.Grubs),
			fmt.Sprintf("%.0f", s.Herald),
			fmt.Sprintf("%.0f", s.Barons),
			fmt.Sprintf("%.0f", s.Atakhan),
		}
	}
	return output.Table(os.Stdout, []string{"Side", "Gold", "Towers", "Dragons", "Grubs", "Herald", "Barons", "Atakhan"}, rows)
}
