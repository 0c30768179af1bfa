// Package players implements the players command.
package players

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
	"github.com/Aezurly/Lol-Metrics/internal/output"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/radar"
)

// Command lists every player's lifetime stats.
type Command struct {
	Sort string `default:"kda"                         enum:"${columns}"   help:"Column to sort by (${enum})."`
	Asc  bool   `help:"Sort ascending."`
	Role string `help:"Only show players with a role." short:"r"`
	Team *int   `help:"Only show players on a team."   short:"t"`
}

// Run executes the players command.
func (c *Command) Run(d *cache.DB) error {
	e, err := d.SyncedEngine(context.Background())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	all := e.Store.Players()
	shown := slices.DeleteFunc(slices.Clone(all), func(p *lol.Player) bool {
		if c.Role != "" && !strings.EqualFold(string(p.Role), c.Role) {
			return true
		}
		return c.Team != nil && p.Team() != *c.Team
	})
	metrics.SortPlayers(shown, c.Sort, !c.Asc, e.Store.TeamName)

	rows := make([][]string, len(shown))
	for i, p := range shown {
		rows[i] = row(p, e.Store.TeamName(p.Team()), radar.KDABand(all, p))
	}
	return output.Table(os.Stdout, headers(), rows)
}

func headers() []string {
	return []string{"Name", "Role", "Team", "Games", "KDA", "Band", "K", "D", "A", "CS/m", "DPM", "GPM", "KP", "VS/m", "Wards", "Win", "Most Played"}
}

func row(p *lol.Player, team string, band radar.Band) []string {
	s := p.Stats
	n := p.Matches()
	m := metrics.Summarize(s, n)
	return []string{
		p.Name,
		string(p.Role),
		team,
		strconv.Itoa(n),
		output.FormatKDA(m.KDA, s.TotalDeaths),
		string(band),
		output.FormatRate(metrics.PerGame(s.TotalKills, n)),
		output.FormatRate(metrics.PerGame(s.TotalDeaths, n)),
		output.FormatRate(metrics.PerGame(s.TotalAssists, n)),
		output.FormatRate(m.CSPerMinute),
		output.FormatNumber(m.DamagePerMinute),
		output.FormatNumber(m.GoldPerMinute),
		output.FormatPercent(m.KillParticipation),
		output.FormatRate(m.VisionPerMinute),
		output.FormatRate(m.ControlWardsPerGame),
		output.FormatPercent(m.WinRate),
		m.MostPlayedChampion,
	}
}
