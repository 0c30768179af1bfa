// Package player implements the player command.
package player

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Aezurly/Lol-Metrics/internal/aggregate"
	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
	"github.com/Aezurly/Lol-Metrics/internal/output"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/radar"
)

// Command shows a player's lifetime stats, radar, and champions.
type Command struct {
	Name string `arg:"" help:"Player name or id."`
}

// Run executes the player command.
func (c *Command) Run(d *cache.DB) error {
	e, err := d.SyncedEngine(context.Background())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	p, err := e.Player(c.Name)
	if err != nil {
		return err
	}
	s := metrics.Summarize(p.Stats, p.Matches())
	players := e.Store.Players()

	fmt.Printf("%s (%s, %s)\n", p.Name, p.Role, e.Store.TeamName(p.Team()))
	fmt.Printf("Games: %d  Win rate: %s  KDA: %s (%s)\n\n",
		s.Matches, output.FormatPercent(s.WinRate), output.FormatKDA(s.KDA, p.Stats.TotalDeaths), radar.KDABand(players, p))

	r := radar.Radar(p, players)
	rows := make([][]string, len(r.Labels))
	for i, label := range r.Labels {
		rows[i] = []string{label, output.FormatRate(r.Player[i]), output.FormatRate(r.Average[i])}
	}
	if err := output.Table(os.Stdout, []string{"Metric", "Player", "Role Avg"}, rows); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	fmt.Println()

	champs := aggregate.PerChampion(e.Store, p)
	rows = make([][]string, len(champs))
	for i, ch := range champs {
		n := len(ch.MatchIDs)
		rows[i] = []string{
			ch.Champion,
			strconv.Itoa(n),
			output.FormatPercent(metrics.WinRate(ch.Stats, n)),
			output.FormatKDA(metrics.KDA(ch.Stats), ch.Stats.TotalDeaths),
			output.FormatRate(metrics.CSPerMinute(ch.Stats)),
		}
	}
	return output.Table(os.Stdout, []string{"Champion", "Games", "Win", "KDA", "CS/m"}, rows)
}
