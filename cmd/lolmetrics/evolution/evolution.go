// Package evolution implements the evolution command.
package evolution

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
	"github.com/Aezurly/Lol-Metrics/internal/output"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/evolution"
)

// Command shows a player's stats per week or month.
type Command struct {
	Name        string `arg:""                                                help:"Player name or id."`
	Period      string `default:"week"                                        enum:"week,month" help:"Period length (${enum})."`
	RoleAverage bool   `help:"Show the KDA of players in the same role alongside." name:"role-average"`
}

// Run executes the evolution command.
func (c *Command) Run(d *cache.DB) error {
	e, err := d.SyncedEngine(context.Background())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	p, err := e.Player(c.Name)
	if err != nil {
		return err
	}
	g, err := evolution.ParseGranularity(c.Period)
	if err != nil {
		return err
	}

	var opts []evolution.Option
	if c.RoleAverage {
		opts = append(opts, evolution.WithRoleAverage(e.Store.Players()))
	}
	periods := evolution.Bucket(e.Store, p, g, opts...)
	if len(periods) == 0 {
		fmt.Printf("No dated matches for %s\n", p.Name)
		return nil
	}

	headers := []string{"From", "To", "Games", "KDA", "DPM", "KP", "GPM", "CS/m"}
	if c.RoleAverage {
		headers = append(headers, "Role KDA")
	}
	rows := make([][]string, len(periods))
	for i, pd := range periods {
		v := pd.Metrics
		rows[i] = []string{
			pd.Start.Format(time.DateOnly),
			pd.End.Format(time.DateOnly),
			strconv.Itoa(len(pd.MatchIDs)),
			output.FormatKDA(v[metrics.IndexKDA], pd.Stats.TotalDeaths),
			output.FormatNumber(v[metrics.IndexDamagePerMinute]),
			output.FormatPercent(v[metrics.IndexKillParticipation]),
			output.FormatNumber(v[metrics.IndexGoldPerMinute]),
			output.FormatRate(v[metrics.IndexCSPerMinute]),
		}
		if c.RoleAverage {
			avg := "-"
			if pd.RoleAverage != nil {
				avg = output.FormatRate(pd.RoleAverage[metrics.IndexKDA])
			}
			rows[i] = append(rows[i], avg)
		}
	}
	return output.Table(os.Stdout, headers, rows)
}
