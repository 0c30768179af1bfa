// Package scrims implements the scrims command.
package scrims

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/output"
	"github.com/Aezurly/Lol-Metrics/internal/strategy/scrim"
)

// Command lists scrims, newest first.
type Command struct {
	Opponent string `help:"Only show scrims against a team name." short:"o"`
}

// Run executes the scrims command.
func (c *Command) Run(d *cache.DB) error {
	e, err := d.SyncedEngine(context.Background())
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	var (
		rows      [][]string
		won, lost int
	)
	for _, s := range scrim.Group(e.Store.Matches(), e.Store) {
		v := scrim.NewView(s, e.Store.TeamName)
		if c.Opponent != "" && !strings.EqualFold(v.Opponent, c.Opponent) {
			continue
		}
		switch {
		case v.OurWins > v.OpponentWins:
			won++
		case v.OurWins < v.OpponentWins:
			lost++
		}
		official := ""
		if v.IsOfficial {
			official = "yes"
		}
		rows = append(rows, []string{
			v.DisplayDate,
			v.Opponent,
			v.Score,
			strconv.Itoa(len(v.MatchIDs)),
			official,
			strings.Join(v.MatchIDs, ", "),
		})
	}

	if len(rows) == 0 {
		fmt.Println("No scrims found")
		return nil
	}
	if err := output.Table(os.Stdout, []string{"Date", "Opponent", "Score", "Games", "Official", "Matches"}, rows); err != nil {
		return err
	}
	fmt.Printf("\nScrims won-lost: %s\n", output.FormatRecord(won, lost))
	return nil
}
