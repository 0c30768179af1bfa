// Package sync implements the sync command.
package sync

import (
	"context"
	"fmt"

	"github.com/Aezurly/Lol-Metrics/internal/cache"
)

// Command ingests new match files into the local database.
type Command struct {
	Teams bool `help:"Re-read the team roster and reassign players."`
	All   bool `help:"Forget everything and ingest every match file again."`
}

// Run executes the sync command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()

	e, err := d.Engine(ctx)
	if err != nil {
		return err
	}

	if err := e.Archive.Sync(ctx); err != nil {
		return err
	}

	switch {
	case c.All:
		n, err := e.Ingester.ReloadAll(ctx)
		if err != nil {
			return fmt.Errorf("reload all: %w", err)
		}
		fmt.Printf("Ingested %d matches.\n", n)
		return nil
	case c.Teams:
		if err := e.Ingester.ReloadTeams(ctx); err != nil {
			return fmt.Errorf("reload teams: %w", err)
		}
	}

	n, err := e.Ingester.LoadNewMatches(ctx)
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}

	st := e.Store.Status()
	fmt.Printf("Ingested %d new matches. %d matches, %d players, %d teams.\n", n, st.MatchesCount, st.PlayersCount, st.TeamsCount)
	return nil
}
