// Package main implements the lolmetrics CLI for League of Legends scrim
// statistics.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/evolution"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/player"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/players"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/query"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/recap"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/schema"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/scrims"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/serve"
	"github.com/Aezurly/Lol-Metrics/cmd/lolmetrics/sync"
	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
	"github.com/Aezurly/Lol-Metrics/internal/version"
)

type cli struct {
	cache.DB `embed:""`

	Verbose bool             `help:"Log debug output."       short:"v"`
	Version kong.VersionFlag `help:"Print version and exit."`

	Serve     serve.Command     `cmd:"" help:"Serve the stats API."`
	Sync      sync.Command      `cmd:"" help:"Ingest new match files."`
	Players   players.Command   `cmd:"" help:"List every player's stats."`
	Player    player.Command    `cmd:"" help:"Show a player's stats and champions."`
	Recap     recap.Command     `cmd:"" help:"Show a match recap."`
	Scrims    scrims.Command    `cmd:"" help:"List scrims and their scores."`
	Evolution evolution.Command `cmd:"" help:"Show how a player's stats change over time."`
	Query     query.Command     `cmd:"" help:"Run a SQL query against the database."`
	Schema    schema.Command    `cmd:"" help:"Print the database schema."`
}

func main() {
	_ = godotenv.Load(".env")

	c := &cli{}
	ctx := kong.Parse(c,
		kong.Name("lolmetrics"),
		kong.Description("League of Legends scrim statistics."),
		kong.UsageOnError(),
		kong.Vars{
			"version": version.Version,
			"columns": strings.Join(metrics.Columns(), ","),
		},
	)

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	c.SetLogger(log)

	err := ctx.Run(&c.DB, log)
	c.Close() //nolint:errcheck // Nothing to do with error on program exit.
	ctx.FatalIfErrorf(err)
}
