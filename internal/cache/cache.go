// Package cache opens the local LoL Metrics database and hands out a store
// filled from the match data directory.
package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aezurly/Lol-Metrics/internal/archive"
	"github.com/Aezurly/Lol-Metrics/internal/db"
	"github.com/Aezurly/Lol-Metrics/internal/ingest"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/store"
)

// Dir returns the LoL Metrics cache directory.
//
// It uses os.UserCacheDir, which respects XDG_CACHE_HOME on Linux, uses
// ~/Library/Caches on macOS, and %LocalAppData% on Windows. If the user cache
// directory can't be determined it falls back to the system temp directory.
func Dir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lolmetrics")
	}
	return filepath.Join(base, "lolmetrics")
}

// An Engine is a store and the ingester that fills it.
type Engine struct {
	Store    *store.Store
	Ingester *ingest.Ingester
	Archive  *archive.Client
}

// Player finds a player by id, or failing that by name.
func (e *Engine) Player(idOrName string) (*lol.Player, error) {
	if p, ok := e.Store.Player(idOrName); ok {
		return p, nil
	}
	if p, ok := e.Store.PlayerByName(idOrName); ok {
		return p, nil
	}
	return nil, fmt.Errorf("player %q: %w", idOrName, store.ErrNotFound)
}

// DB provides access to the LoL Metrics database and data directory.
// It lazily opens the database on first use.
type DB struct {
	DataDir   string `default:"../Lol-Data-Analyser/data" env:"DATA_DIRECTORY" help:"Directory of exported match files."                            name:"data-dir"`
	RepoURL   string `env:"DATA_REPO_URL"                 help:"Git repo to pull match files from."                                                     name:"data-repo"`
	TeamsFile string `env:"TEAMS_FILE"                    help:"Team roster file. Defaults to teams.json in the data directory."                         name:"teams-file"`
	Path      string `env:"LOLMETRICS_DB"                 help:"SQLite database path. Defaults to the user cache directory."                            name:"db"`
	ForceSync bool   `help:"Sync data before running command." name:"sync"                                                                               short:"s"`

	log    *slog.Logger
	store  *db.SQLiteStore
	engine *Engine
}

// SetLogger configures the logger for sync progress.
func (d *DB) SetLogger(log *slog.Logger) {
	d.log = log
}

func (d *DB) logger() *slog.Logger {
	if d.log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.log
}

// Store returns the database store, opening it if needed.
func (d *DB) Store(ctx context.Context) (*db.SQLiteStore, error) {
	if d.store != nil {
		return d.store, nil
	}

	path := d.Path
	if path == "" {
		path = filepath.Join(Dir(), "lolmetrics.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	store, err := db.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close() //nolint:errcheck // Already returning error.
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	d.store = store
	return d.store, nil
}

// Engine returns an engine restored from the database. It does not read new
// match files unless ForceSync is set. Use SyncedEngine when the caller needs
// fresh data before proceeding.
func (d *DB) Engine(ctx context.Context) (*Engine, error) {
	if d.engine != nil {
		return d.engine, nil
	}

	dbst, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}

	opts := []archive.ClientOption{archive.WithLogger(d.logger())}
	if d.RepoURL != "" {
		opts = append(opts, archive.WithRepoURL(d.RepoURL))
	}
	if d.TeamsFile != "" {
		opts = append(opts, archive.WithRosterPath(d.TeamsFile))
	}
	src := archive.NewClient(d.DataDir, opts...)

	s := store.New()
	i := ingest.New(src, s, ingest.WithLogger(d.logger()), ingest.WithPersister(dbst))
	if err := i.Restore(ctx); err != nil {
		return nil, err
	}

	d.engine = &Engine{Store: s, Ingester: i, Archive: src}
	if d.ForceSync {
		if err := d.Sync(ctx); err != nil {
			d.engine = nil
			return nil, err
		}
	}
	return d.engine, nil
}

// SyncedEngine returns an engine with every match file ingested.
func (d *DB) SyncedEngine(ctx context.Context) (*Engine, error) {
	e, err := d.Engine(ctx)
	if err != nil {
		return nil, err
	}
	if d.ForceSync {
		return e, nil
	}
	if err := d.Sync(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Sync pulls the data repository, if one is configured, then ingests every
// new match file.
func (d *DB) Sync(ctx context.Context) error {
	e, err := d.Engine(ctx)
	if err != nil {
		return err
	}
	if err := e.Archive.Sync(ctx); err != nil {
		return err
	}
	n, err := e.Ingester.LoadNewMatches(ctx)
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	d.logger().Info("Synced match data", "dir", e.Archive.Dir(), "new", n)
	return nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
