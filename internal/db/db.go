// Package db implements SQLite storage for ingested matches, players, and
// teams.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQL driver registration.
)

// SQLiteStore is a SQLite database of ingested data.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// An in-memory database is per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		db.Close() //nolint:errcheck // Already returning an error.
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Init creates the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Schema returns the documented database schema.
func Schema() string {
	return schema
}

const schema = `
-- Matches, one per exported match file
--
-- Example: id='2024-01-08-1', date='2024-01-08', victorious_team_id=0
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,                     -- File name without .json
    date TEXT,                               -- ISO date from the id, NULL if the id has none
    duration_ms INTEGER NOT NULL DEFAULT 0,
    victorious_team_side INTEGER NOT NULL DEFAULT 0, -- 1 or 2, 0 if nobody won
    victorious_team_id INTEGER,              -- NULL until the winner's team is known
    is_official INTEGER NOT NULL DEFAULT 0,  -- 1 for tournament ids, 0 for scrims
    player_ids TEXT NOT NULL DEFAULT '[]',   -- JSON array, participant order
    team_ids TEXT NOT NULL DEFAULT '[]',     -- JSON array of distinct team ids
    stats TEXT NOT NULL DEFAULT '{}'         -- JSON object, player id -> per-match stats
);

-- Players, one per PUUID
--
-- Example: uid='abc-123', name='Faker', role='MID', team_id=0
CREATE TABLE IF NOT EXISTS players (
    uid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'UNKNOWN',    -- TOP, JGL, MID, ADC, SUP or UNKNOWN
    team_id INTEGER,                         -- NULL if not on any roster
    match_ids TEXT NOT NULL DEFAULT '[]',    -- JSON array, the matches folded into stats
    stats TEXT NOT NULL DEFAULT '{}'         -- JSON object, lifetime totals
);

-- Teams from the roster file. Team 0 is our team.
CREATE TABLE IF NOT EXISTS teams (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    match_ids TEXT NOT NULL DEFAULT '[]'     -- JSON array
);

-- Team membership of known players
CREATE TABLE IF NOT EXISTS team_players (
    team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
    player_uid TEXT NOT NULL,
    PRIMARY KEY (team_id, player_uid)
);

-- Indexes for common query patterns
CREATE INDEX IF NOT EXISTS idx_matches_date ON matches(date);
CREATE INDEX IF NOT EXISTS idx_players_team ON players(team_id);
CREATE INDEX IF NOT EXISTS idx_players_role ON players(role);
`
