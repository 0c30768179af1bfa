package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertMatch inserts or updates a match. The raw payload isn't stored.
func (s *SQLiteStore) UpsertMatch(ctx context.Context, m *lol.Match) error {
	return upsertMatch(ctx, s.db, m)
}

func upsertMatch(ctx context.Context, e execer, m *lol.Match) error {
	playerIDs, err := json.Marshal(m.PlayerIDs)
	if err != nil {
		return fmt.Errorf("encode player ids of match %s: %w", m.ID, err)
	}
	teamIDs, err := json.Marshal(m.TeamIDs)
	if err != nil {
		return fmt.Errorf("encode team ids of match %s: %w", m.ID, err)
	}
	stats, err := json.Marshal(m.Stats)
	if err != nil {
		return fmt.Errorf("encode stats of match %s: %w", m.ID, err)
	}

	var date, victor any
	if d, ok := lol.DateFromID(m.ID); ok {
		date = d.Format(time.DateOnly)
	}
	if m.VictoryResolved() {
		victor = m.VictoriousTeamID
	}

	if _, err := e.ExecContext(ctx, `
		INSERT INTO matches (id, date, duration_ms, victorious_team_side, victorious_team_id, is_official, player_ids, team_ids, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			duration_ms = excluded.duration_ms,
			victorious_team_side = excluded.victorious_team_side,
			victorious_team_id = excluded.victorious_team_id,
			is_official = excluded.is_official,
			player_ids = excluded.player_ids,
			team_ids = excluded.team_ids,
			stats = excluded.stats
	`, m.ID, date, m.Duration, m.VictoriousTeamSide, victor, m.IsOfficial, string(playerIDs), string(teamIDs), string(stats)); err != nil {
		return fmt.Errorf("upsert match %s: %w", m.ID, err)
	}
	return nil
}

func upsertPlayer(ctx context.Context, e execer, p *lol.Player) error {
	matchIDs, err := json.Marshal(p.MatchIDs)
	if err != nil {
		return fmt.Errorf("encode match ids of player %s: %w", p.UID, err)
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return fmt.Errorf("encode stats of player %s: %w", p.UID, err)
	}

	var team any
	if p.TeamID != nil {
		team = *p.TeamID
	}

	if _, err := e.ExecContext(ctx, `
		INSERT INTO players (uid, name, role, team_id, match_ids, stats)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			team_id = excluded.team_id,
			match_ids = excluded.match_ids,
			stats = excluded.stats
	`, p.UID, p.Name, string(p.Role), team, string(matchIDs), string(stats)); err != nil {
		return fmt.Errorf("upsert player %s: %w", p.UID, err)
	}
	return nil
}

// Save writes matches and players in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, matches []*lol.Match, players []*lol.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	for _, m := range matches {
		if err := upsertMatch(ctx, tx, m); err != nil {
			return err
		}
	}
	for _, p := range players {
		if err := upsertPlayer(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReplaceTeams replaces every team and its membership.
func (s *SQLiteStore) ReplaceTeams(ctx context.Context, teams []*lol.Team) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if _, err := tx.ExecContext(ctx, "DELETE FROM team_players; DELETE FROM teams;"); err != nil {
		return fmt.Errorf("delete teams: %w", err)
	}

	for _, t := range teams {
		matchIDs, err := json.Marshal(t.MatchIDs)
		if err != nil {
			return fmt.Errorf("encode match ids of team %d: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO teams (id, name, match_ids) VALUES (?, ?, ?)",
			t.ID, t.Name, string(matchIDs)); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
		for _, uid := range t.PlayersIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO team_players (team_id, player_uid) VALUES (?, ?)
				ON CONFLICT(team_id, player_uid) DO NOTHING
			`, t.ID, uid); err != nil {
				return fmt.Errorf("insert team %d player %s: %w", t.ID, uid, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear deletes everything.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM team_players;
		DELETE FROM teams;
		DELETE FROM players;
		DELETE FROM matches;
	`); err != nil {
		return fmt.Errorf("clear database: %w", err)
	}
	return nil
}
