package db

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// ListMatches returns every stored match ordered by id. Restored matches
// carry no raw payload.
func (s *SQLiteStore) ListMatches(ctx context.Context) ([]*lol.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, duration_ms, victorious_team_side, victorious_team_id, is_official, player_ids, team_ids, stats
		FROM matches
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []*lol.Match
	for rows.Next() {
		var (
			m                         lol.Match
			victor                    sql.NullInt64
			playerIDs, teamIDs, stats string
		)
		if err := rows.Scan(&m.ID, &m.Duration, &m.VictoriousTeamSide, &victor, &m.IsOfficial, &playerIDs, &teamIDs, &stats); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.VictoriousTeamID = lol.NoTeam
		if victor.Valid {
			m.VictoriousTeamID = int(victor.Int64)
		}
		if err := json.Unmarshal([]byte(playerIDs), &m.PlayerIDs); err != nil {
			return nil, fmt.Errorf("decode player ids of match %s: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(teamIDs), &m.TeamIDs); err != nil {
			return nil, fmt.Errorf("decode team ids of match %s: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(stats), &m.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of match %s: %w", m.ID, err)
		}
		result = append(result, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return result, nil
}

// ListPlayers returns every stored player ordered by uid.
func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]*lol.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid, name, role, team_id, match_ids, stats
		FROM players
		ORDER BY uid
	`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []*lol.Player
	for rows.Next() {
		var (
			p               lol.Player
			role            string
			team            sql.NullInt64
			matchIDs, stats string
		)
		if err := rows.Scan(&p.UID, &p.Name, &role, &team, &matchIDs, &stats); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Role = lol.Role(role)
		if team.Valid {
			id := int(team.Int64)
			p.TeamID = &id
		}
		if err := json.Unmarshal([]byte(matchIDs), &p.MatchIDs); err != nil {
			return nil, fmt.Errorf("decode match ids of player %s: %w", p.UID, err)
		}
		if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of player %s: %w", p.UID, err)
		}
		if p.Stats.ChampionPlayed == nil {
			p.Stats.ChampionPlayed = map[string]int{}
		}
		result = append(result, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}

	return result, nil
}

// ListTeams returns every stored team ordered by id, with members ordered
// by uid.
func (s *SQLiteStore) ListTeams(ctx context.Context) ([]*lol.Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.match_ids, COALESCE(json_group_array(tp.player_uid) FILTER (WHERE tp.player_uid IS NOT NULL), '[]')
		FROM teams t
		LEFT JOIN team_players tp ON tp.team_id = t.id
		GROUP BY t.id
		ORDER BY t.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []*lol.Team
	for rows.Next() {
		var (
			t                   lol.Team
			matchIDs, playerIDs string
		)
		if err := rows.Scan(&t.ID, &t.Name, &matchIDs, &playerIDs); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if err := json.Unmarshal([]byte(matchIDs), &t.MatchIDs); err != nil {
			return nil, fmt.Errorf("decode match ids of team %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(playerIDs), &t.PlayersIDs); err != nil {
			return nil, fmt.Errorf("decode players of team %d: %w", t.ID, err)
		}
		slices.Sort(t.PlayersIDs)
		result = append(result, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return result, nil
}
