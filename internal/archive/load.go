package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

// MatchFile extracts and transforms one exported match file.
type MatchFile struct {
	id  string
	raw lol.RawMatch
}

// Extract reads and decodes a match file. The match id is the file name.
func (m *MatchFile) Extract(path string) error {
	m.id = MatchID(path)
	return decodeJSONFile(path, &m.raw)
}

// ID returns the match id.
func (m *MatchFile) ID() string {
	return m.id
}

// Empty returns true if the file had no participants.
func (m *MatchFile) Empty() bool {
	return m.raw.Empty()
}

// Transform assembles the canonical match. Its winner is resolved later, once
// team membership is known.
func (m *MatchFile) Transform() *lol.Match {
	return lol.Assemble(&m.raw, m.id)
}

// Roster extracts and transforms the team roster file.
type Roster struct {
	raw []rosterTeamJSON
}

type rosterTeamJSON struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// RosterData is a transformed roster.
type RosterData struct {
	Teams []*lol.Team

	// Duplicates lists team ids the roster declared more than once.
	Duplicates []int

	byName map[string]int
}

// Extract reads and decodes a roster file.
func (r *Roster) Extract(path string) error {
	return decodeJSONFile(path, &r.raw)
}

// Transform returns the roster's teams, without members or matches, and an
// index of player names. A name listed by more than one team belongs to the
// first. A team id declared more than once keeps its first name, and the
// players of every declaration join it.
func (r *Roster) Transform() RosterData {
	d := RosterData{
		Teams:  make([]*lol.Team, 0, len(r.raw)),
		byName: map[string]int{},
	}
	seen := map[int]bool{}
	for _, t := range r.raw {
		if seen[t.ID] {
			d.Duplicates = append(d.Duplicates, t.ID)
		} else {
			seen[t.ID] = true
			d.Teams = append(d.Teams, &lol.Team{
				ID:         t.ID,
				Name:       t.Name,
				PlayersIDs: []string{},
				MatchIDs:   []string{},
			})
		}
		for _, name := range t.Players {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, ok := d.byName[key]; ok || key == "" {
				continue
			}
			d.byName[key] = t.ID
		}
	}
	return d
}

// TeamIDForName returns the team whose roster lists the player name,
// compared case-insensitively.
func (d RosterData) TeamIDForName(name string) (int, bool) {
	id, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// decodeJSONFile opens a file and decodes its JSON contents into v.
func decodeJSONFile(path string, v any) error {
	f, err := os.Open(path) //nolint:gosec // Data directory path.
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
