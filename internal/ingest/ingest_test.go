package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Aezurly/Lol-Metrics/internal/archive"
	"github.com/Aezurly/Lol-Metrics/internal/db"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/store"
)

type participant struct {
	id, name string
	side     int
	win      bool
	kills    int
}

func (p participant) json() string {
	win := "Fail"
	if p.win {
		win = "Win"
	}
	return fmt.Sprintf(`{"PUUID": %q, "RIOT_ID_GAME_NAME": %q, "TEAM": "%d", "WIN": %q, "CHAMPIONS_KILLED": %d, "SKIN": "Ahri", "INDIVIDUAL_POSITION": "MIDDLE"}`,
		p.id, p.name, p.side*100, win, p.kills)
}

func writeMatch(t *testing.T, dir, id string, ps ...participant) {
	t.Helper()
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.json())
	}
	body := fmt.Sprintf(`{"gameDuration": 1200000, "participants": [%s]}`, strings.Join(parts, ", "))
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func writeRoster(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, archive.RosterFile), []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestDB(t *testing.T) *db.SQLiteStore {
	t.Helper()
	ctx := context.Background()
	d, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d
}

const roster = `[
	{"id": 0, "name": "Us", "players": ["Alpha"]},
	{"id": 7, "name": "Them", "players": ["Bravo"]}
]`

var (
	alpha = func(win bool, kills int) participant {
		return participant{id: "a", name: "Alpha", side: 1, win: win, kills: kills}
	}
	bravo = func(win bool, kills int) participant {
		return participant{id: "b", name: "Bravo", side: 2, win: win, kills: kills}
	}
)

func TestLoadNewMatches(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, roster)
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3), bravo(false, 1))
	writeMatch(t, dir, "2024-01-08-2", alpha(false, 2), bravo(true, 5))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := store.New()
	i := New(archive.NewClient(dir), s, WithPersister(newTestDB(t)), WithConcurrency(2))

	n, err := i.LoadNewMatches(ctx)
	if err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	if diff := cmp.Diff(2, n); diff != "" {
		t.Errorf("LoadNewMatches(): -want ingested, +got:\n%s", diff)
	}

	want := store.Status{IsInitialized: true, TeamsCount: 2, PlayersCount: 2, MatchesCount: 2}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("Status(): -want, +got:\n%s", diff)
	}

	m, _ := s.Match("2024-01-08-2")
	if diff := cmp.Diff([]int{0, 7}, m.TeamIDs); diff != "" {
		t.Errorf("Match(...).TeamIDs: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(7, m.VictoriousTeamID); diff != "" {
		t.Errorf("Match(...).VictoriousTeamID: -want, +got:\n%s", diff)
	}

	a, _ := s.Player("a")
	if diff := cmp.Diff(5.0, a.Stats.TotalKills); diff != "" {
		t.Errorf("Player(a).Stats.TotalKills: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(0, a.Team()); diff != "" {
		t.Errorf("Player(a).Team(): -want, +got:\n%s", diff)
	}

	us, _ := s.Team(0)
	wantTeam := &lol.Team{ID: 0, Name: "Us", PlayersIDs: []string{"a"}, MatchIDs: []string{"2024-01-08-1", "2024-01-08-2"}}
	if diff := cmp.Diff(wantTeam, us); diff != "" {
		t.Errorf("Team(0): -want, +got:\n%s", diff)
	}

	// Loading again should find nothing new and leave stats alone.
	n, err = i.LoadNewMatches(ctx)
	if err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	if diff := cmp.Diff(0, n); diff != "" {
		t.Errorf("LoadNewMatches(): second load -want ingested, +got:\n%s", diff)
	}
	again, _ := s.Player("a")
	if diff := cmp.Diff(a, again); diff != "" {
		t.Errorf("LoadNewMatches(): second load changed player: -want, +got:\n%s", diff)
	}
}

func TestReloadTeams(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, `[{"id": 0, "name": "Us", "players": ["Alpha"]}]`)
	writeMatch(t, dir, "2024-01-08-1", alpha(false, 0), bravo(true, 4))

	s := store.New()
	i := New(archive.NewClient(dir), s)

	if _, err := i.LoadNewMatches(ctx); err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	m, _ := s.Match("2024-01-08-1")
	if m.VictoryResolved() {
		t.Errorf("LoadNewMatches(): a winner without a team should leave the match unresolved")
	}
	if diff := cmp.Diff(2, m.VictoriousTeamSide); diff != "" {
		t.Errorf("LoadNewMatches(): -want side, +got:\n%s", diff)
	}

	writeRoster(t, dir, roster)
	if err := i.ReloadTeams(ctx); err != nil {
		t.Fatalf("ReloadTeams: %v", err)
	}

	m, _ = s.Match("2024-01-08-1")
	if diff := cmp.Diff(7, m.VictoriousTeamID); diff != "" {
		t.Errorf("ReloadTeams(): -want winner, +got:\n%s", diff)
	}
	if id, ok := s.TeamIDForPlayer("b"); !ok || id != 7 {
		t.Errorf("ReloadTeams(): want player b on team 7, got %d, %t", id, ok)
	}
	them, _ := s.Team(7)
	if diff := cmp.Diff([]string{"2024-01-08-1"}, them.MatchIDs); diff != "" {
		t.Errorf("ReloadTeams(): -want team matches, +got:\n%s", diff)
	}
}

func TestReloadAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, roster)
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3), bravo(false, 1))

	s := store.New()
	i := New(archive.NewClient(dir), s, WithPersister(newTestDB(t)))

	if _, err := i.LoadNewMatches(ctx); err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	before := s.Players()

	n, err := i.ReloadAll(ctx)
	if err != nil {
		t.Fatalf("ReloadAll: %v", err)
	}
	if diff := cmp.Diff(1, n); diff != "" {
		t.Errorf("ReloadAll(): -want ingested, +got:\n%s", diff)
	}
	if diff := cmp.Diff(before, s.Players()); diff != "" {
		t.Errorf("ReloadAll(): players should be rebuilt identically: -want, +got:\n%s", diff)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, roster)
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3), bravo(false, 1))
	d := newTestDB(t)

	first := store.New()
	if _, err := New(archive.NewClient(dir), first, WithPersister(d)).LoadNewMatches(ctx); err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}

	second := store.New()
	i := New(archive.NewClient(dir), second, WithPersister(d))
	if err := i.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if diff := cmp.Diff(first.Players(), second.Players()); diff != "" {
		t.Errorf("Restore(): -want players, +got:\n%s", diff)
	}
	if diff := cmp.Diff(first.Matches(), second.Matches(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Restore(): -want matches, +got:\n%s", diff)
	}
	if diff := cmp.Diff(first.Teams(), second.Teams(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Restore(): -want teams, +got:\n%s", diff)
	}

	// Restored matches count as processed, so nothing is ingested twice.
	n, err := i.LoadNewMatches(ctx)
	if err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	if diff := cmp.Diff(0, n); diff != "" {
		t.Errorf("LoadNewMatches(): after restore -want ingested, +got:\n%s", diff)
	}
}

func TestMissingRoster(t *testing.T) {
	dir := t.TempDir()
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3))

	s := store.New()
	if _, err := New(archive.NewClient(dir), s).LoadNewMatches(context.Background()); err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	p, ok := s.Player("a")
	if !ok {
		t.Fatalf("Player(a): not found")
	}
	if p.TeamID != nil {
		t.Errorf("LoadNewMatches(): without a roster players should have no team, got %d", *p.TeamID)
	}
}

func TestDuplicateTeamRoster(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, `[
		{"id": 0, "name": "Us", "players": ["Alpha"]},
		{"id": 0, "name": "Again", "players": ["Bravo"]}
	]`)
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3), bravo(false, 1))
	d := newTestDB(t)

	s := store.New()
	i := New(archive.NewClient(dir), s, WithPersister(d))

	for _, wantN := range []int{1, 0} {
		n, err := i.LoadNewMatches(ctx)
		if err != nil {
			t.Fatalf("LoadNewMatches: %v", err)
		}
		if diff := cmp.Diff(wantN, n); diff != "" {
			t.Errorf("LoadNewMatches(): -want ingested, +got:\n%s", diff)
		}
		want := store.Status{IsInitialized: true, TeamsCount: 1, PlayersCount: 2, MatchesCount: 1}
		if diff := cmp.Diff(want, s.Status()); diff != "" {
			t.Errorf("Status(): -want, +got:\n%s", diff)
		}
	}

	us, _ := s.Team(0)
	if diff := cmp.Diff("Us", us.Name); diff != "" {
		t.Errorf("Team(0).Name: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, us.PlayersIDs, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("Team(0).PlayersIDs: -want, +got:\n%s", diff)
	}

	persisted, err := d.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if diff := cmp.Diff(1, len(persisted)); diff != "" {
		t.Errorf("ListTeams(): -want persisted teams, +got:\n%s", diff)
	}
}

type failingPersister struct {
	Persister
}

func (failingPersister) Save(_ context.Context, _ []*lol.Match, _ []*lol.Player) error {
	return errors.New("disk full")
}

func (failingPersister) ReplaceTeams(_ context.Context, _ []*lol.Team) error {
	return errors.New("disk full")
}

func TestPersistFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeRoster(t, dir, roster)
	writeMatch(t, dir, "2024-01-08-1", alpha(true, 3), bravo(false, 1))

	s := store.New()
	i := New(archive.NewClient(dir), s, WithPersister(failingPersister{}))

	n, err := i.LoadNewMatches(ctx)
	if err != nil {
		t.Fatalf("LoadNewMatches: %v", err)
	}
	if diff := cmp.Diff(1, n); diff != "" {
		t.Errorf("LoadNewMatches(): -want ingested, +got:\n%s", diff)
	}
	want := store.Status{IsInitialized: true, TeamsCount: 2, PlayersCount: 2, MatchesCount: 1}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("Status(): -want, +got:\n%s", diff)
	}

	if err := i.ReloadTeams(ctx); err != nil {
		t.Errorf("ReloadTeams(): want persistence failures logged, got %v", err)
	}
}
