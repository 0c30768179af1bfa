package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

func TestIsProcessed(t *testing.T) {
	cases := map[string]struct {
		reason string
		m      *lol.Match
		want   bool
	}{
		"Missing": {
			reason: "A match that was never stored isn't processed.",
			want:   false,
		},
		"WithPayload": {
			reason: "A match stored with participants is processed.",
			m:      &lol.Match{ID: "m", Raw: &lol.RawMatch{Participants: []lol.RawParticipant{{"PUUID": "a"}}}},
			want:   true,
		},
		"EmptyPayload": {
			reason: "A match stored with an empty payload should be processed again.",
			m:      &lol.Match{ID: "m", Raw: &lol.RawMatch{}},
			want:   false,
		},
		"Restored": {
			reason: "A match restored without its payload is processed.",
			m:      &lol.Match{ID: "m"},
			want:   true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New()
			if tc.m != nil {
				s.PutMatch(tc.m)
			}
			if diff := cmp.Diff(tc.want, s.IsProcessed("m")); diff != "" {
				t.Errorf("\n%s\nIsProcessed(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestCopies(t *testing.T) {
	s := New()
	s.PutMatch(&lol.Match{ID: "m", PlayerIDs: []string{"a"}, Stats: map[string]lol.PlayerMatchData{}})
	s.PutPlayer(&lol.Player{UID: "a", Name: "Alpha", MatchIDs: []string{"m"}, Stats: lol.NewPlayerStat()})

	m, _ := s.Match("m")
	m.PlayerIDs[0] = "mutated"
	p, _ := s.Player("a")
	p.MatchIDs = append(p.MatchIDs, "other")
	p.Stats.ChampionPlayed["Ahri"] = 1

	m, _ = s.Match("m")
	if diff := cmp.Diff([]string{"a"}, m.PlayerIDs); diff != "" {
		t.Errorf("Match(...): mutating a returned match should not change the store: -want, +got:\n%s", diff)
	}
	p, _ = s.Player("a")
	if diff := cmp.Diff([]string{"m"}, p.MatchIDs); diff != "" {
		t.Errorf("Player(...): mutating a returned player should not change the store: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{}, p.Stats.ChampionPlayed); diff != "" {
		t.Errorf("Player(...): mutating returned stats should not change the store: -want, +got:\n%s", diff)
	}
}

func TestLookups(t *testing.T) {
	zero := 0
	s := New()
	s.PutPlayer(&lol.Player{UID: "b", Name: "Bravo", TeamID: &zero})
	s.PutPlayer(&lol.Player{UID: "a", Name: "Alpha"})
	s.PutTeam(&lol.Team{ID: 0, Name: "Us"})
	s.PutMatch(&lol.Match{ID: "2"})
	s.PutMatch(&lol.Match{ID: "1"})

	if p, ok := s.PlayerByName("bravo"); !ok || p.UID != "b" {
		t.Errorf("PlayerByName(%q): want player b, got %v, %t", "bravo", p, ok)
	}
	if _, ok := s.PlayerByName("nobody"); ok {
		t.Errorf("PlayerByName(%q): want not found", "nobody")
	}
	if id, ok := s.TeamIDForPlayer("b"); !ok || id != 0 {
		t.Errorf("TeamIDForPlayer(%q): want 0, true, got %d, %t", "b", id, ok)
	}
	if _, ok := s.TeamIDForPlayer("a"); ok {
		t.Errorf("TeamIDForPlayer(%q): a teamless player should not resolve", "a")
	}
	if diff := cmp.Diff("Us", s.TeamName(0)); diff != "" {
		t.Errorf("TeamName(0): -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff("No team", s.TeamName(lol.NoTeam)); diff != "" {
		t.Errorf("TeamName(NoTeam): -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, s.MatchIDs()); diff != "" {
		t.Errorf("MatchIDs(): -want, +got:\n%s", diff)
	}

	got := []string{}
	for _, p := range s.Players() {
		got = append(got, p.UID)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("Players(): -want, +got:\n%s", diff)
	}
}

func TestStatus(t *testing.T) {
	s := New()
	if err := s.Ready(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Ready(): want ErrNotReady before initialization, got %v", err)
	}

	s.SetLoading(true)
	s.PutTeam(&lol.Team{ID: 0})
	s.PutPlayer(&lol.Player{UID: "a"})
	s.PutMatch(&lol.Match{ID: "m"})
	s.SetLoading(false)
	s.SetInitialized()

	want := Status{IsInitialized: true, TeamsCount: 1, PlayersCount: 1, MatchesCount: 1}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("Status(): -want, +got:\n%s", diff)
	}
	if err := s.Ready(); err != nil {
		t.Errorf("Ready(): want nil after initialization, got %v", err)
	}

	s.Reset()
	want = Status{IsInitialized: true}
	if diff := cmp.Diff(want, s.Status()); diff != "" {
		t.Errorf("Reset(): -want, +got:\n%s", diff)
	}
}
