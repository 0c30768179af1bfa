package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

type matchMap map[string]*lol.Match

func (m matchMap) Match(id string) (*lol.Match, bool) {
	match, ok := m[id]
	return match, ok
}

func ptr(f float64) *float64 { return &f }

// fixture returns three matches for player "p" (side 1) with teammates and
// opponents:
//
//	m1: p on Ahri, 5/0/3, win, 30 min, team kills 5+4=9
//	m2: p on Ahri, 2/4/6, loss, 20 min, team kills 2+1=3
//	m3: p on Lux, 1/1/1, win, 25 min, no control wards or minions recorded
func fixture() matchMap {
	return matchMap{
		"2024-01-08-1": {
			ID:       "2024-01-08-1",
			Duration: 30 * 60_000,
			Stats: map[string]lol.PlayerMatchData{
				"p": {
					TeamSideNumber: 1, ChampionPlayed: "Ahri", Win: true,
					Combat: lol.CombatStats{Kills: 5, Deaths: 0, Assists: 3},
					Damage: lol.DamageStats{TotalDamageToChampions: 30000},
					Vision: lol.VisionStats{VisionScore: 30, ControlWardPurchased: ptr(2)},
					Income: lol.IncomeStats{GoldEarned: 12000, TotalMinionsKilled: ptr(250), NeutralMinionsKilled: ptr(20)},
				},
				"mate": {TeamSideNumber: 1, Combat: lol.CombatStats{Kills: 4}},
				"foe":  {TeamSideNumber: 2, Combat: lol.CombatStats{Kills: 8}},
			},
		},
		"2024-01-09-1": {
			ID:       "2024-01-09-1",
			Duration: 20 * 60_000,
			Stats: map[string]lol.PlayerMatchData{
				"p": {
					TeamSideNumber: 1, ChampionPlayed: "Ahri",
					Combat: lol.CombatStats{Kills: 2, Deaths: 4, Assists: 6},
					Damage: lol.DamageStats{TotalDamageToChampions: 15000},
					Vision: lol.VisionStats{VisionScore: 20, ControlWardPurchased: ptr(1)},
					Income: lol.IncomeStats{GoldEarned: 8000, TotalMinionsKilled: ptr(180)},
				},
				"mate": {TeamSideNumber: 1, Combat: lol.CombatStats{Kills: 1}},
			},
		},
		"2024-01-10-1": {
			ID:       "2024-01-10-1",
			Duration: 25 * 60_000,
			Stats: map[string]lol.PlayerMatchData{
				"p": {
					TeamSideNumber: 1, ChampionPlayed: "Lux", Win: true,
					Combat: lol.CombatStats{Kills: 1, Deaths: 1, Assists: 1},
					Damage: lol.DamageStats{TotalDamageToChampions: 10000},
					Vision: lol.VisionStats{VisionScore: 10},
					Income: lol.IncomeStats{GoldEarned: 9000},
				},
			},
		},
	}
}

func TestApply(t *testing.T) {
	matches := fixture()

	type want struct {
		applied []bool
		player  *lol.Player
	}

	cases := map[string]struct {
		reason string
		ids    []string
		want   want
	}{
		"Once": {
			reason: "Applying each match once should sum every per-match delta.",
			ids:    []string{"2024-01-08-1", "2024-01-09-1", "2024-01-10-1"},
			want: want{
				applied: []bool{true, true, true},
				player: &lol.Player{
					UID:      "p",
					Role:     lol.RoleMid,
					MatchIDs: []string{"2024-01-08-1", "2024-01-09-1", "2024-01-10-1"},
					Stats: lol.PlayerStat{
						ChampionPlayed:             map[string]int{"Ahri": 2, "Lux": 1},
						Wins:                       2,
						TotalKills:                 8,
						TotalDeaths:                5,
						TotalAssists:               10,
						TotalDamageDealt:           55000,
						TotalVisionScore:           60,
						TotalControlWardsPurchased: 3,
						TotalGoldEarned:            29000,
						TotalMinionsKilled:         450,
						TotalTimePlayed:            75 * 60_000,
						TotalTeamKills:             13,
					},
				},
			},
		},
		"Twice": {
			reason: "Applying the same match twice should count it once.",
			ids:    []string{"2024-01-08-1", "2024-01-08-1"},
			want: want{
				applied: []bool{true, false},
				player: &lol.Player{
					UID:      "p",
					Role:     lol.RoleMid,
					MatchIDs: []string{"2024-01-08-1"},
					Stats: lol.PlayerStat{
						ChampionPlayed:             map[string]int{"Ahri": 1},
						Wins:                       1,
						TotalKills:                 5,
						TotalAssists:               3,
						TotalDamageDealt:           30000,
						TotalVisionScore:           30,
						TotalControlWardsPurchased: 2,
						TotalGoldEarned:            12000,
						TotalMinionsKilled:         270,
						TotalTimePlayed:            30 * 60_000,
						TotalTeamKills:             9,
					},
				},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewPlayer("p", lol.PlayerMatchData{Role: lol.RoleMid})
			applied := make([]bool, 0, len(tc.ids))
			for _, id := range tc.ids {
				applied = append(applied, Apply(p, matches[id]))
			}

			if diff := cmp.Diff(tc.want.applied, applied); diff != "" {
				t.Errorf("\n%s\nApply(...): -want applied, +got applied:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.player, p); diff != "" {
				t.Errorf("\n%s\nApply(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestApplyMissingStats(t *testing.T) {
	p := NewPlayer("ghost", lol.PlayerMatchData{})
	m := fixture()["2024-01-08-1"]

	if !Apply(p, m) {
		t.Fatalf("Apply(...): want match recorded in ledger")
	}
	if diff := cmp.Diff(lol.NewPlayerStat(), p.Stats); diff != "" {
		t.Errorf("Apply(...): a player without stats in the match should gain nothing: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(lol.RoleUnknown, p.Role); diff != "" {
		t.Errorf("NewPlayer(...): -want, +got:\n%s", diff)
	}
}

func TestSubset(t *testing.T) {
	matches := fixture()

	lifetime := NewPlayer("p", lol.PlayerMatchData{})
	for _, id := range []string{"2024-01-08-1", "2024-01-09-1", "2024-01-10-1"} {
		Apply(lifetime, matches[id])
	}

	type args struct {
		playerID string
		ids      []string
	}

	cases := map[string]struct {
		reason string
		args   args
		want   lol.PlayerStat
	}{
		"AllMatches": {
			reason: "Aggregating every match should equal the lifetime totals.",
			args:   args{playerID: "p", ids: lifetime.MatchIDs},
			want:   lifetime.Stats,
		},
		"Empty": {
			reason: "An empty list should give zeroed stats.",
			args:   args{playerID: "p"},
			want:   lol.NewPlayerStat(),
		},
		"UnknownAndRepeated": {
			reason: "Unknown matches should be skipped and repeated ids counted once.",
			args:   args{playerID: "p", ids: []string{"nope", "2024-01-10-1", "2024-01-10-1"}},
			want: lol.PlayerStat{
				ChampionPlayed:   map[string]int{"Lux": 1},
				Wins:             1,
				TotalKills:       1,
				TotalDeaths:      1,
				TotalAssists:     1,
				TotalDamageDealt: 10000,
				TotalVisionScore: 10,
				TotalGoldEarned:  9000,
				TotalTimePlayed:  25 * 60_000,
				TotalTeamKills:   1,
			},
		},
		"NotInMatch": {
			reason: "A player without stats in the listed matches should get zeroed stats.",
			args:   args{playerID: "foe", ids: []string{"2024-01-09-1"}},
			want:   lol.NewPlayerStat(),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Subset(matches, tc.args.playerID, tc.args.ids)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nSubset(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestPerChampion(t *testing.T) {
	matches := fixture()
	p := NewPlayer("p", lol.PlayerMatchData{})
	Apply(p, matches["2024-01-08-1"])
	Apply(p, matches["2024-01-10-1"])
	Apply(p, matches["2024-01-09-1"])

	c := &ChampionCache{}
	got := c.PerChampion(matches, p)

	want := []ChampionStat{
		{Champion: "Ahri", MatchIDs: []string{"2024-01-08-1", "2024-01-09-1"}, Stats: Subset(matches, "p", []string{"2024-01-08-1", "2024-01-09-1"})},
		{Champion: "Lux", MatchIDs: []string{"2024-01-10-1"}, Stats: Subset(matches, "p", []string{"2024-01-10-1"})},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PerChampion(...): -want, +got:\n%s", diff)
	}

	// A memoized breakdown is reused until the player's ledger grows.
	matches["2024-01-11-1"] = &lol.Match{
		ID:    "2024-01-11-1",
		Stats: map[string]lol.PlayerMatchData{"p": {ChampionPlayed: "Lux"}},
	}
	if diff := cmp.Diff(want, c.PerChampion(matches, p)); diff != "" {
		t.Errorf("PerChampion(...): memoized result should be reused: -want, +got:\n%s", diff)
	}

	Apply(p, matches["2024-01-11-1"])
	got = c.PerChampion(matches, p)
	if diff := cmp.Diff([]string{"Ahri", "Lux"}, champions(got)); diff != "" {
		t.Errorf("PerChampion(...): -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(2, len(got[1].MatchIDs)); diff != "" {
		t.Errorf("PerChampion(...): grown ledger should refresh the memo: -want, +got:\n%s", diff)
	}
}

func champions(stats []ChampionStat) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Champion)
	}
	return out
}

func TestPerChampionEmpty(t *testing.T) {
	got := PerChampion(matchMap{}, &lol.Player{UID: "p", MatchIDs: []string{"missing"}})
	if diff := cmp.Diff([]ChampionStat{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("PerChampion(...): -want, +got:\n%s", diff)
	}
}
