// Package metrics derives ratio and rate metrics from aggregated player stats.
//
// Every function is total: a zero denominator yields a neutral value rather
// than NaN or an infinity.
package metrics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
)

const msPerMinute = 60_000

// NoChampion is the display label when a player has no champion history.
const NoChampion = "N/A"

// KDA returns (kills+assists)/deaths. A deathless record returns kills+assists.
func KDA(s lol.PlayerStat) float64 {
	if s.TotalDeaths == 0 {
		return s.TotalKills + s.TotalAssists
	}
	return (s.TotalKills + s.TotalAssists) / s.TotalDeaths
}

// Minutes returns total time played in minutes.
func Minutes(s lol.PlayerStat) float64 {
	return float64(s.TotalTimePlayed) / msPerMinute
}

// CSPerMinute returns lane and neutral minions killed per minute.
func CSPerMinute(s lol.PlayerStat) float64 {
	return perMinute(s.TotalMinionsKilled, s)
}

// DamagePerMinute returns champion damage per minute.
func DamagePerMinute(s lol.PlayerStat) float64 {
	return perMinute(s.TotalDamageDealt, s)
}

// GoldPerMinute returns gold earned per minute.
func GoldPerMinute(s lol.PlayerStat) float64 {
	return perMinute(s.TotalGoldEarned, s)
}

// VisionPerMinute returns vision score per minute.
func VisionPerMinute(s lol.PlayerStat) float64 {
	return perMinute(s.TotalVisionScore, s)
}

// DamagePerGold returns champion damage per gold earned.
func DamagePerGold(s lol.PlayerStat) float64 {
	return ratio(s.TotalDamageDealt, s.TotalGoldEarned)
}

// KillParticipation returns the percentage of team kills the player killed or
// assisted.
func KillParticipation(s lol.PlayerStat) float64 {
	return ratio(s.TotalKills+s.TotalAssists, s.TotalTeamKills) * 100
}

// ControlWardsPerGame returns control wards purchased per match.
func ControlWardsPerGame(s lol.PlayerStat, matches int) float64 {
	return ratio(s.TotalControlWardsPurchased, float64(matches))
}

// WinRate returns the percentage of matches won.
func WinRate(s lol.PlayerStat, matches int) float64 {
	return ratio(float64(s.Wins), float64(matches)) * 100
}

// PerGame returns a total divided by the number of matches.
func PerGame(total float64, matches int) float64 {
	return ratio(total, float64(matches))
}

// MostPlayedChampion returns the most played champion and its play count.
// Ties go to the alphabetically first champion. It returns false if the
// player has no champion history.
func MostPlayedChampion(s lol.PlayerStat) (string, int, bool) {
	best, count := "", 0
	for champ, n := range s.ChampionPlayed {
		if n > count || (n == count && champ < best) {
			best, count = champ, n
		}
	}
	return best, count, count > 0
}

// MostPlayedChampionLabel returns e.g. "Ahri (12)", or NoChampion.
func MostPlayedChampionLabel(s lol.PlayerStat) string {
	champ, n, ok := MostPlayedChampion(s)
	if !ok {
		return NoChampion
	}
	return fmt.Sprintf("%s (%d)", champ, n)
}

// MostPlayedChampionKey returns the lowercase most played champion for
// sorting, or an empty string.
func MostPlayedChampionKey(s lol.PlayerStat) string {
	champ, _, _ := MostPlayedChampion(s)
	return strings.ToLower(champ)
}

// The radar metrics, in order.
const (
	IndexKDA = iota
	IndexDamagePerMinute
	IndexKillParticipation
	IndexGoldPerMinute
	IndexDamagePerGold
	IndexVisionPerMinute
	IndexCSPerMinute

	VectorSize
)

// Labels are the short names of the radar metrics, in Vector order.
var Labels = [VectorSize]string{"KDA", "DPM", "KP", "GPM", "Dmg/Gold", "VS/m", "CS/m"} //nolint:gochecknoglobals // Constant lookup table.

// A Vector holds the radar metrics in a fixed order.
type Vector [VectorSize]float64

// RadarVector returns the radar metrics for the supplied stats.
func RadarVector(s lol.PlayerStat) Vector {
	return Vector{
		IndexKDA:               KDA(s),
		IndexDamagePerMinute:   DamagePerMinute(s),
		IndexKillParticipation: KillParticipation(s),
		IndexGoldPerMinute:     GoldPerMinute(s),
		IndexDamagePerGold:     DamagePerGold(s),
		IndexVisionPerMinute:   VisionPerMinute(s),
		IndexCSPerMinute:       CSPerMinute(s),
	}
}

// Summary is a player's derived metrics.
type Summary struct {
	Matches             int     `json:"matches"`
	KDA                 float64 `json:"kda"`
	Minutes             float64 `json:"minutes"`
	CSPerMinute         float64 `json:"csPerMin"`
	DamagePerMinute     float64 `json:"damagePerMin"`
	GoldPerMinute       float64 `json:"goldPerMin"`
	DamagePerGold       float64 `json:"damagePerGold"`
	KillParticipation   float64 `json:"killParticipation"`
	VisionPerMinute     float64 `json:"visionPerMin"`
	ControlWardsPerGame float64 `json:"controlWards"`
	WinRate             float64 `json:"winRate"`
	MostPlayedChampion  string  `json:"mostPlayedChampion"`
}

// Summarize derives every metric for stats covering the given number of
// matches.
func Summarize(s lol.PlayerStat, matches int) Summary {
	return Summary{
		Matches:             matches,
		KDA:                 KDA(s),
		Minutes:             Minutes(s),
		CSPerMinute:         CSPerMinute(s),
		DamagePerMinute:     DamagePerMinute(s),
		GoldPerMinute:       GoldPerMinute(s),
		DamagePerGold:       DamagePerGold(s),
		KillParticipation:   KillParticipation(s),
		VisionPerMinute:     VisionPerMinute(s),
		ControlWardsPerGame: ControlWardsPerGame(s, matches),
		WinRate:             WinRate(s, matches),
		MostPlayedChampion:  MostPlayedChampionLabel(s),
	}
}

// Sort columns for player tables.
const (
	ColumnName               = "name"
	ColumnRole               = "role"
	ColumnTeam               = "teamId"
	ColumnMatches            = "matches"
	ColumnKDA                = "kda"
	ColumnKills              = "kills"
	ColumnDeaths             = "deaths"
	ColumnAssists            = "assists"
	ColumnCSPerMinute        = "csPerMin"
	ColumnDamagePerMinute    = "damagePerMin"
	ColumnGoldPerMinute      = "goldPerMin"
	ColumnDamagePerGold      = "damagePerGold"
	ColumnKillParticipation  = "killParticipation"
	ColumnVisionPerMinute    = "visionPerMin"
	ColumnControlWards       = "controlWards"
	ColumnWinRate            = "winRate"
	ColumnMostPlayedChampion = "mostPlayedChampion"
)

// Columns lists every sortable column.
func Columns() []string {
	return []string{
		ColumnName, ColumnRole, ColumnTeam, ColumnMatches, ColumnKDA,
		ColumnKills, ColumnDeaths, ColumnAssists, ColumnCSPerMinute,
		ColumnDamagePerMinute, ColumnGoldPerMinute, ColumnDamagePerGold,
		ColumnKillParticipation, ColumnVisionPerMinute, ColumnControlWards,
		ColumnWinRate, ColumnMostPlayedChampion,
	}
}

// A TeamNamer returns a display name for a team id.
type TeamNamer func(teamID int) string

// SortValue returns the value a player is sorted by for a column. Text
// columns return a lowercase string, numeric columns a float64. Unknown
// columns sort as 0.
func SortValue(p *lol.Player, column string, team TeamNamer) any {
	s := p.Stats
	n := p.Matches()
	switch column {
	case ColumnName:
		return strings.ToLower(p.Name)
	case ColumnRole:
		return strings.ToLower(string(p.Role))
	case ColumnTeam:
		if team == nil {
			return ""
		}
		return strings.ToLower(team(p.Team()))
	case ColumnMatches:
		return float64(n)
	case ColumnKDA:
		return KDA(s)
	case ColumnKills:
		return PerGame(s.TotalKills, n)
	case ColumnDeaths:
		return PerGame(s.TotalDeaths, n)
	case ColumnAssists:
		return PerGame(s.TotalAssists, n)
	case ColumnCSPerMinute:
		return CSPerMinute(s)
	case ColumnDamagePerMinute:
		return DamagePerMinute(s)
	case ColumnGoldPerMinute:
		return GoldPerMinute(s)
	case ColumnDamagePerGold:
		return DamagePerGold(s)
	case ColumnKillParticipation:
		return KillParticipation(s)
	case ColumnVisionPerMinute:
		return VisionPerMinute(s)
	case ColumnControlWards:
		return ControlWardsPerGame(s, n)
	case ColumnWinRate:
		return WinRate(s, n)
	case ColumnMostPlayedChampion:
		return MostPlayedChampionKey(s)
	default:
		return 0.0
	}
}

// SortPlayers sorts players by a column, in place. Ties keep name order.
func SortPlayers(players []*lol.Player, column string, descending bool, team TeamNamer) {
	slices.SortStableFunc(players, func(a, b *lol.Player) int {
		c := compare(SortValue(a, column, team), SortValue(b, column, team))
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

func compare(a, b any) int {
	switch x := a.(type) {
	case string:
		y, _ := b.(string)
		return cmp.Compare(x, y)
	case float64:
		y, _ := b.(float64)
		return cmp.Compare(x, y)
	}
	return 0
}

func perMinute(total float64, s lol.PlayerStat) float64 {
	return ratio(total, Minutes(s))
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
