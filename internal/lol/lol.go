// Package lol defines the canonical League of Legends match and player data
// model, and turns raw exported match payloads into it.
package lol

import (
	"maps"
	"slices"
)

// Team ids with a fixed meaning.
const (
	// OurTeamID is the team the dashboard is built for.
	OurTeamID = 0

	// NoTeam marks a team id that could not be resolved.
	NoTeam = -1
)

// A Role is a player's lane assignment.
type Role string

// Roles.
const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JGL"
	RoleMid     Role = "MID"
	RoleADC     Role = "ADC"
	RoleSupport Role = "SUP"
	RoleUnknown Role = "UNKNOWN"
)

// RoleFromPosition maps an exported position (TOP, JUNGLE, MIDDLE, BOTTOM,
// UTILITY) to a Role. Anything else is RoleUnknown.
func RoleFromPosition(pos string) Role {
	switch pos {
	case "TOP":
		return RoleTop
	case "JUNGLE":
		return RoleJungle
	case "MIDDLE":
		return RoleMid
	case "BOTTOM":
		return RoleADC
	case "UTILITY":
		return RoleSupport
	default:
		return RoleUnknown
	}
}

// A RawParticipant is one participant record as exported by the data source.
// Values may be strings, numbers, or missing.
type RawParticipant map[string]any

// A RawMatch is an exported match payload.
type RawMatch struct {
	Participants []RawParticipant `json:"participants,omitempty"`
	GameDuration any              `json:"gameDuration,omitempty"`
}

// Empty returns true if the payload carries no participants.
func (r *RawMatch) Empty() bool {
	return r == nil || len(r.Participants) == 0
}

// CombatStats are a participant's fights. Pointer fields are nil when the
// source didn't record them.
type CombatStats struct {
	Kills                 float64  `json:"kills"`
	Deaths                float64  `json:"deaths"`
	Assists               float64  `json:"assists"`
	DoubleKills           *float64 `json:"doubleKills,omitempty"`
	TripleKills           *float64 `json:"tripleKills,omitempty"`
	QuadraKills           *float64 `json:"quadraKills,omitempty"`
	PentaKills            *float64 `json:"pentaKills,omitempty"`
	CCScore               *float64 `json:"ccScore,omitempty"`
	CCTime                *float64 `json:"ccTime,omitempty"`
	TotalCCTime           *float64 `json:"totalCCTime,omitempty"`
	LongestTimeSpentAlive *float64 `json:"longestTimeSpentAlive,omitempty"`
	TimeSpentDead         *float64 `json:"timeSpentDead,omitempty"`
}

// DamageStats are a participant's damage dealt, taken, and mitigated.
type DamageStats struct {
	TotalDamageToChampions         float64  `json:"totalDamageToChampions"`
	PhysicalDamageToChampions      *float64 `json:"physicalDamageToChampions,omitempty"`
	MagicDamageToChampions         *float64 `json:"magicDamageToChampions,omitempty"`
	TrueDamageToChampions          *float64 `json:"trueDamageToChampions,omitempty"`
	TotalDamageTaken               *float64 `json:"totalDamageTaken,omitempty"`
	PhysicalDamageTaken            *float64 `json:"physicalDamageTaken,omitempty"`
	MagicDamageTaken               *float64 `json:"magicDamageTaken,omitempty"`
	TrueDamageTaken                *float64 `json:"trueDamageTaken,omitempty"`
	TotalHealingDone               *float64 `json:"totalHealingDone,omitempty"`
	TotalHealingDoneToTeammates    *float64 `json:"totalHealingDoneToTeammates,omitempty"`
	TotalDamageShieldedToTeammates *float64 `json:"totalDamageShieldedToTeammates,omitempty"`
}

// VisionStats are a participant's warding.
type VisionStats struct {
	VisionScore          float64  `json:"visionScore"`
	WardsPlaced          float64  `json:"wardsPlaced"`
	WardsKilled          float64  `json:"wardsKilled"`
	ControlWardPurchased *float64 `json:"controlWardPurchased,omitempty"`
}

// IncomeStats are a participant's gold and farm.
type IncomeStats struct {
	GoldEarned                      float64  `json:"goldEarned"`
	GoldFromPlates                  *float64 `json:"goldFromPlates,omitempty"`
	GoldFromStructures              *float64 `json:"goldFromStructures,omitempty"`
	GoldSpent                       *float64 `json:"goldSpent,omitempty"`
	TotalMinionsKilled              *float64 `json:"totalMinionsKilled,omitempty"`
	NeutralMinionsKilled            *float64 `json:"neutralMinionsKilled,omitempty"`
	NeutralMinionsKilledTeamJungle  *float64 `json:"neutralMinionsKilledTeamJungle,omitempty"`
	NeutralMinionsKilledEnemyJungle *float64 `json:"neutralMinionsKilledEnemyJungle,omitempty"`
}

// ObjectiveStats are a participant's structure and neutral objective work.
type ObjectiveStats struct {
	TurretsKilled           *float64 `json:"turretsKilled,omitempty"`
	TurretPlatesDestroyed   *float64 `json:"turretPlatesDestroyed,omitempty"`
	TotalDamageToTurrets    *float64 `json:"totalDamageToTurrets,omitempty"`
	TotalDamageToObjectives *float64 `json:"totalDamageToObjectives,omitempty"`
	ObjectivesStolen        *float64 `json:"objectivesStolen,omitempty"`
	VoidGrubKills           *float64 `json:"voidGrubKills,omitempty"`
	RiftHeraldKills         *float64 `json:"riftHeraldKills,omitempty"`
	DragonKills             *float64 `json:"dragonKills,omitempty"`
	BaronKills              *float64 `json:"baronKills,omitempty"`
}

// PlayerMatchData is one player's normalized stats for one match.
type PlayerMatchData struct {
	Name           string         `json:"name,omitempty"`
	Role           Role           `json:"role"`
	TeamSideNumber int            `json:"teamSideNumber"` // 1 or 2; 0 if the source had no side.
	ChampionPlayed string         `json:"championPlayed"`
	Win            bool           `json:"win"`
	Combat         CombatStats    `json:"combat"`
	Damage         DamageStats    `json:"damage"`
	Vision         VisionStats    `json:"vision"`
	Income         IncomeStats    `json:"income"`
	Objectives     ObjectiveStats `json:"objectives"`
}

// A Match is a canonical match record.
type Match struct {
	ID                 string                     `json:"id"`
	PlayerIDs          []string                   `json:"playerIds"`
	TeamIDs            []int                      `json:"teamIds"`
	VictoriousTeamSide int                        `json:"victoriousTeamSide"`
	VictoriousTeamID   int                        `json:"victoriousTeamId"`
	Duration           int64                      `json:"duration"` // Milliseconds.
	Stats              map[string]PlayerMatchData `json:"stats"`
	IsOfficial         bool                       `json:"isOfficial"`
	Raw                *RawMatch                  `json:"raw,omitempty"`
}

// VictoryResolved returns true once the winning team is known.
func (m *Match) VictoryResolved() bool {
	return m.VictoriousTeamID != NoTeam
}

// Clone returns a deep copy of the match, without the raw payload.
func (m *Match) Clone() *Match {
	c := *m
	c.PlayerIDs = slices.Clone(m.PlayerIDs)
	c.TeamIDs = slices.Clone(m.TeamIDs)
	c.Stats = maps.Clone(m.Stats)
	c.Raw = nil
	return &c
}

// PlayerStat is a running aggregate of a player's matches.
type PlayerStat struct {
	ChampionPlayed             map[string]int `json:"championPlayed"`
	Wins                       int            `json:"wins"`
	TotalKills                 float64        `json:"totalKills"`
	TotalDeaths                float64        `json:"totalDeaths"`
	TotalAssists               float64        `json:"totalAssists"`
	TotalDamageDealt           float64        `json:"totalDamageDealt"`
	TotalVisionScore           float64        `json:"totalVisionScore"`
	TotalControlWardsPurchased float64        `json:"totalControlWardsPurchased"`
	TotalGoldEarned            float64        `json:"totalGoldEarned"`
	TotalMinionsKilled         float64        `json:"totalMinionsKilled"`
	TotalTimePlayed            int64          `json:"totalTimePlayed"` // Milliseconds.
	TotalTeamKills             float64        `json:"totalTeamKills"`
}

// NewPlayerStat returns a zeroed PlayerStat.
func NewPlayerStat() PlayerStat {
	return PlayerStat{ChampionPlayed: map[string]int{}}
}

// Clone returns a deep copy of the stat.
func (s PlayerStat) Clone() PlayerStat {
	s.ChampionPlayed = maps.Clone(s.ChampionPlayed)
	if s.ChampionPlayed == nil {
		s.ChampionPlayed = map[string]int{}
	}
	return s
}

// A Player is anyone who has appeared in at least one match.
type Player struct {
	UID      string     `json:"uid"`
	Name     string     `json:"name"`
	TeamID   *int       `json:"teamId,omitempty"`
	MatchIDs []string   `json:"matchIds"`
	Role     Role       `json:"role"`
	Stats    PlayerStat `json:"stats"`
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	if p.TeamID != nil {
		id := *p.TeamID
		c.TeamID = &id
	}
	c.MatchIDs = slices.Clone(p.MatchIDs)
	c.Stats = p.Stats.Clone()
	return &c
}

// Team returns the player's team id, or NoTeam.
func (p *Player) Team() int {
	if p.TeamID == nil {
		return NoTeam
	}
	return *p.TeamID
}

// Matches returns the number of distinct matches the player appeared in.
func (p *Player) Matches() int {
	return len(p.MatchIDs)
}

// A Team is a roster of players.
type Team struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	PlayersIDs []string `json:"playersIds"`
	MatchIDs   []string `json:"matchIds"`
}

// Clone returns a deep copy of the team.
func (t *Team) Clone() *Team {
	c := *t
	c.PlayersIDs = slices.Clone(t.PlayersIDs)
	c.MatchIDs = slices.Clone(t.MatchIDs)
	return &c
}

// A TeamResolver maps players to teams.
type TeamResolver interface {
	TeamIDForPlayer(playerID string) (int, bool)
}

// TeamMap is a TeamResolver backed by a map of player id to team id.
type TeamMap map[string]int

// TeamIDForPlayer returns the player's team id.
func (m TeamMap) TeamIDForPlayer(playerID string) (int, bool) {
	id, ok := m[playerID]
	return id, ok
}
