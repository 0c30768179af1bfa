package lol

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Normalize converts a raw participant into PlayerMatchData. It never fails.
// Required stats that are missing or unparseable become 0. Optional stats that
// are missing or unparseable stay nil.
func Normalize(p RawParticipant) PlayerMatchData {
	return PlayerMatchData{
		Name:           p.str("RIOT_ID_GAME_NAME"),
		Role:           RoleFromPosition(p.first("INDIVIDUAL_POSITION", "TEAM_POSITION")),
		TeamSideNumber: int(p.required("TEAM") / 100),
		ChampionPlayed: p.first("SKIN", "CHAMPION"),
		Win:            p.str("WIN") == "Win",
		Combat: CombatStats{
			Kills:                 p.required("CHAMPIONS_KILLED", "KILLS"),
			Deaths:                p.required("NUM_DEATHS", "DEATHS"),
			Assists:               p.required("ASSISTS"),
			DoubleKills:           p.optional("DOUBLE_KILLS"),
			TripleKills:           p.optional("TRIPLE_KILLS"),
			QuadraKills:           p.optional("QUADRA_KILLS"),
			PentaKills:            p.optional("PENTA_KILLS"),
			CCScore:               p.optional("TIME_CCING_OTHERS"),
			CCTime:                p.optional("TOTAL_TIME_CROWD_CONTROL_DEALT_TO_CHAMPIONS"),
			TotalCCTime:           p.optional("TOTAL_TIME_CROWD_CONTROL_DEALT"),
			LongestTimeSpentAlive: p.optional("LONGEST_TIME_SPENT_LIVING"),
			TimeSpentDead:         p.optional("TOTAL_TIME_SPENT_DEAD"),
		},
		Damage: DamageStats{
			TotalDamageToChampions:         p.required("TOTAL_DAMAGE_DEALT_TO_CHAMPIONS"),
			PhysicalDamageToChampions:      p.optional("PHYSICAL_DAMAGE_DEALT_TO_CHAMPIONS"),
			MagicDamageToChampions:         p.optional("MAGIC_DAMAGE_DEALT_TO_CHAMPIONS"),
			TrueDamageToChampions:          p.optional("TRUE_DAMAGE_DEALT_TO_CHAMPIONS"),
			TotalDamageTaken:               p.optional("TOTAL_DAMAGE_TAKEN"),
			PhysicalDamageTaken:            p.optional("PHYSICAL_DAMAGE_TAKEN"),
			MagicDamageTaken:               p.optional("MAGIC_DAMAGE_TAKEN"),
			TrueDamageTaken:                p.optional("TRUE_DAMAGE_TAKEN"),
			TotalHealingDone:               p.optional("TOTAL_HEAL"),
			TotalHealingDoneToTeammates:    p.optional("TOTAL_HEAL_ON_TEAMMATES"),
			TotalDamageShieldedToTeammates: p.optional("TOTAL_DAMAGE_SHIELDED_ON_TEAMMATES"),
		},
		Vision: VisionStats{
			VisionScore:          p.required("VISION_SCORE"),
			WardsPlaced:          p.required("WARD_PLACED"),
			WardsKilled:          p.required("WARD_KILLED"),
			ControlWardPurchased: p.optional("WARD_PLACED_DETECTOR"),
		},
		Income: IncomeStats{
			GoldEarned:                      p.required("GOLD_EARNED"),
			GoldFromPlates:                  p.optional("Missions_GoldFromTurretPlatesTaken"),
			GoldFromStructures:              p.optional("Missions_GoldFromStructuresDestroyed"),
			GoldSpent:                       p.optional("GOLD_SPENT"),
			TotalMinionsKilled:              p.optional("MINIONS_KILLED"),
			NeutralMinionsKilled:            p.optional("NEUTRAL_MINIONS_KILLED"),
			NeutralMinionsKilledTeamJungle:  p.optional("NEUTRAL_MINIONS_KILLED_YOUR_JUNGLE"),
			NeutralMinionsKilledEnemyJungle: p.optional("NEUTRAL_MINIONS_KILLED_ENEMY_JUNGLE"),
		},
		Objectives: ObjectiveStats{
			TurretsKilled:           p.optional("TURRETS_KILLED"),
			TurretPlatesDestroyed:   p.optional("Missions_TurretPlatesDestroyed"),
			TotalDamageToTurrets:    p.optional("TOTAL_DAMAGE_DEALT_TO_TURRETS"),
			TotalDamageToObjectives: p.optional("TOTAL_DAMAGE_DEALT_TO_OBJECTIVES"),
			ObjectivesStolen:        p.optional("OBJECTIVES_STOLEN"),
			VoidGrubKills:           p.optional("HORDE_KILLS"),
			RiftHeraldKills:         p.optional("RIFT_HERALD_KILLS"),
			DragonKills:             p.optional("DRAGON_KILLS"),
			BaronKills:              p.optional("BARON_KILLS"),
		},
	}
}

// PlayerID returns the participant's unique id.
func (p RawParticipant) PlayerID() string {
	return p.str("PUUID")
}

// str returns the value at key if it's a string.
func (p RawParticipant) str(key string) string {
	s, _ := p[key].(string)
	return s
}

// first returns the first non-empty string among keys.
func (p RawParticipant) first(keys ...string) string {
	for _, k := range keys {
		if s := p.str(k); s != "" {
			return s
		}
	}
	return ""
}

// required returns the first present value among keys as a non-negative
// number, or 0.
func (p RawParticipant) required(keys ...string) float64 {
	for _, k := range keys {
		v, present := p[k]
		if !present || v == nil {
			continue
		}
		n, ok := Number(v)
		if !ok || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// optional returns the value at key as a number, or nil.
func (p RawParticipant) optional(key string) *float64 {
	n, ok := Number(p[key])
	if !ok {
		return nil
	}
	return &n
}

// Number coerces an exported value to a finite number. Strings are trimmed
// and parsed. It returns false for nil, empty strings, unparseable values, and
// NaN or infinite results.
func Number(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
