// Package radar compares players against their role peers: KDA quartile
// bands, per-role metric bounds, and 0-100 radar datasets.
package radar

import (
	"math"
	"slices"

	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
)

// Quartile positions within a sorted population.
const (
	Percentile25 = 0.25
	Percentile75 = 0.75
)

// A Band classifies a value against its population.
type Band string

// Bands.
const (
	BandNone Band = ""
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Quartiles returns the 25th and 75th percentile of values. It returns false
// for an empty population.
func Quartiles(values []float64) (p25, p75 float64, ok bool) {
	n := len(values)
	if n == 0 {
		return 0, 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	at := func(p float64) float64 {
		return sorted[min(int(math.Floor(float64(n)*p)), n-1)]
	}
	return at(Percentile25), at(Percentile75), true
}

// Classify returns the band of v within pool: high at or above P75, low at or
// below P25, mid otherwise. An empty pool gives BandNone.
func Classify(pool []float64, v float64) Band {
	p25, p75, ok := Quartiles(pool)
	switch {
	case !ok:
		return BandNone
	case v >= p75:
		return BandHigh
	case v <= p25:
		return BandLow
	default:
		return BandMid
	}
}

// KDABand returns the band of a player's lifetime KDA among pool.
func KDABand(pool []*lol.Player, p *lol.Player) Band {
	kdas := make([]float64, 0, len(pool))
	for _, o := range pool {
		kdas = append(kdas, metrics.KDA(o.Stats))
	}
	return Classify(kdas, metrics.KDA(p.Stats))
}

// A Bound is the range of one metric across a population.
type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds is one Bound per radar metric.
type Bounds [metrics.VectorSize]Bound

// ComputeBounds returns the min and max of each metric across vectors,
// ignoring non-finite values. When a metric's min equals a non-zero max the
// min is forced to 0, so a lone value scales to 100 instead of collapsing.
func ComputeBounds(vectors []metrics.Vector) Bounds {
	var b Bounds
	for i := range b {
		first := true
		for _, v := range vectors {
			x := v[i]
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			if first {
				b[i] = Bound{Min: x, Max: x}
				first = false
				continue
			}
			b[i].Min = min(b[i].Min, x)
			b[i].Max = max(b[i].Max, x)
		}
		if b[i].Min == b[i].Max && b[i].Max != 0 {
			b[i].Min = 0
		}
	}
	return b
}

// RoleBounds returns the metric bounds across every player with the role.
func RoleBounds(players []*lol.Player, role lol.Role) Bounds {
	return ComputeBounds(vectors(peers(players, role)))
}

// Scale maps v onto 0-100 between lo and hi, clamping out of range values.
// A degenerate range scores 100 only for a value equal to it.
func Scale(v, lo, hi float64) float64 {
	if hi == lo {
		if v == hi {
			return 100
		}
		return 0
	}
	clamped := max(lo, min(hi, v))
	return (clamped - lo) / (hi - lo) * 100
}

// ScaleVector scales every metric against its bound, rounded to two decimals.
func ScaleVector(v metrics.Vector, b Bounds) metrics.Vector {
	var out metrics.Vector
	for i := range v {
		out[i] = math.Round(Scale(v[i], b[i].Min, b[i].Max)*100) / 100
	}
	return out
}

// Dataset is a player's radar chart: their scaled metrics alongside the
// average scaled metrics of their role.
type Dataset struct {
	PlayerID string    `json:"playerId"`
	Name     string    `json:"name"`
	Role     lol.Role  `json:"role"`
	Labels   []string  `json:"labels"`
	Player   []float64 `json:"player"`
	Average  []float64 `json:"average"`
}

// Radar builds a player's radar dataset against the players sharing their
// role. Supports have no CS/min axis.
func Radar(p *lol.Player, players []*lol.Player) Dataset {
	group := peers(players, p.Role)
	b := ComputeBounds(vectors(group))

	var avg metrics.Vector
	for _, o := range group {
		s := ScaleVector(metrics.RadarVector(o.Stats), b)
		for i := range avg {
			avg[i] += s[i]
		}
	}
	if len(group) > 0 {
		for i := range avg {
			avg[i] /= float64(len(group))
		}
	}

	own := ScaleVector(metrics.RadarVector(p.Stats), b)

	n := metrics.VectorSize
	if p.Role == lol.RoleSupport {
		n = metrics.IndexCSPerMinute
	}

	return Dataset{
		PlayerID: p.UID,
		Name:     p.Name,
		Role:     p.Role,
		Labels:   slices.Clone(metrics.Labels[:n]),
		Player:   slices.Clone(own[:n]),
		Average:  slices.Clone(avg[:n]),
	}
}

func peers(players []*lol.Player, role lol.Role) []*lol.Player {
	var out []*lol.Player
	for _, p := range players {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

func vectors(players []*lol.Player) []metrics.Vector {
	out := make([]metrics.Vector, 0, len(players))
	for _, p := range players {
		out = append(out, metrics.RadarVector(p.Stats))
	}
	return out
}
