// Package evolution buckets a player's matches into calendar weeks or months
// to show how their stats change over time.
package evolution

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Aezurly/Lol-Metrics/internal/aggregate"
	"github.com/Aezurly/Lol-Metrics/internal/lol"
	"github.com/Aezurly/Lol-Metrics/internal/metrics"
)

// A Granularity is the length of a period.
type Granularity string

// Granularities.
const (
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity parses "week" or "month".
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Week, Month:
		return g, nil
	default:
		return "", fmt.Errorf("unknown period %q: must be %q or %q", s, Week, Month)
	}
}

// A Period is a player's aggregate over one calendar bucket.
type Period struct {
	Start       time.Time       `json:"periodStart"`
	End         time.Time       `json:"periodEnd"` // One millisecond before the next period starts.
	MatchIDs    []string        `json:"matchIds"`
	Stats       lol.PlayerStat  `json:"stats"`
	Metrics     metrics.Vector  `json:"metrics"`
	RoleAverage *metrics.Vector `json:"roleAverage,omitempty"` // Nil unless requested.
}

// Option configures bucketing.
type Option func(*Options)

// Options holds optional parameters for bucketing.
type Options struct {
	peers []*lol.Player
}

// WithRoleAverage averages the metrics of every player in peers who shares
// the player's role and played in the period.
func WithRoleAverage(peers []*lol.Player) Option {
	return func(o *Options) {
		o.peers = peers
	}
}

type datedMatch struct {
	id   string
	date time.Time
}

// Bucket partitions the player's dated matches into consecutive periods
// starting with the period containing their first match. Matches whose id
// carries no date are ignored and periods without matches are omitted.
func Bucket(matches aggregate.MatchLookup, p *lol.Player, g Granularity, opts ...Option) []Period {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	dated := datedMatches(p)
	if len(dated) == 0 {
		return nil
	}

	var peers map[string][]datedMatch
	if o.peers != nil {
		peers = make(map[string][]datedMatch)
		for _, peer := range o.peers {
			if peer.Role == p.Role {
				peers[peer.UID] = datedMatches(peer)
			}
		}
	}

	first, last := dated[0].date, dated[len(dated)-1].date
	start := periodStart(first, g)

	var out []Period
	for !start.After(last) {
		next := nextStart(start, g)
		end := next.Add(-time.Millisecond)

		ids := within(dated, start, end)
		if len(ids) > 0 {
			stats := aggregate.Subset(matches, p.UID, ids)
			period := Period{
				Start:    start,
				End:      end,
				MatchIDs: ids,
				Stats:    stats,
				Metrics:  metrics.RadarVector(stats),
			}
			if peers != nil {
				period.RoleAverage = roleAverage(matches, peers, start, end)
			}
			out = append(out, period)
		}

		start = next
	}
	return out
}

// ByWeek buckets a player's matches into weeks starting on Monday.
func ByWeek(matches aggregate.MatchLookup, p *lol.Player, opts ...Option) []Period {
	return Bucket(matches, p, Week, opts...)
}

// ByMonth buckets a player's matches into calendar months.
func ByMonth(matches aggregate.MatchLookup, p *lol.Player, opts ...Option) []Period {
	return Bucket(matches, p, Month, opts...)
}

func roleAverage(matches aggregate.MatchLookup, peers map[string][]datedMatch, start, end time.Time) *metrics.Vector {
	var sum metrics.Vector
	n := 0
	for uid, dated := range peers {
		ids := within(dated, start, end)
		if len(ids) == 0 {
			continue
		}
		v := metrics.RadarVector(aggregate.Subset(matches, uid, ids))
		for i := range sum {
			sum[i] += v[i]
		}
		n++
	}
	if n == 0 {
		return &sum
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return &sum
}

func datedMatches(p *lol.Player) []datedMatch {
	out := make([]datedMatch, 0, len(p.MatchIDs))
	for _, id := range p.MatchIDs {
		d, ok := lol.DateFromID(id)
		if !ok {
			continue
		}
		out = append(out, datedMatch{id: id, date: d})
	}
	slices.SortStableFunc(out, func(a, b datedMatch) int {
		return a.date.Compare(b.date)
	})
	return out
}

func within(dated []datedMatch, start, end time.Time) []string {
	var ids []string
	for _, d := range dated {
		if !d.date.Before(start) && !d.date.After(end) {
			ids = append(ids, d.id)
		}
	}
	slices.SortFunc(ids, cmp.Compare[string])
	return ids
}

func periodStart(t time.Time, g Granularity) time.Time {
	if g == Month {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	offset := (int(t.Weekday()) + 6) % 7 // Days since Monday.
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

func nextStart(t time.Time, g Granularity) time.Time {
	if g == Month {
		return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t.AddDate(0, 0, 7)
}
