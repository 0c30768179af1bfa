package output

import (
	"fmt"
	"math"
)

// PerfectKDA is shown in place of a KDA for a player who never died.
const PerfectKDA = "Perfect KDA"

// FormatNumber formats a large total, like gold or damage, with a suffix.
func FormatNumber(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatKDA formats a KDA ratio with two decimals, or PerfectKDA when the
// player never died.
func FormatKDA(kda, deaths float64) string {
	if deaths == 0 {
		return PerfectKDA
	}
	return FormatRate(kda)
}

// FormatRate formats a per-minute or per-game rate with two decimals.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDuration formats a match duration in milliseconds as m:ss.
func FormatDuration(ms int64) string {
	secs := int64(math.Round(float64(ms) / 1000))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatRecord formats wins and losses as "W-L".
func FormatRecord(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}
