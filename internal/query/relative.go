package query

import (
	"fmt"
	"math"
	"time"
)

// Relative renders when relative to now the way a list row shows it:
// "in 5 minutes", "2 hours ago", "tomorrow", "now".
func Relative(when, now time.Time) string {
	diff := when.Sub(now)
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < time.Minute:
		return phrase(round(diff.Seconds()), "second")
	case abs < time.Hour:
		return phrase(round(diff.Minutes()), "minute")
	case abs < 24*time.Hour:
		return phrase(round(diff.Hours()), "hour")
	default:
		return phrase(round(diff.Hours()/24), "day")
	}
}

// round breaks .5 ties upward, so -1.5 becomes -1.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func phrase(n int, unit string) string {
	switch {
	case n == 0:
		return "now"
	case n == 1 && unit == "day":
		return "tomorrow"
	case n == -1 && unit == "day":
		return "yesterday"
	}
	count := n
	if count < 0 {
		count = -count
	}
	label := unit
	if count != 1 {
		label += "s"
	}
	if n > 0 {
		return fmt.Sprintf("in %d %s", count, label)
	}
	return fmt.Sprintf("%d %s ago", count, label)
}
