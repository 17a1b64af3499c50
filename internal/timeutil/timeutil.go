// Package timeutil formats durations for batch reports.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration renders d rounded to the nearest second, as "45s" below a
// minute and "5m 30s" above. Minutes stay the largest unit, so a batch that
// crawled through an hour of rate limiting reads "60m 0s" and stands out in
// the report summary.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	minutes, seconds := d/time.Minute, d%time.Minute/time.Second

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatShort renders d for per-repository report cells. Sub-second
// durations keep millisecond precision instead of rounding away to "0s",
// since most single-repository API calls finish well under a second.
func FormatShort(d time.Duration) string {
	if d > -time.Second && d < time.Second {
		return fmt.Sprintf("%dms", d.Round(time.Millisecond)/time.Millisecond)
	}
	return FormatDuration(d)
}
