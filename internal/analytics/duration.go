package analytics

import (
	"fmt"
	"time"
)

// humanDuration renders a duration the way the dashboard displays session
// time: "45s", "2m 13s", "1h 04m".
func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d.Round(time.Second).Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// relativeTime renders a recent timestamp relative to now, falling back to
// an absolute label once it is more than a day old.
func relativeTime(at, now time.Time) string {
	delta := now.Sub(at)
	switch {
	case delta < time.Minute:
		return "Just now"
	case delta < time.Hour:
		return fmt.Sprintf("%dm ago", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	default:
		return at.UTC().Format("Jan 2, 15:04")
	}
}
