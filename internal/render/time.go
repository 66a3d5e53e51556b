package render

import (
	"fmt"
	"time"
)

// TimeAgo formats t relative to now, e.g. "3m ago".
func TimeAgo(t time.Time) string {
	return timeAgo(t, time.Now())
}

func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
