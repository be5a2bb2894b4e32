package util //nolint:revive // package name util hosts shared formatting helpers used across HTTP templates and the CLI

import (
	"strconv"
	"strings"
	"time"
)

// FormatDate renders a timestamp as a short calendar date. Zero values render as "—".
func FormatDate(ts Timestamp) string {
	if ts.IsZero() {
		return "—"
	}
	return ts.Time.Format("Jan 2, 2006")
}

// FormatDateTime renders a timestamp with minutes precision. Zero values render as "—".
func FormatDateTime(ts Timestamp) string {
	if ts.IsZero() {
		return "—"
	}
	return ts.Time.Format("Jan 2, 2006 15:04")
}

// Initials returns up to two upper-case initials for a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// RelativeTime describes how long before now ts occurred. Future times read as
// "just now"; anything older than a week falls back to FormatDate.
func RelativeTime(ts Timestamp, now time.Time) string {
	if ts.IsZero() {
		return "—"
	}
	diff := now.Sub(ts.Time)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return FormatDate(ts)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// Truncate shortens text to limit runes, ending with an ellipsis when cut.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
