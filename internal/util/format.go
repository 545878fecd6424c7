package util //nolint:revive // package name util hosts shared formatting helpers used across CLI output

import (
	"fmt"
	"time"
)

// FormatAge renders how long ago a timestamp occurred, truncated to the
// largest sensible unit. Returns "just now" for sub-minute ages and "n/a"
// for zero or future timestamps.
func FormatAge(t, now time.Time) string {
	if t.IsZero() || t.After(now) {
		return "n/a"
	}
	age := now.Sub(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}

// FormatTimestamp renders a timestamp for tabular CLI output in local time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Local().Format("2006-01-02 15:04")
}
