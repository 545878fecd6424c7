package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "n/a"},
		{"future time", now.Add(time.Minute), "n/a"},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m"},
		{"hours ago", now.Add(-3 * time.Hour), "3h"},
		{"days ago", now.Add(-49 * time.Hour), "2d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.t, now))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "n/a", FormatTimestamp(time.Time{}))

	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2025-06-01 09:30", FormatTimestamp(ts))
}
