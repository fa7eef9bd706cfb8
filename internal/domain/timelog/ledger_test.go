package timelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerMinutes(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		expected int
	}{
		{
			name:     "Exact minutes pass through",
			end:      start.Add(25 * time.Minute),
			expected: 25,
		},
		{
			name:     "Ninety seconds rounds up to two minutes",
			end:      start.Add(90 * time.Second),
			expected: 2,
		},
		{
			name:     "Twenty nine seconds rounds down to zero",
			end:      start.Add(29 * time.Second),
			expected: 0,
		},
		{
			name:     "Thirty seconds rounds up to one minute",
			end:      start.Add(30 * time.Second),
			expected: 1,
		},
		{
			name:     "Zero interval is zero",
			end:      start,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimerMinutes(start, tt.end))
		})
	}
}

func TestManualMinutes(t *testing.T) {
	assert.Equal(t, 90, ManualMinutes(1, 30))
	assert.Equal(t, 45, ManualMinutes(0, 45))
	assert.Equal(t, 120, ManualMinutes(2, 0))
	assert.Equal(t, 0, ManualMinutes(0, 0))
}

func TestTotalHours(t *testing.T) {
	entries := []TimeEntry{
		{DurationMinutes: 60},
		{DurationMinutes: 30},
		{DurationMinutes: 45},
	}
	assert.InDelta(t, 2.25, TotalHours(entries), 0.001)
	assert.Zero(t, TotalHours(nil))
}

func TestDailyTotals(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	entries := []TimeEntry{
		{Date: "2025-03-10", DurationMinutes: 60},
		{Date: "2025-03-10", DurationMinutes: 30},
		{Date: "2025-03-08", DurationMinutes: 45},
		{Date: "2025-03-04", DurationMinutes: 20},
		{Date: "2025-03-03", DurationMinutes: 500}, // outside the window
	}

	totals := DailyTotals(entries, now)

	assert.Len(t, totals, 7)
	assert.Equal(t, "2025-03-04", totals[0].Date, "window starts six days back")
	assert.Equal(t, "2025-03-10", totals[6].Date, "window ends today")

	byDate := make(map[string]int, len(totals))
	for _, d := range totals {
		byDate[d.Date] = d.Minutes
	}
	assert.Equal(t, 90, byDate["2025-03-10"])
	assert.Equal(t, 45, byDate["2025-03-08"])
	assert.Equal(t, 20, byDate["2025-03-04"])
	assert.Equal(t, 0, byDate["2025-03-07"], "empty days report zero")
}
