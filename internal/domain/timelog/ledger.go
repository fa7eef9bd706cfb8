package timelog

import (
	"math"
	"time"
)

// TimerMinutes converts a timer interval to whole minutes, rounding half up.
// A result of zero or less means the interval is too short to record.
func TimerMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// ManualMinutes converts an hours and minutes pair to total minutes
func ManualMinutes(hours, minutes int) int {
	return hours*60 + minutes
}

// TotalMinutes sums the durations of the given entries
func TotalMinutes(entries []TimeEntry) int {
	total := 0
	for _, e := range entries {
		total += e.DurationMinutes
	}
	return total
}

// TotalHours is the summed duration expressed in fractional hours
func TotalHours(entries []TimeEntry) float64 {
	return float64(TotalMinutes(entries)) / 60
}

// DayTotal is the minutes logged on one calendar day
type DayTotal struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// DailyTotals buckets entries into the trailing seven days ending at now,
// oldest day first. Days with no entries appear with zero minutes; entries
// outside the window are ignored.
func DailyTotals(entries []TimeEntry, now time.Time) []DayTotal {
	totals := make([]DayTotal, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := now.AddDate(0, 0, i-6).Format(DateLayout)
		totals[i] = DayTotal{Date: date}
		index[date] = i
	}

	for _, e := range entries {
		if i, ok := index[e.Date]; ok {
			totals[i].Minutes += e.DurationMinutes
		}
	}
	return totals
}
