// Package calc derives totals, progress, debt and chart series from the log
// list. Every function is pure; "today" is always passed in.
package calc

import (
	"sort"
	"time"

	"github.com/claude/reptracker/internal/datekey"
	"github.com/claude/reptracker/internal/models"
)

// Progress is today's total measured against the daily goal.
type Progress struct {
	Total      int     `json:"total"`
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
}

// TotalForDate sums the counts logged for dateKey.
func TotalForDate(logs []models.LogEntry, dateKey string) int {
	total := 0
	for _, l := range logs {
		if l.DateKey == dateKey {
			total += l.Count
		}
	}
	return total
}

// BreakdownForDate sums the counts logged for dateKey per type ID. Only types
// with at least one entry that day appear.
func BreakdownForDate(logs []models.LogEntry, dateKey string) map[string]int {
	breakdown := make(map[string]int)
	for _, l := range logs {
		if l.DateKey == dateKey {
			breakdown[l.TypeID] += l.Count
		}
	}
	return breakdown
}

// TodayProgress reports the total for todayKey against goal. The percentage
// is capped at 100 but not floored, so a negative total stays negative.
func TodayProgress(logs []models.LogEntry, todayKey string, goal int) Progress {
	total := TotalForDate(logs, todayKey)
	var pct float64
	if goal > 0 {
		pct = min(float64(total)/float64(goal)*100, 100)
	}
	return Progress{Total: total, Goal: goal, Percentage: pct}
}

// Debt returns completed minus required repetitions from startKey through
// todayKey inclusive. Positive is a surplus, negative a deficit. Tracking has
// not begun while startKey is after todayKey, so the result is then 0.
func Debt(logs []models.LogEntry, goal int, startKey, todayKey string) int {
	if startKey > todayKey {
		return 0
	}
	required := datekey.DaysBetween(startKey, todayKey) * goal

	completed := 0
	for _, l := range logs {
		if l.DateKey >= startKey && l.DateKey <= todayKey {
			completed += l.Count
		}
	}
	return completed - required
}

// AggregateForChart builds one point per day for the days ending at end,
// oldest first. Archived types never appear, even when they have entries in
// the window.
func AggregateForChart(logs []models.LogEntry, types []models.ExerciseType, goal, days int, end time.Time) []models.ChartDataPoint {
	keys := datekey.LastNDays(days, end)
	points := make([]models.ChartDataPoint, 0, len(keys))

	for _, key := range keys {
		breakdown := BreakdownForDate(logs, key)
		counts := make(map[string]int)
		for _, t := range types {
			if t.IsArchived {
				continue
			}
			counts[t.ID] = breakdown[t.ID]
		}
		points = append(points, models.ChartDataPoint{
			DateKey: key,
			Label:   datekey.FormatLabel(key, datekey.LabelShort),
			Goal:    goal,
			Counts:  counts,
		})
	}
	return points
}

// TotalCount sums every count in logs.
func TotalCount(logs []models.LogEntry) int {
	total := 0
	for _, l := range logs {
		total += l.Count
	}
	return total
}

// LogsForDate returns the entries for dateKey, most recent first. Entries with
// equal timestamps keep their input order.
func LogsForDate(logs []models.LogEntry, dateKey string) []models.LogEntry {
	out := make([]models.LogEntry, 0)
	for _, l := range logs {
		if l.DateKey == dateKey {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
