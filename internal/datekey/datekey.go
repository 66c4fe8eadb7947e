// Package datekey converts between calendar days and their canonical
// YYYY-MM-DD keys. Keys are zero-padded, so comparing them as strings is the
// same as comparing the days chronologically.
package datekey

import (
	"regexp"
	"time"
)

// Layout is the time layout of a date key.
const Layout = "2006-01-02"

// LabelMode selects the display form returned by FormatLabel.
type LabelMode int

const (
	// LabelShort renders "Jan 15".
	LabelShort LabelMode = iota
	// LabelWeekday renders "Mon".
	LabelWeekday
)

var keyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// now is replaced in tests.
var now = time.Now

// Key formats t as a date key in t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the date key of the current local day.
func Today() string {
	return Key(now().In(time.Local))
}

// Now returns the current local time as seen by this package.
func Now() time.Time {
	return now().In(time.Local)
}

// Valid reports whether key has the YYYY-MM-DD shape and names a real day.
func Valid(key string) bool {
	if !keyRe.MatchString(key) {
		return false
	}
	_, err := time.Parse(Layout, key)
	return err == nil
}

// Parse returns local midnight of the day named by key.
func Parse(key string) (time.Time, error) {
	return time.ParseInLocation(Layout, key, time.Local)
}

// DaysBetween returns the inclusive number of days from startKey to endKey.
// Equal keys give 1. When endKey is before startKey the result is zero or
// negative; it is not clamped. Unparsable keys give 0.
func DaysBetween(startKey, endKey string) int {
	start, err := time.Parse(Layout, startKey)
	if err != nil {
		return 0
	}
	end, err := time.Parse(Layout, endKey)
	if err != nil {
		return 0
	}
	// Both are UTC midnights, so every day is exactly 86400s. Unix seconds
	// avoid the ~292 year limit of time.Duration.
	return int((end.Unix()-start.Unix())/86400) + 1
}

// LastNDays returns the n consecutive date keys ending with the day of end,
// oldest first.
func LastNDays(n int, end time.Time) []string {
	if n <= 0 {
		return []string{}
	}
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, Key(end.AddDate(0, 0, -i)))
	}
	return keys
}

// LastNDaysToday is LastNDays ending today.
func LastNDaysToday(n int) []string {
	return LastNDays(n, Now())
}

// FormatLabel renders key for display. Unparsable keys are returned as is.
func FormatLabel(key string, mode LabelMode) string {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return key
	}
	if mode == LabelWeekday {
		return t.Format("Mon")
	}
	return t.Format("Jan 2")
}

// IsToday reports whether key is today.
func IsToday(key string) bool {
	return key == Today()
}

// IsPast reports whether key is before today.
func IsPast(key string) bool {
	return key < Today()
}

// IsFuture reports whether key is after today.
func IsFuture(key string) bool {
	return key > Today()
}

// DaysElapsedThisMonth returns today's day of the month, starting at 1.
func DaysElapsedThisMonth() int {
	return Now().Day()
}

// MonthToDate returns the keys from the first of the current month to today.
func MonthToDate() []string {
	return LastNDaysToday(DaysElapsedThisMonth())
}
