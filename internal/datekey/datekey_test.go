package datekey

import (
	"reflect"
	"testing"
	"time"
)

func freeze(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

// TestKey verifies zero padding and month handling.
func TestKey(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"january", time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), "2024-01-15"},
		{"single digits", time.Date(2024, 5, 5, 23, 59, 0, 0, time.Local), "2024-05-05"},
		{"december", time.Date(2024, 12, 31, 12, 0, 0, 0, time.Local), "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.t); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestToday verifies Today follows the package clock.
func TestToday(t *testing.T) {
	freeze(t, time.Date(2024, 6, 20, 9, 0, 0, 0, time.Local))
	if got := Today(); got != "2024-06-20" {
		t.Errorf("Today() = %q, want 2024-06-20", got)
	}
}

// TestDaysBetween covers the inclusive count across month and year boundaries.
func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-15", "2024-01-15", 1},
		{"2024-01-15", "2024-01-16", 2},
		{"2024-01-01", "2024-01-07", 7},
		{"2024-01-30", "2024-02-02", 4},
		{"2023-12-30", "2024-01-02", 4},
		{"2024-02-28", "2024-03-01", 3},
		{"2024-03-09", "2024-03-12", 4},
		{"2024-01-16", "2024-01-15", 0},
		{"2024-01-20", "2024-01-15", -4},
		{"bogus", "2024-01-15", 0},
		{"0001-01-01", "2024-01-15", 738900},
		{"0001-01-01", "9999-12-31", 3652059},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.start, tt.end); got != tt.want {
			t.Errorf("DaysBetween(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

// TestLastNDays verifies length, ordering and the final element.
func TestLastNDays(t *testing.T) {
	got := LastNDays(3, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local))
	want := []string{"2024-01-13", "2024-01-14", "2024-01-15"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LastNDays(3) = %v, want %v", got, want)
	}

	got = LastNDays(5, time.Date(2024, 2, 2, 0, 0, 0, 0, time.Local))
	want = []string{"2024-01-29", "2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LastNDays(5) = %v, want %v", got, want)
	}

	end := time.Date(2024, 1, 20, 18, 30, 0, 0, time.Local)
	days := LastNDays(14, end)
	if len(days) != 14 {
		t.Fatalf("len = %d, want 14", len(days))
	}
	if days[0] != "2024-01-07" || days[13] != Key(end) {
		t.Errorf("range = %s..%s, want 2024-01-07..2024-01-20", days[0], days[13])
	}
	for i := 1; i < len(days); i++ {
		if days[i] <= days[i-1] {
			t.Errorf("days not strictly increasing at %d: %s <= %s", i, days[i], days[i-1])
		}
	}

	if got := LastNDays(0, end); len(got) != 0 {
		t.Errorf("LastNDays(0) = %v, want empty", got)
	}
}

// TestFormatLabel verifies the fixed English labels.
func TestFormatLabel(t *testing.T) {
	if got := FormatLabel("2024-01-15", LabelShort); got != "Jan 15" {
		t.Errorf("short = %q, want Jan 15", got)
	}
	if got := FormatLabel("2024-01-05", LabelShort); got != "Jan 5" {
		t.Errorf("short = %q, want Jan 5", got)
	}
	if got := FormatLabel("2024-01-15", LabelWeekday); got != "Mon" {
		t.Errorf("weekday = %q, want Mon", got)
	}
	if got := FormatLabel("nope", LabelShort); got != "nope" {
		t.Errorf("invalid = %q, want passthrough", got)
	}
}

// TestRelativeDay verifies IsToday, IsPast and IsFuture against the clock.
func TestRelativeDay(t *testing.T) {
	freeze(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local))

	if !IsToday("2024-06-15") || IsToday("2024-06-14") || IsToday("2024-06-16") {
		t.Error("IsToday mismatch")
	}
	if !IsPast("2024-06-14") || IsPast("2024-06-15") || IsPast("2024-06-16") {
		t.Error("IsPast mismatch")
	}
	if !IsFuture("2024-06-16") || IsFuture("2024-06-15") || IsFuture("2024-06-14") {
		t.Error("IsFuture mismatch")
	}
}

// TestMonthToDate verifies the month-to-date window starts on the first.
func TestMonthToDate(t *testing.T) {
	freeze(t, time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local))

	if got := DaysElapsedThisMonth(); got != 4 {
		t.Errorf("DaysElapsedThisMonth() = %d, want 4", got)
	}
	keys := MonthToDate()
	if len(keys) != 4 || keys[0] != "2024-03-01" || keys[3] != "2024-03-04" {
		t.Errorf("MonthToDate() = %v", keys)
	}
}

// TestValid rejects malformed and impossible keys.
func TestValid(t *testing.T) {
	for key, want := range map[string]bool{
		"2024-01-15": true,
		"2024-02-30": false,
		"01/15/2024": false,
		"2024-1-5":   false,
		"":           false,
	} {
		if got := Valid(key); got != want {
			t.Errorf("Valid(%q) = %v, want %v", key, got, want)
		}
	}
}
