package calc

import (
	"fmt"
	"time"
)

// ChartRange is a named chart window.
type ChartRange string

const (
	Range7Days       ChartRange = "7d"
	Range14Days      ChartRange = "14d"
	Range30Days      ChartRange = "30d"
	RangeMonthToDate ChartRange = "mtd"

	DefaultRange = Range14Days
)

// ParseRange accepts "", "7d", "14d", "30d" and "mtd". Empty means DefaultRange.
func ParseRange(s string) (ChartRange, error) {
	switch r := ChartRange(s); r {
	case "":
		return DefaultRange, nil
	case Range7Days, Range14Days, Range30Days, RangeMonthToDate:
		return r, nil
	default:
		return "", fmt.Errorf("unknown chart range %q", s)
	}
}

// Days resolves the range to a day count; month-to-date depends on today.
func (r ChartRange) Days(today time.Time) int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	case RangeMonthToDate:
		return today.Day()
	default:
		return 14
	}
}
