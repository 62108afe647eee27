package mealplan

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical calendar-date key format. Date keys carry
// no time component; all iteration and comparison happens at local
// calendar-day granularity.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a YYYY-MM-DD key, discarding the time component.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into local midnight of that day.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// AddDays returns t advanced by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfWeek returns the most recent Sunday at or before t. Weekly plans
// index their buckets from Sunday, so this is the weekStart a same-week
// distribution should use.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// NextWeekStart returns the first Sunday strictly after t's week.
func NextWeekStart(t time.Time) time.Time {
	return AddDays(StartOfWeek(t), 7)
}
