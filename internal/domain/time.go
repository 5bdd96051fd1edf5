package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used in all state.
const DateLayout = "2006-01-02"

// Today is what the clock hands to the engine: the current calendar date
// and the Monday that starts its week, both as DateLayout strings.
type Today struct {
	Date      string `json:"date"`
	WeekStart string `json:"weekStart"`
}

// ParseDate parses a DateLayout string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b.
// ok is false when either date is empty or malformed.
func DaysBetween(a, b string) (days int, ok bool) {
	if a == "" || b == "" {
		return 0, false
	}
	ta, err := ParseDate(a)
	if err != nil {
		return 0, false
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, false
	}
	// Both are UTC midnights, so the difference is a whole number of days.
	return int(tb.Sub(ta).Hours() / 24), true
}

// WeekStartOf returns the Monday on or before date.
func WeekStartOf(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	y, m, d := date.Date()
	return time.Date(y, m, d-(weekday-1), 0, 0, 0, 0, date.Location())
}
