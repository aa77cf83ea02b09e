package domain

import (
	"fmt"
	"time"
)

// DayLayout is the storage and CLI format for calendar days.
const DayLayout = "2006-01-02"

// NormalizeDay drops the time-of-day, keeping the calendar date as seen in t's location.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return NormalizeDay(t), nil
}

// DayBefore reports whether a falls on an earlier calendar day than b.
func DayBefore(a, b time.Time) bool {
	return NormalizeDay(a).Before(NormalizeDay(b))
}

// DayAfter reports whether a falls on a later calendar day than b.
func DayAfter(a, b time.Time) bool {
	return NormalizeDay(a).After(NormalizeDay(b))
}
