// Package dates normalizes the textual date forms the plant systems
// produce. Intake documents use ISO dates, the legacy cut sheets use
// Brazilian day-first dates; both must land on the same time.Time.
package dates

import (
	"time"
)

// Layouts accepted by Parse, tried in order.
var layouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
}

// Parse converts a textual date to time.Time. Unparsable input yields
// the zero time, which every range filter in the engine treats as
// "no date" and excludes.
func Parse(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Valid reports whether t carries a usable date.
func Valid(t time.Time) bool {
	return !t.IsZero()
}

// InRange reports whether t falls inside [from, to]. Zero bounds are
// open; a zero t is never in range.
func InRange(t, from, to time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// DaysSince returns full days elapsed from t to now, or -1 when t is zero.
func DaysSince(t, now time.Time) int {
	if t.IsZero() {
		return -1
	}
	return int(now.Sub(t).Hours() / 24)
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd returns the last instant of t's day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).Add(24*time.Hour - time.Nanosecond)
}
