package types

import "time"

// ToCalendarDate drops the time of day and pins the date to UTC midnight.
// The calendar day is read in t's own location so "2025-11-09T23:30:00-08:00"
// stays on the 9th.
func ToCalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first calendar day of t's month
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last calendar day of t's month
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}
