package domain

import "time"

const hoursPerDay = 24

// Clock abstracts time.Now() so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// calendarDate drops the clock and zone from t, keeping its local
// year/month/day as a UTC midnight.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextOccurrence returns the first date on or after today that falls on
// day/month. Feb 29 in a non-leap year rolls over to Mar 1.
func NextOccurrence(today time.Time, day int, month time.Month) time.Time {
	today = calendarDate(today)

	candidate := time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// DaysUntil returns the whole days from today to the next occurrence of
// day/month. It is zero when today matches.
func DaysUntil(today time.Time, day int, month time.Month) int {
	next := NextOccurrence(today, day, month)
	return int(next.Sub(calendarDate(today)).Hours() / hoursPerDay)
}
