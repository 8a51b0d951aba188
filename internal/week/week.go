// Package week defines the single source of truth for which calendar week a
// grocery list belongs to. Weeks run Monday through Sunday; every caller
// (store queries, handlers, the offline client) resolves the week through
// these functions rather than computing it locally.
package week

import "time"

// StartOf returns the Monday at 00:00:00 of t's week, in t's location.
// Sunday counts as the last day of the week, six days past Monday.
func StartOf(t time.Time) time.Time {
	days := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		days = 6
	}
	monday := t.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// EndOf returns the last instant of t's week: Sunday 23:59:59.999999999.
func EndOf(t time.Time) time.Time {
	return StartOf(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// Window returns the inclusive [start, end] bounds of t's week.
func Window(t time.Time) (start, end time.Time) {
	start = StartOf(t)
	return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}
