package week

import (
	"testing"
	"time"
)

func TestStartOfAlwaysMonday(t *testing.T) {
	// Walk every day of a few weeks spanning month and year boundaries.
	base := time.Date(2025, time.December, 22, 14, 30, 45, 123456789, time.UTC)
	for i := 0; i < 21; i++ {
		now := base.AddDate(0, 0, i)
		start := StartOf(now)

		if start.Weekday() != time.Monday {
			t.Errorf("StartOf(%v).Weekday() = %v, want Monday", now, start.Weekday())
		}
		if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
			t.Errorf("StartOf(%v) = %v, want midnight", now, start)
		}
		if start.After(now) {
			t.Errorf("StartOf(%v) = %v is after now", now, start)
		}
		if end := EndOf(now); now.After(end) {
			t.Errorf("EndOf(%v) = %v is before now", now, end)
		}
	}
}

func TestStartOfSunday(t *testing.T) {
	// Sunday belongs to the week that started six days earlier.
	sunday := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	if sunday.Weekday() != time.Sunday {
		t.Fatalf("fixture is %v, want Sunday", sunday.Weekday())
	}

	start := StartOf(sunday)
	want := time.Date(2026, time.February, 23, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("StartOf(sunday) = %v, want %v", start, want)
	}
}

func TestStartOfMondayIsIdentityDate(t *testing.T) {
	monday := time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)
	if monday.Weekday() != time.Monday {
		t.Fatalf("fixture is %v, want Monday", monday.Weekday())
	}

	start := StartOf(monday)
	if start.Day() != 31 || start.Month() != time.August {
		t.Errorf("StartOf(monday) = %v, want same date at midnight", start)
	}
}

func TestStartOfIdempotent(t *testing.T) {
	now := time.Date(2026, time.January, 15, 18, 45, 0, 0, time.UTC)
	once := StartOf(now)
	twice := StartOf(once)
	if !once.Equal(twice) {
		t.Errorf("StartOf(StartOf(t)) = %v, want %v", twice, once)
	}
}

func TestWindowCoversExactWeek(t *testing.T) {
	now := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	start, end := Window(now)

	if got := end.Sub(start); got != 7*24*time.Hour-time.Nanosecond {
		t.Errorf("window span = %v, want 7 days minus 1ns", got)
	}
	if end.Weekday() != time.Sunday {
		t.Errorf("window end weekday = %v, want Sunday", end.Weekday())
	}
}

func TestWindowPreservesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2026, time.April, 2, 8, 0, 0, 0, loc)
	start, end := Window(now)

	if start.Location() != loc || end.Location() != loc {
		t.Errorf("window locations = %v/%v, want %v", start.Location(), end.Location(), loc)
	}
}
