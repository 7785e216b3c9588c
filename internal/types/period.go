// Package types implements special types for the budget backend.
package types

import (
	"time"
)

// PeriodUnit is the unit of a recurring cap period.
type PeriodUnit string

const (
	PeriodWeek  PeriodUnit = "WEEK"
	PeriodMonth PeriodUnit = "MONTH"
	PeriodYear  PeriodUnit = "YEAR"
)

// Valid reports whether the unit is one of the known period units.
func (u PeriodUnit) Valid() bool {
	switch u {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}

	return false
}

// Boundaries returns the half-open interval [start, end) of the period that
// contains the reference date.
//
// Periods are anchored to canonical starts: Monday for weeks, the first day
// of the month for months, January 1 for years. Multi-unit periods snap to
// multiples of the value measured from the canonical anchor, so a value of 3
// with PeriodMonth yields the calendar quarters starting January, April, July
// and October.
func Boundaries(reference time.Time, value int, unit PeriodUnit) (start, end time.Time) {
	if value < 1 {
		value = 1
	}

	year, month, day := reference.In(time.UTC).Date()

	switch unit {
	case PeriodWeek:
		// Weekday is Sunday-based, shift so that Monday is 0
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		offset := (int(date.Weekday()) + 6) % 7
		start = date.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 7*value)

	case PeriodMonth:
		monthIndex := int(month) - 1
		monthIndex -= monthIndex % value
		start = time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, value, 0)

	case PeriodYear:
		start = time.Date(year-year%value, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(value, 0, 0)
	}

	return start, end
}

// Contains reports whether t falls within the half-open interval [start, end).
func Contains(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
