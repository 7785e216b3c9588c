// Package recurrence implements the scheduler that turns recurring
// transaction templates into concrete transaction instances.
//
// Instances are generated out to a rolling horizon as SCHEDULED
// transactions, realized into POSTED ones when due, and can be skipped,
// modified or reset individually without touching the template. Generation
// and realization happen lazily when a budget's transactions are listed,
// there is no background loop.
package recurrence

import (
	"time"

	"github.com/budgetpouch/backend/internal/models"
)

// NextDate returns the occurrence date following current.
//
// DAYS and WEEKS add fixed day counts. MONTHS and YEARS use Go's calendar
// arithmetic, which normalizes overflowing days forward: January 31 plus one
// month is March 3 in non-leap years and March 2 in leap years.
func NextDate(current time.Time, value int, unit models.RecurrenceUnit) time.Time {
	if value < 1 {
		value = 1
	}

	switch unit {
	case models.UnitWeeks:
		return current.AddDate(0, 0, 7*value)
	case models.UnitMonths:
		return current.AddDate(0, value, 0)
	case models.UnitYears:
		return current.AddDate(value, 0, 0)
	}

	// DAYS, and the fallback for unknown units: the date must always move
	// forward, a stuck cursor would loop date generation forever.
	return current.AddDate(0, 0, value)
}

// GenerateDatesUntil returns the occurrence dates of the template from its
// cursor forward, up to the horizon and the template's end date, both
// inclusive. It is a pure function of the template's state and can be
// re-run at any time.
func GenerateDatesUntil(template models.RecurringTransaction, horizon time.Time) []time.Time {
	limit := horizon
	if template.EndDate != nil && template.EndDate.Before(horizon) {
		limit = *template.EndDate
	}

	var dates []time.Time
	for date := template.NextOccurrenceDate; !date.After(limit); date = NextDate(date, template.FrequencyValue, template.FrequencyUnit) {
		dates = append(dates, date)
	}

	return dates
}

// occurrenceIndex returns the 0-based position of a date in the template's
// occurrence sequence, counted from the start date. The index identifies an
// instance for the lifetime of the template, regardless of how often the
// horizon is regenerated.
func occurrenceIndex(template models.RecurringTransaction, date time.Time) int {
	index := 0
	for d := template.StartDate; d.Before(date); d = NextDate(d, template.FrequencyValue, template.FrequencyUnit) {
		index++
	}

	return index
}
