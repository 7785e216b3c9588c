package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurrenceUnit is the unit of a recurrence frequency.
type RecurrenceUnit string

const (
	UnitDays   RecurrenceUnit = "DAYS"
	UnitWeeks  RecurrenceUnit = "WEEKS"
	UnitMonths RecurrenceUnit = "MONTHS"
	UnitYears  RecurrenceUnit = "YEARS"
)

// Valid reports whether the unit is one of the known recurrence units.
func (u RecurrenceUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}

	return false
}

// RecurringTransaction is the template from which dated transaction
// instances are generated.
//
// NextOccurrenceDate is the scheduler's cursor: the first occurrence date
// that has not been realized yet. It only ever moves forward, when due
// instances are realized.
type RecurringTransaction struct {
	DefaultModel
	Budget    Budget  `json:"-"`
	BudgetID  uuid.UUID
	Account   Account `json:"-"`
	AccountID uuid.UUID

	// Template values copied onto generated instances.
	Amount     int64
	Memo       string
	PayeeName  string
	EnvelopeID *uuid.UUID

	FrequencyValue int
	FrequencyUnit  RecurrenceUnit

	StartDate          time.Time
	EndDate            *time.Time
	NextOccurrenceDate time.Time
}

// BeforeSave validates the schedule and normalizes dates to UTC.
func (r *RecurringTransaction) BeforeSave(_ *gorm.DB) error {
	r.Memo = strings.TrimSpace(r.Memo)
	r.PayeeName = strings.TrimSpace(r.PayeeName)

	if r.FrequencyValue < 1 || !r.FrequencyUnit.Valid() {
		return ErrFrequencyInvalid
	}

	r.StartDate = r.StartDate.In(time.UTC)

	if r.EndDate != nil {
		end := r.EndDate.In(time.UTC)
		if end.Before(r.StartDate) {
			return ErrEndBeforeStart
		}
		r.EndDate = &end
	}

	if r.NextOccurrenceDate.IsZero() {
		r.NextOccurrenceDate = r.StartDate
	} else {
		r.NextOccurrenceDate = r.NextOccurrenceDate.In(time.UTC)
	}

	return nil
}

func (r *RecurringTransaction) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*RecurringTransaction)
	return r.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (r *RecurringTransaction) checkIntegrity(tx *gorm.DB, toSave RecurringTransaction) error {
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Account{}, toSave.AccountID).Error
}

// AfterFind updates the dates to use UTC as timezone.
func (r *RecurringTransaction) AfterFind(tx *gorm.DB) error {
	_ = r.DefaultModel.AfterFind(tx)

	r.StartDate = r.StartDate.In(time.UTC)
	r.NextOccurrenceDate = r.NextOccurrenceDate.In(time.UTC)
	if r.EndDate != nil {
		end := r.EndDate.In(time.UTC)
		r.EndDate = &end
	}

	return nil
}
