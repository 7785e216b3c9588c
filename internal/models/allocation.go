package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation is an atomic, signed movement of money into exactly one
// envelope, in minor currency units.
//
// All allocations created by one logical operation, for example both sides of
// an envelope transfer or all splits of one transaction, share a GroupID and
// are ordered by ExecutionOrder for deterministic replay.
type Allocation struct {
	DefaultModel
	Envelope   Envelope  `json:"-"`
	EnvelopeID uuid.UUID
	Amount     int64
	Date       time.Time

	GroupID        uuid.UUID
	ExecutionOrder int

	// Nil for pure envelope-to-envelope movements.
	TransactionID *uuid.UUID

	// Nil if the allocation was entered manually.
	AllocationRuleID *uuid.UUID
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	if a.GroupID == uuid.Nil {
		a.GroupID = uuid.New()
	}

	toSave := tx.Statement.Dest.(*Allocation)
	return tx.First(&Envelope{}, toSave.EnvelopeID).Error
}

// BeforeSave sets the timezone for the date to UTC.
func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.Date.IsZero() {
		a.Date = time.Now().In(time.UTC)
	} else {
		a.Date = a.Date.In(time.UTC)
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone.
func (a *Allocation) AfterFind(tx *gorm.DB) error {
	_ = a.DefaultModel.AfterFind(tx)

	a.Date = a.Date.In(time.UTC)
	return nil
}
