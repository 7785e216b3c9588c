package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Envelope represents an envelope in your budget.
//
// CurrentBalance is a running balance in minor currency units and equals the
// sum of all allocations referencing the envelope. The unallocated envelope
// is the exception: its balance is never stored, it is always computed from
// account and envelope balances (see ledger.ComputeUnallocated).
type Envelope struct {
	DefaultModel
	Budget   Budget    `json:"-"`
	BudgetID uuid.UUID `gorm:"uniqueIndex:envelope_name_budget_id"`
	Name     string    `gorm:"uniqueIndex:envelope_name_budget_id"`
	Note     string

	CurrentBalance int64
	TargetBalance  *int64

	// Exactly one envelope per budget is the unallocated pool.
	IsUnallocated bool

	// A credit card account this envelope auto-tracks. Expenses posting to
	// the linked account default into this envelope.
	LinkedAccountID *uuid.UUID `gorm:"uniqueIndex"`

	Archived bool
}

// BeforeSave trims whitespace from all strings.
func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Note = strings.TrimSpace(e.Note)

	return nil
}

func (e *Envelope) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Envelope)
	return e.checkIntegrity(tx, *toSave)
}

func (e *Envelope) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("BudgetID") {
		toSave := tx.Statement.Dest.(Envelope)
		return e.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources and that the budget
// does not end up with two unallocated envelopes.
func (e *Envelope) checkIntegrity(tx *gorm.DB, toSave Envelope) error {
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	if toSave.IsUnallocated {
		var count int64
		err = tx.Model(&Envelope{}).
			Where("budget_id = ? AND is_unallocated AND id != ?", toSave.BudgetID, toSave.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrUnallocatedEnvelopeExists
		}
	}

	return nil
}

// Unallocated returns the unallocated envelope of a budget.
func Unallocated(db *gorm.DB, budgetID uuid.UUID) (Envelope, error) {
	var envelope Envelope
	err := db.Where("budget_id = ? AND is_unallocated", budgetID).First(&envelope).Error
	return envelope, err
}
