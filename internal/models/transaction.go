package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusScheduled TransactionStatus = "SCHEDULED"
	StatusPosted    TransactionStatus = "POSTED"
	StatusSkipped   TransactionStatus = "SKIPPED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusPosted, StatusSkipped:
		return true
	}

	return false
}

// TransactionType describes what kind of movement a transaction records.
type TransactionType string

const (
	TypeStandard   TransactionType = "STANDARD"
	TypeTransfer   TransactionType = "TRANSFER"
	TypeAdjustment TransactionType = "ADJUSTMENT"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeStandard, TypeTransfer, TypeAdjustment:
		return true
	}

	return false
}

// Transaction represents a dated, signed movement against one account, in
// minor currency units.
//
// Only posted transactions contribute to account balances. A transaction
// carries zero or more allocations; when allocations exist, their amounts
// sum exactly to the transaction amount.
type Transaction struct {
	DefaultModel
	Account   Account   `json:"-"`
	AccountID uuid.UUID
	Date      time.Time
	Amount    int64
	Memo      string
	PayeeName string

	Status TransactionStatus
	Type   TransactionType

	IsCleared    bool
	IsReconciled bool

	// The default envelope for this transaction's money. Used when the
	// transaction posts without explicit allocations.
	EnvelopeID *uuid.UUID

	// Link to the recurrence template this instance was generated from.
	RecurringTransactionID *uuid.UUID `gorm:"uniqueIndex:transaction_occurrence"`
	OccurrenceIndex        *int       `gorm:"uniqueIndex:transaction_occurrence"`

	// Set when a user edits this specific instance away from its template.
	// Modified instances are user-owned: template updates never overwrite
	// them.
	IsModified bool
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Transaction)
	return tx.First(&Account{}, toSave.AccountID).Error
}

// BeforeSave sets defaults and the timezone for the date to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Status == "" {
		t.Status = StatusPosted
	}
	if !t.Status.Valid() {
		return ErrStatusInvalid
	}

	if t.Type == "" {
		t.Type = TypeStandard
	}
	if !t.Type.Valid() {
		return ErrTypeInvalid
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	_ = t.DefaultModel.AfterFind(tx)

	t.Date = t.Date.In(time.UTC)
	return nil
}

// Allocations returns the allocations of this transaction ordered for
// deterministic replay.
func (t Transaction) Allocations(db *gorm.DB) ([]Allocation, error) {
	var allocations []Allocation
	err := db.
		Where("transaction_id = ?", t.ID).
		Order("execution_order ASC").
		Find(&allocations).Error

	return allocations, err
}
