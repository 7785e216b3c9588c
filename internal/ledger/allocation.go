package ledger

import (
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAllocation stores an allocation and applies it to its envelope. An
// allocation referencing a transaction must keep the transaction's
// allocation sum intact.
func CreateAllocation(db *gorm.DB, allocation *models.Allocation) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if allocation.TransactionID != nil {
			err := verifyAllocationSum(tx, *allocation.TransactionID, uuid.Nil, allocation.Amount)
			if err != nil {
				return err
			}
		}

		err := tx.Create(allocation).Error
		if err != nil {
			return err
		}

		return ApplyAllocation(tx, *allocation)
	})
}

// UpdateAllocation moves an allocation to a new envelope, amount or date.
// The inverse delta is applied to the old envelope and the new delta to the
// new one, all-or-nothing.
func UpdateAllocation(db *gorm.DB, id uuid.UUID, update models.Allocation) (models.Allocation, error) {
	var allocation models.Allocation

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&allocation, id).Error
		if err != nil {
			return err
		}

		if allocation.TransactionID != nil {
			err = verifyAllocationSum(tx, *allocation.TransactionID, allocation.ID, update.Amount)
			if err != nil {
				return err
			}
		}

		err = ReverseAllocation(tx, allocation)
		if err != nil {
			return err
		}

		allocation.EnvelopeID = update.EnvelopeID
		allocation.Amount = update.Amount
		if !update.Date.IsZero() {
			allocation.Date = update.Date
		}

		err = tx.Save(&allocation).Error
		if err != nil {
			return err
		}

		return ApplyAllocation(tx, allocation)
	})

	return allocation, err
}

// DeleteAllocation removes an allocation and reverses its envelope delta.
func DeleteAllocation(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var allocation models.Allocation
		err := tx.First(&allocation, id).Error
		if err != nil {
			return err
		}

		err = ReverseAllocation(tx, allocation)
		if err != nil {
			return err
		}

		return tx.Delete(&allocation).Error
	})
}
