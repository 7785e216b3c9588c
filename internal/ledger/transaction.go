package ledger

import (
	"database/sql"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTransaction stores a transaction with its allocations and posts it
// against the account balances if its status is POSTED.
//
// When explicit allocations are passed, their amounts must sum to the
// transaction amount. Without explicit allocations, a posted standard
// transaction gets a single full-amount allocation into its envelope; if no
// envelope is set, expenses run default envelope selection (linked credit
// card account first, then payee match rules). Money that resolves to no
// envelope lands in the unallocated pool, which needs no allocation row.
func CreateTransaction(db *gorm.DB, transaction *models.Transaction, allocations []models.Allocation) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if len(allocations) > 0 {
			var sum int64
			for _, a := range allocations {
				sum += a.Amount
			}

			if sum != transaction.Amount {
				return ErrAllocationSumMismatch
			}
		}

		err := tx.Create(transaction).Error
		if err != nil {
			return err
		}

		if len(allocations) == 0 {
			err = createDefaultAllocation(tx, transaction)
			if err != nil {
				return err
			}
		}

		group := uuid.New()
		for i := range allocations {
			allocations[i].TransactionID = &transaction.ID
			allocations[i].GroupID = group
			allocations[i].ExecutionOrder = i
			if allocations[i].Date.IsZero() {
				allocations[i].Date = transaction.Date
			}

			err = tx.Create(&allocations[i]).Error
			if err != nil {
				return err
			}

			err = ApplyAllocation(tx, allocations[i])
			if err != nil {
				return err
			}
		}

		if transaction.Status == models.StatusPosted {
			return ApplyTransactionPosting(tx, *transaction)
		}

		return nil
	})
}

// createDefaultAllocation funds a posted standard transaction's envelope with
// a single full-amount allocation. Expenses without an envelope run default
// envelope selection first; money that resolves to no envelope lands in the
// unallocated pool, which needs no allocation row.
//
// Every path that flips a transaction without explicit splits to POSTED has
// to fund the envelope this way, whether the transaction is created posted or
// posted by a later status change.
func createDefaultAllocation(tx *gorm.DB, transaction *models.Transaction) error {
	if transaction.Status != models.StatusPosted || transaction.Type != models.TypeStandard {
		return nil
	}

	envelopeID := transaction.EnvelopeID
	if envelopeID == nil && transaction.Amount < 0 {
		var err error
		envelopeID, err = DefaultEnvelope(tx, *transaction)
		if err != nil {
			return err
		}

		if envelopeID != nil {
			err = tx.Model(transaction).UpdateColumn("envelope_id", envelopeID).Error
			if err != nil {
				return err
			}
			transaction.EnvelopeID = envelopeID
		}
	}

	if envelopeID == nil {
		return nil
	}

	allocation := models.Allocation{
		EnvelopeID:    *envelopeID,
		Amount:        transaction.Amount,
		Date:          transaction.Date,
		TransactionID: &transaction.ID,
	}

	err := tx.Create(&allocation).Error
	if err != nil {
		return err
	}

	return ApplyAllocation(tx, allocation)
}

// UpdateTransaction replaces the mutable fields of a transaction while
// keeping the account balances consistent: the old posting is reversed
// before the new values are applied.
//
// If the transaction has allocations, the new amount must still match their
// sum; amount changes on split transactions go through the allocations
// first. A lone full-amount allocation is the transaction's default
// allocation and follows the envelope field: changing the envelope moves it,
// clearing the envelope removes it and returns the money to the unallocated
// pool. Updates to instances of a recurrence template mark the instance as
// modified, which protects it from template propagation.
func UpdateTransaction(db *gorm.DB, id uuid.UUID, update models.Transaction) (models.Transaction, error) {
	var transaction models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&transaction, id).Error
		if err != nil {
			return err
		}

		allocations, err := transaction.Allocations(tx)
		if err != nil {
			return err
		}

		if len(allocations) > 0 {
			var sum int64
			for _, a := range allocations {
				sum += a.Amount
			}

			if sum != update.Amount {
				return ErrAllocationSumMismatch
			}
		}

		wasPosted := transaction.Status == models.StatusPosted
		if wasPosted {
			err = ReverseTransactionPosting(tx, transaction)
			if err != nil {
				return err
			}
		}

		if len(allocations) == 1 && transaction.EnvelopeID != nil &&
			allocations[0].EnvelopeID == *transaction.EnvelopeID &&
			(update.EnvelopeID == nil || *update.EnvelopeID != *transaction.EnvelopeID) {
			err = ReverseAllocation(tx, allocations[0])
			if err != nil {
				return err
			}

			if update.EnvelopeID == nil {
				err = tx.Delete(&allocations[0]).Error
				if err != nil {
					return err
				}
				allocations = nil
			} else {
				allocations[0].EnvelopeID = *update.EnvelopeID
				err = tx.Save(&allocations[0]).Error
				if err != nil {
					return err
				}

				err = ApplyAllocation(tx, allocations[0])
				if err != nil {
					return err
				}
			}
		}

		transaction.Date = update.Date
		transaction.Amount = update.Amount
		transaction.Memo = update.Memo
		transaction.PayeeName = update.PayeeName
		transaction.IsCleared = update.IsCleared
		transaction.EnvelopeID = update.EnvelopeID
		if update.Status != "" {
			transaction.Status = update.Status
		}
		if update.Type != "" {
			transaction.Type = update.Type
		}

		if transaction.RecurringTransactionID != nil {
			transaction.IsModified = true
		}

		err = tx.Save(&transaction).Error
		if err != nil {
			return err
		}

		if transaction.Status == models.StatusPosted {
			err = ApplyTransactionPosting(tx, transaction)
			if err != nil {
				return err
			}

			// A transaction that posts through a status change funds its
			// envelope exactly like one created posted.
			if len(allocations) == 0 && !wasPosted {
				return createDefaultAllocation(tx, &transaction)
			}
		}

		return nil
	})

	return transaction, err
}

// DeleteTransaction removes a transaction, reversing its posting and all of
// its allocations.
func DeleteTransaction(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		err := tx.First(&transaction, id).Error
		if err != nil {
			return err
		}

		allocations, err := transaction.Allocations(tx)
		if err != nil {
			return err
		}

		for _, allocation := range allocations {
			err = ReverseAllocation(tx, allocation)
			if err != nil {
				return err
			}

			err = tx.Delete(&allocation).Error
			if err != nil {
				return err
			}
		}

		if transaction.Status == models.StatusPosted {
			err = ReverseTransactionPosting(tx, transaction)
			if err != nil {
				return err
			}
		}

		return tx.Delete(&transaction).Error
	})
}

// verifyAllocationSum checks that the allocations of a transaction still sum
// to the transaction amount when the allocation with the given ID is assigned
// the new amount.
func verifyAllocationSum(db *gorm.DB, transactionID, allocationID uuid.UUID, newAmount int64) error {
	var transaction models.Transaction
	err := db.First(&transaction, transactionID).Error
	if err != nil {
		return err
	}

	var sum sql.NullInt64
	err = db.Model(&models.Allocation{}).
		Where("transaction_id = ? AND id != ?", transactionID, allocationID).
		Select("SUM(amount)").
		Row().Scan(&sum)
	if err != nil {
		return err
	}

	if sum.Int64+newAmount != transaction.Amount {
		return ErrAllocationSumMismatch
	}

	return nil
}
