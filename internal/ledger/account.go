package ledger

import (
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeleteAccount deletes an account together with its transactions and their
// allocations. The allocations are reversed first so that no envelope keeps
// money from the deleted history, then envelopes auto-tracking the account
// are unlinked.
func DeleteAccount(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.First(&account, id).Error
		if err != nil {
			return err
		}

		var transactions []models.Transaction
		err = tx.Where("account_id = ?", id).Find(&transactions).Error
		if err != nil {
			return err
		}

		for _, transaction := range transactions {
			err = DeleteTransaction(tx, transaction.ID)
			if err != nil {
				return err
			}
		}

		err = tx.Model(&models.Envelope{}).
			Where("linked_account_id = ?", id).
			UpdateColumn("linked_account_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&account).Error
	})
}

// DeleteEnvelope deletes an envelope. Its allocations go with it, which
// returns the envelope's money to the unallocated pool. References that only
// default to the envelope are cleared, rules targeting it are deleted.
//
// The unallocated envelope cannot be deleted.
func DeleteEnvelope(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var envelope models.Envelope
		err := tx.First(&envelope, id).Error
		if err != nil {
			return err
		}

		if envelope.IsUnallocated {
			return ErrUnallocatedEnvelopeImmutable
		}

		err = tx.Where("envelope_id = ?", id).Delete(&models.Allocation{}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Transaction{}).
			Where("envelope_id = ?", id).
			UpdateColumn("envelope_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.RecurringTransaction{}).
			Where("envelope_id = ?", id).
			UpdateColumn("envelope_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Where("envelope_id = ?", id).Delete(&models.MatchRule{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("envelope_id = ?", id).Delete(&models.AllocationRule{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&envelope).Error
	})
}
