package recurrence

import (
	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateTemplate changes a recurrence template.
//
// With propagateToFuture, the template's value fields cascade to all of its
// still-scheduled, unmodified instances. Instances a user has edited are
// user-owned and are never overwritten. Schedule changes only affect
// instances generated afterwards.
func UpdateTemplate(db *gorm.DB, templateID uuid.UUID, update models.RecurringTransaction, propagateToFuture bool) (models.RecurringTransaction, error) {
	var template models.RecurringTransaction

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&template, templateID).Error
		if err != nil {
			return err
		}

		template.Amount = update.Amount
		template.Memo = update.Memo
		template.PayeeName = update.PayeeName
		template.EnvelopeID = update.EnvelopeID
		template.EndDate = update.EndDate
		if update.AccountID != uuid.Nil {
			template.AccountID = update.AccountID
		}
		if update.FrequencyValue != 0 {
			template.FrequencyValue = update.FrequencyValue
		}
		if update.FrequencyUnit != "" {
			template.FrequencyUnit = update.FrequencyUnit
		}

		err = tx.Save(&template).Error
		if err != nil {
			return err
		}

		if !propagateToFuture {
			return nil
		}

		return tx.Model(&models.Transaction{}).
			Where("recurring_transaction_id = ? AND status = ? AND NOT is_modified", template.ID, models.StatusScheduled).
			Updates(map[string]interface{}{
				"amount":      template.Amount,
				"memo":        template.Memo,
				"payee_name":  template.PayeeName,
				"account_id":  template.AccountID,
				"envelope_id": template.EnvelopeID,
			}).Error
	})

	return template, err
}

// Skip marks a scheduled instance as skipped. Skipped instances never touch
// balances, they were never posted.
func Skip(db *gorm.DB, instanceID uuid.UUID) (models.Transaction, error) {
	var instance models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&instance, instanceID).Error
		if err != nil {
			return err
		}

		if instance.Status != models.StatusScheduled {
			return ErrNotScheduled
		}

		err = tx.Model(&instance).UpdateColumn("status", models.StatusSkipped).Error
		if err != nil {
			return err
		}

		instance.Status = models.StatusSkipped
		return nil
	})

	return instance, err
}

// ResetToTemplate re-copies the template's values into an instance and
// clears its modified flag.
//
// A still-scheduled instance is simply overwritten. A posted instance is
// treated as a balance update: the old posting and allocations are reversed
// and the template's values are applied through the ledger, never blindly
// overwritten.
func ResetToTemplate(db *gorm.DB, instanceID uuid.UUID) (models.Transaction, error) {
	var instance models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&instance, instanceID).Error
		if err != nil {
			return err
		}

		if instance.RecurringTransactionID == nil {
			return ErrNotLinked
		}

		var template models.RecurringTransaction
		err = tx.First(&template, *instance.RecurringTransactionID).Error
		if err != nil {
			return err
		}

		posted := instance.Status == models.StatusPosted
		if posted {
			err = ledger.ReverseTransactionPosting(tx, instance)
			if err != nil {
				return err
			}

			allocations, err := instance.Allocations(tx)
			if err != nil {
				return err
			}

			for _, allocation := range allocations {
				err = ledger.ReverseAllocation(tx, allocation)
				if err != nil {
					return err
				}

				err = tx.Delete(&allocation).Error
				if err != nil {
					return err
				}
			}
		}

		instance.Amount = template.Amount
		instance.Memo = template.Memo
		instance.PayeeName = template.PayeeName
		instance.AccountID = template.AccountID
		instance.EnvelopeID = template.EnvelopeID
		instance.IsModified = false

		err = tx.Save(&instance).Error
		if err != nil {
			return err
		}

		if posted {
			err = ledger.ApplyTransactionPosting(tx, instance)
			if err != nil {
				return err
			}

			if instance.EnvelopeID != nil {
				allocation := models.Allocation{
					EnvelopeID:    *instance.EnvelopeID,
					Amount:        instance.Amount,
					Date:          instance.Date,
					TransactionID: &instance.ID,
				}

				err = tx.Create(&allocation).Error
				if err != nil {
					return err
				}

				return ledger.ApplyAllocation(tx, allocation)
			}
		}

		return nil
	})

	return instance, err
}

// DeleteTemplate removes a recurrence template. Posted and skipped instances
// are history and stay untouched. Scheduled instances are either deleted
// with the template or detached into ordinary one-off scheduled
// transactions.
func DeleteTemplate(db *gorm.DB, templateID uuid.UUID, deleteScheduled bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var template models.RecurringTransaction
		err := tx.First(&template, templateID).Error
		if err != nil {
			return err
		}

		if deleteScheduled {
			// Scheduled instances carry no balance, nothing to reverse
			err = tx.
				Where("recurring_transaction_id = ? AND status = ?", template.ID, models.StatusScheduled).
				Delete(&models.Transaction{}).Error
		} else {
			err = tx.Model(&models.Transaction{}).
				Where("recurring_transaction_id = ? AND status = ?", template.ID, models.StatusScheduled).
				Updates(map[string]interface{}{
					"recurring_transaction_id": nil,
					"occurrence_index":         nil,
					"is_modified":              false,
				}).Error
		}
		if err != nil {
			return err
		}

		return tx.Delete(&template).Error
	})
}
