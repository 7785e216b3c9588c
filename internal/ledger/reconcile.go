package ledger

import (
	"time"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconcileAccount marks all cleared posted transactions of the account as
// reconciled. Transactions that are already reconciled stay untouched, so
// running the reconciliation twice is a no-op.
//
// If the actual balance reported by the user differs from the stored cleared
// balance, one cleared adjustment transaction over the difference is created
// and immediately reconciled; its money lands in the unallocated pool.
//
// Returns the number of transactions reconciled, including the adjustment if
// one was created.
func ReconcileAccount(db *gorm.DB, accountID uuid.UUID, actualBalance int64, asOf time.Time) (int, *models.Transaction, error) {
	var count int
	var adjustment *models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.First(&account, accountID).Error
		if err != nil {
			return err
		}

		result := tx.Model(&models.Transaction{}).
			Where("account_id = ? AND status = ? AND is_cleared AND NOT is_reconciled", account.ID, models.StatusPosted).
			UpdateColumn("is_reconciled", true)
		if result.Error != nil {
			return result.Error
		}
		count = int(result.RowsAffected)

		if actualBalance == account.ClearedBalance {
			return nil
		}

		adj := models.Transaction{
			AccountID:    account.ID,
			Date:         asOf,
			Amount:       actualBalance - account.ClearedBalance,
			Memo:         "Reconciliation adjustment",
			Status:       models.StatusPosted,
			Type:         models.TypeAdjustment,
			IsCleared:    true,
			IsReconciled: true,
		}

		err = tx.Create(&adj).Error
		if err != nil {
			return err
		}

		err = ApplyTransactionPosting(tx, adj)
		if err != nil {
			return err
		}

		adjustment = &adj
		count++

		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	return count, adjustment, nil
}
