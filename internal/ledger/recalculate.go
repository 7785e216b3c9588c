package ledger

import (
	"database/sql"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AccountCorrection records a repaired drift on one account's balances.
type AccountCorrection struct {
	AccountID       uuid.UUID
	ClearedBefore   int64
	ClearedAfter    int64
	UnclearedBefore int64
	UnclearedAfter  int64
}

// EnvelopeCorrection records a repaired drift on one envelope's balance.
type EnvelopeCorrection struct {
	EnvelopeID uuid.UUID
	Before     int64
	After      int64
}

// RecalculateAccountBalances reconstructs the cleared and uncleared balances
// of every account in the budget from its posted transactions and corrects
// any drift. It is idempotent: a second run finds nothing to correct.
func RecalculateAccountBalances(db *gorm.DB, budgetID uuid.UUID) ([]AccountCorrection, error) {
	corrections := []AccountCorrection{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var accounts []models.Account
		err := tx.Where("budget_id = ?", budgetID).Find(&accounts).Error
		if err != nil {
			return err
		}

		for _, account := range accounts {
			cleared, err := postedSum(tx, account.ID, true)
			if err != nil {
				return err
			}

			uncleared, err := postedSum(tx, account.ID, false)
			if err != nil {
				return err
			}

			if cleared == account.ClearedBalance && uncleared == account.UnclearedBalance {
				continue
			}

			err = tx.Model(&models.Account{}).
				Where("id = ?", account.ID).
				UpdateColumns(map[string]interface{}{
					"cleared_balance":   cleared,
					"uncleared_balance": uncleared,
				}).Error
			if err != nil {
				return err
			}

			corrections = append(corrections, AccountCorrection{
				AccountID:       account.ID,
				ClearedBefore:   account.ClearedBalance,
				ClearedAfter:    cleared,
				UnclearedBefore: account.UnclearedBalance,
				UnclearedAfter:  uncleared,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return corrections, nil
}

// RecalculateEnvelopeBalances reconstructs the balance of every envelope in
// the budget from its allocations and corrects any drift. The unallocated
// envelope is skipped since its balance is never stored. It is idempotent.
func RecalculateEnvelopeBalances(db *gorm.DB, budgetID uuid.UUID) ([]EnvelopeCorrection, error) {
	corrections := []EnvelopeCorrection{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var envelopes []models.Envelope
		err := tx.Where("budget_id = ? AND NOT is_unallocated", budgetID).Find(&envelopes).Error
		if err != nil {
			return err
		}

		for _, envelope := range envelopes {
			var sum sql.NullInt64
			err = tx.Model(&models.Allocation{}).
				Where("envelope_id = ?", envelope.ID).
				Select("SUM(amount)").
				Row().Scan(&sum)
			if err != nil {
				return err
			}

			if sum.Int64 == envelope.CurrentBalance {
				continue
			}

			err = tx.Model(&models.Envelope{}).
				Where("id = ?", envelope.ID).
				UpdateColumn("current_balance", sum.Int64).Error
			if err != nil {
				return err
			}

			corrections = append(corrections, EnvelopeCorrection{
				EnvelopeID: envelope.ID,
				Before:     envelope.CurrentBalance,
				After:      sum.Int64,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return corrections, nil
}

// RecalculateAll repairs account and envelope balances for every budget.
// Budgets are independent, so they are processed in parallel.
func RecalculateAll(db *gorm.DB) error {
	var budgets []models.Budget
	err := db.Find(&budgets).Error
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	for _, budget := range budgets {
		budget := budget
		g.Go(func() error {
			_, err := RecalculateAccountBalances(db, budget.ID)
			if err != nil {
				return err
			}

			_, err = RecalculateEnvelopeBalances(db, budget.ID)
			return err
		})
	}

	return g.Wait()
}

func postedSum(db *gorm.DB, accountID uuid.UUID, cleared bool) (int64, error) {
	var sum sql.NullInt64

	err := db.Model(&models.Transaction{}).
		Where("account_id = ? AND status = ? AND is_cleared = ?", accountID, models.StatusPosted, cleared).
		Select("SUM(amount)").
		Row().Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum.Int64, nil
}
