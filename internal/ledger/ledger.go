// Package ledger maintains the running balances of accounts and envelopes.
//
// Every stored balance is derived state: an account's cleared and uncleared
// balances are the signed sums of its posted transactions partitioned by the
// cleared flag, an envelope's balance is the sum of its allocations. The
// primitives in this package apply and reverse the deltas that keep those
// sums correct, and the recalculate operations repair any drift.
//
// All operations that touch more than one row take the caller's *gorm.DB and
// run inside a transaction, so a failure partway never leaves one side
// updated.
package ledger

import (
	"database/sql"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplyAllocation adds the allocation's amount to its envelope's stored
// balance. Allocations into the unallocated envelope do not change stored
// state, the pool's balance is computed.
func ApplyAllocation(db *gorm.DB, allocation models.Allocation) error {
	return applyEnvelopeDelta(db, allocation.EnvelopeID, allocation.Amount)
}

// ReverseAllocation removes the allocation's amount from its envelope's
// stored balance. It is the inverse of ApplyAllocation and is used on delete
// and before updates.
func ReverseAllocation(db *gorm.DB, allocation models.Allocation) error {
	return applyEnvelopeDelta(db, allocation.EnvelopeID, -allocation.Amount)
}

func applyEnvelopeDelta(db *gorm.DB, envelopeID uuid.UUID, delta int64) error {
	var envelope models.Envelope
	err := db.First(&envelope, envelopeID).Error
	if err != nil {
		return err
	}

	if envelope.IsUnallocated || delta == 0 {
		return nil
	}

	// The increment happens in SQL so that two concurrent allocations into
	// the same envelope cannot both write a stale read back.
	return db.Model(&models.Envelope{}).
		Where("id = ?", envelopeID).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta)).Error
}

// ApplyTransactionPosting adds a posted transaction's amount to the owning
// account's cleared or uncleared balance, selected by the cleared flag.
func ApplyTransactionPosting(db *gorm.DB, transaction models.Transaction) error {
	return applyAccountDelta(db, transaction, transaction.Amount)
}

// ReverseTransactionPosting is the inverse of ApplyTransactionPosting.
func ReverseTransactionPosting(db *gorm.DB, transaction models.Transaction) error {
	return applyAccountDelta(db, transaction, -transaction.Amount)
}

func applyAccountDelta(db *gorm.DB, transaction models.Transaction, delta int64) error {
	column := "uncleared_balance"
	if transaction.IsCleared {
		column = "cleared_balance"
	}

	return db.Model(&models.Account{}).
		Where("id = ?", transaction.AccountID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// ComputeUnallocated returns the budget's unallocated balance: the total
// funds of all accounts included in the budget minus everything assigned to
// envelopes.
//
// The value is computed from current state on every call and is the single
// source of truth for "money not yet assigned". It can legitimately be
// negative when a budget is overspent.
func ComputeUnallocated(db *gorm.DB, budgetID uuid.UUID) (int64, error) {
	var funds, allocated sql.NullInt64

	err := db.Model(&models.Account{}).
		Where("budget_id = ? AND include_in_budget", budgetID).
		Select("SUM(cleared_balance + uncleared_balance)").
		Row().Scan(&funds)
	if err != nil {
		return 0, err
	}

	err = db.Model(&models.Envelope{}).
		Where("budget_id = ? AND NOT is_unallocated", budgetID).
		Select("SUM(current_balance)").
		Row().Scan(&allocated)
	if err != nil {
		return 0, err
	}

	return funds.Int64 - allocated.Int64, nil
}
