package ledger

import (
	"errors"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// DefaultEnvelope resolves the envelope an expense should draw from when it
// posts without an explicit one.
//
// An envelope auto-tracking the transaction's account (credit card link)
// takes precedence. Otherwise the budget's match rules are evaluated against
// the payee name in priority order. Returns nil when nothing matches, which
// leaves the expense against the unallocated pool.
func DefaultEnvelope(db *gorm.DB, transaction models.Transaction) (*uuid.UUID, error) {
	var envelope models.Envelope
	err := db.Where("linked_account_id = ?", transaction.AccountID).First(&envelope).Error
	if err == nil {
		return &envelope.ID, nil
	}
	if !errors.Is(err, models.ErrResourceNotFound) && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if transaction.PayeeName == "" {
		return nil, nil
	}

	var account models.Account
	err = db.First(&account, transaction.AccountID).Error
	if err != nil {
		return nil, err
	}

	var matchRules []models.MatchRule
	err = db.
		Where("budget_id = ?", account.BudgetID).
		Order("priority ASC, created_at ASC, id ASC").
		Find(&matchRules).Error
	if err != nil {
		return nil, err
	}

	for _, rule := range matchRules {
		if glob.Glob(rule.Match, transaction.PayeeName) {
			id := rule.EnvelopeID
			return &id, nil
		}
	}

	return nil, nil
}
