package recurrence

import (
	"time"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListTransactions returns all transactions of a budget, newest first.
//
// Before listing, it brings the budget's recurrences up to date: every
// template gets its horizon topped up and its due instances realized. This
// lazy sweep is the only place recurrences advance, there is no background
// scheduler.
func ListTransactions(db *gorm.DB, budgetID uuid.UUID, asOf time.Time, horizonDays int) ([]models.Transaction, error) {
	var templates []models.RecurringTransaction
	err := db.Where("budget_id = ?", budgetID).Find(&templates).Error
	if err != nil {
		return nil, err
	}

	for _, template := range templates {
		_, err = EnsureHorizon(db, template.ID, asOf, horizonDays)
		if err != nil {
			return nil, err
		}

		_, err = RealizeDue(db, template.ID, asOf)
		if err != nil {
			return nil, err
		}
	}

	var transactions []models.Transaction
	err = db.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.budget_id = ?", budgetID).
		Order("datetime(transactions.date) DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
