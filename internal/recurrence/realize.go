package recurrence

import (
	"errors"
	"time"

	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
	"github.com/budgetpouch/backend/internal/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RealizeDue flips every due SCHEDULED instance of the template to POSTED,
// posts it against its account and creates its allocations, then advances
// the template's cursor past all realized dates.
//
// An instance with an envelope gets one full-amount allocation into it. An
// instance without one is income for the unallocated pool; if the budget
// auto-allocates income, the allocation rules distribute it further.
func RealizeDue(db *gorm.DB, templateID uuid.UUID, asOf time.Time) ([]models.Transaction, error) {
	realized := []models.Transaction{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var template models.RecurringTransaction
		err := tx.First(&template, templateID).Error
		if err != nil {
			return err
		}

		var budget models.Budget
		err = tx.First(&budget, template.BudgetID).Error
		if err != nil {
			return err
		}

		var due []models.Transaction
		err = tx.
			Where("recurring_transaction_id = ? AND status = ? AND date <= ?", template.ID, models.StatusScheduled, asOf.In(time.UTC)).
			Order("date ASC, occurrence_index ASC").
			Find(&due).Error
		if err != nil {
			return err
		}

		if len(due) == 0 {
			return nil
		}

		for i := range due {
			err = realize(tx, budget, &due[i])
			if err != nil {
				return err
			}
		}

		// Advance the cursor past all realized dates
		cursor := template.NextOccurrenceDate
		last := due[len(due)-1].Date
		for !cursor.After(last) {
			cursor = NextDate(cursor, template.FrequencyValue, template.FrequencyUnit)
		}

		err = tx.Model(&template).UpdateColumn("next_occurrence_date", cursor).Error
		if err != nil {
			return err
		}

		realized = due
		return nil
	})
	if err != nil {
		return nil, err
	}

	return realized, nil
}

func realize(tx *gorm.DB, budget models.Budget, instance *models.Transaction) error {
	err := tx.Model(instance).UpdateColumn("status", models.StatusPosted).Error
	if err != nil {
		return err
	}
	instance.Status = models.StatusPosted

	err = ledger.ApplyTransactionPosting(tx, *instance)
	if err != nil {
		return err
	}

	// Modified instances may already carry explicit splits
	allocations, err := instance.Allocations(tx)
	if err != nil {
		return err
	}
	if len(allocations) > 0 {
		return nil
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

	if budget.AutoAllocateIncome && instance.Amount > 0 {
		return autoAllocate(tx, budget.ID, *instance)
	}

	return nil
}

// autoAllocate distributes realized income through the budget's allocation
// rules. The distributions are pure reallocations: the income itself already
// landed in the unallocated pool when the instance posted. A budget without
// active rules leaves the income unallocated.
func autoAllocate(tx *gorm.DB, budgetID uuid.UUID, instance models.Transaction) error {
	distributions, _, err := rules.Apply(tx, budgetID, instance.Amount, instance.Date)
	if errors.Is(err, rules.ErrNoActiveRules) {
		return nil
	}
	if err != nil {
		return err
	}

	group := uuid.New()
	for i, distribution := range distributions {
		ruleID := distribution.Rule.ID
		allocation := models.Allocation{
			EnvelopeID:       distribution.EnvelopeID,
			Amount:           distribution.Amount,
			Date:             instance.Date,
			GroupID:          group,
			ExecutionOrder:   i,
			AllocationRuleID: &ruleID,
		}

		err = tx.Create(&allocation).Error
		if err != nil {
			return err
		}

		err = ledger.ApplyAllocation(tx, allocation)
		if err != nil {
			return err
		}
	}

	return nil
}
