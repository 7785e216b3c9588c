package models_test

import (
	"time"

	"github.com/budgetpouch/backend/internal/models"
)

func (suite *TestSuiteStandard) TestRecurringTransactionValidation() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})

	err := models.DB.Create(&models.RecurringTransaction{
		BudgetID:      budget.ID,
		AccountID:     account.ID,
		FrequencyUnit: models.UnitMonths,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrFrequencyInvalid, "frequency value 0 must be rejected")

	err = models.DB.Create(&models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		FrequencyValue: 1,
		FrequencyUnit:  "FORTNIGHTS",
	}).Error
	suite.Assert().ErrorIs(err, models.ErrFrequencyInvalid, "unknown units must be rejected")

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	err = models.DB.Create(&models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitMonths,
		StartDate:      start,
		EndDate:        &end,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrEndBeforeStart)
}

func (suite *TestSuiteStandard) TestRecurringTransactionCursorDefaultsToStart() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	recurring := suite.createTestRecurringTransaction(models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitMonths,
		StartDate:      start,
	})

	suite.Assert().True(recurring.NextOccurrenceDate.Equal(start), "cursor is %s, should be %s", recurring.NextOccurrenceDate, start)
}
