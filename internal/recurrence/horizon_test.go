package recurrence_test

import (
	"github.com/budgetpouch/backend/internal/models"
	"github.com/budgetpouch/backend/internal/recurrence"
)

func (suite *TestSuiteStandard) TestEnsureHorizon() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	template := suite.createTestRecurringTransaction(models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		Amount:         -990,
		Memo:           "Streaming",
		PayeeName:      "Movieflix",
		EnvelopeID:     &envelope.ID,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitMonths,
		StartDate:      date(2025, 1, 15),
	})

	asOf := date(2025, 1, 1)
	created, err := recurrence.EnsureHorizon(models.DB, template.ID, asOf, 90)
	suite.Require().NoError(err)
	suite.Assert().Equal(3, created, "January 15, February 15 and March 15 lie within 90 days")

	instances := suite.scheduledInstances(template.ID)
	suite.Require().Len(instances, 3)
	for i, instance := range instances {
		suite.Assert().Equal(models.StatusScheduled, instance.Status)
		suite.Assert().Equal(int64(-990), instance.Amount)
		suite.Assert().Equal("Movieflix", instance.PayeeName)
		suite.Require().NotNil(instance.OccurrenceIndex)
		suite.Assert().Equal(i, *instance.OccurrenceIndex)
		suite.Require().NotNil(instance.EnvelopeID)
		suite.Assert().Equal(envelope.ID, *instance.EnvelopeID)
	}
	suite.Assert().Equal(date(2025, 3, 15), instances[2].Date)

	// Scheduled instances never touch balances.
	var reloaded models.Account
	suite.Require().NoError(models.DB.First(&reloaded, account.ID).Error)
	suite.Assert().Equal(int64(0), reloaded.ClearedBalance)
	suite.Assert().Equal(int64(0), reloaded.UnclearedBalance)
}

func (suite *TestSuiteStandard) TestEnsureHorizonIdempotent() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})

	template := suite.createTestRecurringTransaction(models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		Amount:         -5000,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitWeeks,
		StartDate:      date(2025, 6, 2),
	})

	asOf := date(2025, 6, 1)
	created, err := recurrence.EnsureHorizon(models.DB, template.ID, asOf, 30)
	suite.Require().NoError(err)
	suite.Assert().Equal(5, created)

	created, err = recurrence.EnsureHorizon(models.DB, template.ID, asOf, 30)
	suite.Require().NoError(err)
	suite.Assert().Equal(0, created, "re-running generates nothing new")

	// A longer horizon only adds the newly covered occurrences.
	created, err = recurrence.EnsureHorizon(models.DB, template.ID, asOf, 37)
	suite.Require().NoError(err)
	suite.Assert().Equal(1, created)
}

func (suite *TestSuiteStandard) TestEnsureHorizonDeletedStayDeleted() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})

	template := suite.createTestRecurringTransaction(models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		Amount:         -5000,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitWeeks,
		StartDate:      date(2025, 6, 2),
	})

	asOf := date(2025, 6, 1)
	_, err := recurrence.EnsureHorizon(models.DB, template.ID, asOf, 30)
	suite.Require().NoError(err)

	instances := suite.scheduledInstances(template.ID)
	suite.Require().NotEmpty(instances)
	suite.Require().NoError(models.DB.Delete(&instances[1]).Error)

	created, err := recurrence.EnsureHorizon(models.DB, template.ID, asOf, 30)
	suite.Require().NoError(err)
	suite.Assert().Equal(0, created, "a deleted occurrence must not resurrect")

	suite.Assert().Len(suite.scheduledInstances(template.ID), len(instances)-1)
}

func (suite *TestSuiteStandard) TestEnsureHorizonRespectsEndDate() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})

	end := date(2025, 6, 16)
	template := suite.createTestRecurringTransaction(models.RecurringTransaction{
		BudgetID:       budget.ID,
		AccountID:      account.ID,
		Amount:         -5000,
		FrequencyValue: 1,
		FrequencyUnit:  models.UnitWeeks,
		StartDate:      date(2025, 6, 2),
		EndDate:        &end,
	})

	created, err := recurrence.EnsureHorizon(models.DB, template.ID, date(2025, 6, 1), 365)
	suite.Require().NoError(err)
	suite.Assert().Equal(3, created, "nothing is generated past the end date")
}
