package ledger_test

import (
	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCreateAllocation() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	allocation := models.Allocation{EnvelopeID: envelope.ID, Amount: 2500}
	suite.Require().NoError(ledger.CreateAllocation(models.DB, &allocation))

	suite.Assert().Equal(int64(2500), suite.reloadEnvelope(envelope.ID).CurrentBalance)
}

func (suite *TestSuiteStandard) TestCreateAllocationBreaksSum() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	transaction := models.Transaction{AccountID: account.ID, Amount: -5000, IsCleared: true}
	suite.Require().NoError(ledger.CreateTransaction(models.DB, &transaction, []models.Allocation{
		{EnvelopeID: envelope.ID, Amount: -5000},
	}))

	extra := models.Allocation{EnvelopeID: envelope.ID, Amount: -100, TransactionID: &transaction.ID}
	err := ledger.CreateAllocation(models.DB, &extra)
	suite.Assert().ErrorIs(err, ledger.ErrAllocationSumMismatch)
	suite.Assert().Equal(int64(-5000), suite.reloadEnvelope(envelope.ID).CurrentBalance)
}

func (suite *TestSuiteStandard) TestUpdateAllocationMovesEnvelope() {
	budget := suite.createTestBudget(models.Budget{})
	groceries := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})
	dining := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	allocation := models.Allocation{EnvelopeID: groceries.ID, Amount: 3000}
	suite.Require().NoError(ledger.CreateAllocation(models.DB, &allocation))

	updated, err := ledger.UpdateAllocation(models.DB, allocation.ID, models.Allocation{
		EnvelopeID: dining.ID,
		Amount:     3000,
	})
	suite.Require().NoError(err)
	suite.Assert().Equal(dining.ID, updated.EnvelopeID)

	suite.Assert().Equal(int64(0), suite.reloadEnvelope(groceries.ID).CurrentBalance)
	suite.Assert().Equal(int64(3000), suite.reloadEnvelope(dining.ID).CurrentBalance)
}

func (suite *TestSuiteStandard) TestDeleteAllocation() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	allocation := models.Allocation{EnvelopeID: envelope.ID, Amount: 800}
	suite.Require().NoError(ledger.CreateAllocation(models.DB, &allocation))
	suite.Require().NoError(ledger.DeleteAllocation(models.DB, allocation.ID))

	suite.Assert().Equal(int64(0), suite.reloadEnvelope(envelope.ID).CurrentBalance)

	err := models.DB.First(&models.Allocation{}, allocation.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
