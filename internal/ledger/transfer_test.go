package ledger_test

import (
	"time"

	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestEnvelopeTransfer() {
	budget := suite.createTestBudget(models.Budget{})
	groceries := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, CurrentBalance: 10000})
	dining := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	allocations, err := ledger.CreateEnvelopeTransfer(models.DB, budget.ID, &groceries.ID, &dining.ID, 2500, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(allocations, 2)

	suite.Assert().Equal(int64(-2500), allocations[0].Amount)
	suite.Assert().Equal(int64(2500), allocations[1].Amount)
	suite.Assert().Equal(allocations[0].GroupID, allocations[1].GroupID)

	suite.Assert().Equal(int64(7500), suite.reloadEnvelope(groceries.ID).CurrentBalance)
	suite.Assert().Equal(int64(2500), suite.reloadEnvelope(dining.ID).CurrentBalance)
}

func (suite *TestSuiteStandard) TestEnvelopeTransferFromPool() {
	budget := suite.createTestBudget(models.Budget{})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID, IncludeInBudget: true})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	income := models.Transaction{AccountID: account.ID, Amount: 50000, IsCleared: true}
	suite.Require().NoError(ledger.CreateTransaction(models.DB, &income, nil))

	allocations, err := ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, &envelope.ID, 10000, time.Now())
	suite.Require().NoError(err)

	// The pool side is computed, so only the envelope side gets a row.
	suite.Require().Len(allocations, 1)
	suite.Assert().Equal(envelope.ID, allocations[0].EnvelopeID)
	suite.Assert().Equal(int64(10000), allocations[0].Amount)

	suite.Assert().Equal(int64(10000), suite.reloadEnvelope(envelope.ID).CurrentBalance)

	unallocated, err := ledger.ComputeUnallocated(models.DB, budget.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(40000), unallocated)
}

func (suite *TestSuiteStandard) TestEnvelopeTransferUnallocatedEnvelopeIsPool() {
	budget := suite.createTestBudget(models.Budget{})
	pool := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, IsUnallocated: true})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	allocations, err := ledger.CreateEnvelopeTransfer(models.DB, budget.ID, &pool.ID, &envelope.ID, 500, time.Now())
	suite.Require().NoError(err)
	suite.Require().Len(allocations, 1)
	suite.Assert().Equal(envelope.ID, allocations[0].EnvelopeID)
	suite.Assert().Equal(int64(0), suite.reloadEnvelope(pool.ID).CurrentBalance)
}

func (suite *TestSuiteStandard) TestEnvelopeTransferErrors() {
	budget := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID})

	_, err := ledger.CreateEnvelopeTransfer(models.DB, budget.ID, &envelope.ID, &envelope.ID, 100, time.Now())
	suite.Assert().ErrorIs(err, ledger.ErrSameEnvelopeTransfer)

	_, err = ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, nil, 100, time.Now())
	suite.Assert().ErrorIs(err, ledger.ErrSameEnvelopeTransfer)

	_, err = ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, &envelope.ID, 0, time.Now())
	suite.Assert().ErrorIs(err, ledger.ErrTransferAmountNotPositive)

	_, err = ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, &envelope.ID, -100, time.Now())
	suite.Assert().ErrorIs(err, ledger.ErrTransferAmountNotPositive)
}

func (suite *TestSuiteStandard) TestEnvelopeTransferForeignBudget() {
	budget := suite.createTestBudget(models.Budget{})
	foreign := suite.createTestBudget(models.Budget{})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: foreign.ID})

	_, err := ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, &envelope.ID, 100, time.Now())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	missing := uuid.New()
	_, err = ledger.CreateEnvelopeTransfer(models.DB, budget.ID, nil, &missing, 100, time.Now())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
