package models_test

import (
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestAccountNameUniquePerBudget() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	_ = suite.createTestAccount(models.Account{BudgetID: budget.ID, Name: "Checking"})

	err := models.DB.Create(&models.Account{BudgetID: budget.ID, Name: "Checking"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountNameNotUnique)
	suite.Assert().ErrorIs(err, models.ErrIntegrityConflict)

	// The same name in another budget is fine.
	other := suite.createTestBudget(models.Budget{Name: "Other budget"})
	_ = suite.createTestAccount(models.Account{BudgetID: other.ID, Name: "Checking"})
}

func (suite *TestSuiteStandard) TestAccountTrimsWhitespace() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	account := suite.createTestAccount(models.Account{BudgetID: budget.ID, Name: "  Checking ", Note: " off by one "})

	suite.Assert().Equal("Checking", account.Name)
	suite.Assert().Equal("off by one", account.Note)
}

func (suite *TestSuiteStandard) TestAccountBudgetMustExist() {
	err := models.DB.Create(&models.Account{BudgetID: uuid.New(), Name: "Orphan"}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
