package models_test

import (
	"github.com/budgetpouch/backend/internal/models"
	"github.com/budgetpouch/backend/internal/types"
)

func (suite *TestSuiteStandard) TestAllocationRuleValidation() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "Groceries"})

	tests := []struct {
		name string
		rule models.AllocationRule
		err  error
	}{
		{
			"unknown type",
			models.AllocationRule{Type: "LOTTERY", Amount: 100},
			models.ErrRuleTypeInvalid,
		},
		{
			"fixed amount must be positive",
			models.AllocationRule{Type: models.RuleFixed, Amount: 0},
			models.ErrRuleAmountNotPositive,
		},
		{
			"percentage capped at 10000 basis points",
			models.AllocationRule{Type: models.RulePercentage, Amount: 10001},
			models.ErrRulePercentageTooLarge,
		},
		{
			"period cap needs a period",
			models.AllocationRule{Type: models.RulePeriodCap, Amount: 10000},
			models.ErrRuleCapPeriodRequired,
		},
		{
			"period cap needs a known unit",
			models.AllocationRule{Type: models.RulePeriodCap, Amount: 10000, CapPeriodValue: 1, CapPeriodUnit: "DECADE"},
			models.ErrRuleCapPeriodRequired,
		},
	}

	for _, tt := range tests {
		rule := tt.rule
		rule.BudgetID = budget.ID
		rule.EnvelopeID = envelope.ID

		err := models.DB.Create(&rule).Error
		suite.Assert().ErrorIs(err, tt.err, "test case %q", tt.name)
		suite.Assert().ErrorIs(err, models.ErrValidation, "test case %q", tt.name)
	}
}

func (suite *TestSuiteStandard) TestAllocationRuleValid() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "Groceries"})

	rule := suite.createTestAllocationRule(models.AllocationRule{
		BudgetID:       budget.ID,
		EnvelopeID:     envelope.ID,
		Type:           models.RulePeriodCap,
		Amount:         10000,
		CapPeriodValue: 1,
		CapPeriodUnit:  types.PeriodMonth,
	})

	suite.Assert().True(rule.IsActive, "rules are active by default")
}

func (suite *TestSuiteStandard) TestActiveRulesOrder() {
	budget := suite.createTestBudget(models.Budget{Name: "Testing budget"})
	envelope := suite.createTestEnvelope(models.Envelope{BudgetID: budget.ID, Name: "Groceries"})

	_ = suite.createTestAllocationRule(models.AllocationRule{BudgetID: budget.ID, EnvelopeID: envelope.ID, Name: "third", Priority: 10, Type: models.RuleFixed, Amount: 100})
	first := suite.createTestAllocationRule(models.AllocationRule{BudgetID: budget.ID, EnvelopeID: envelope.ID, Name: "first", Priority: 1, Type: models.RuleFixed, Amount: 100})
	inactive := models.AllocationRule{BudgetID: budget.ID, EnvelopeID: envelope.ID, Name: "inactive", Priority: 2, Type: models.RuleFixed, Amount: 100}
	err := models.DB.Create(&inactive).Error
	suite.Require().Nil(err)
	err = models.DB.Model(&inactive).Update("is_active", false).Error
	suite.Require().Nil(err)

	rules, err := models.ActiveRules(models.DB, budget.ID)
	suite.Require().Nil(err)
	suite.Require().Len(rules, 2)
	suite.Assert().Equal(first.ID, rules[0].ID)
	suite.Assert().Equal("third", rules[1].Name)
}
