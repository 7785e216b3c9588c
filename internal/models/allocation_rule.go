package models

import (
	"strings"

	"github.com/budgetpouch/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationRuleType determines how a rule computes its distribution.
type AllocationRuleType string

const (
	// Fill the envelope up to its target balance.
	RuleFillToTarget AllocationRuleType = "FILL_TO_TARGET"
	// Allocate a fixed amount in minor currency units.
	RuleFixed AllocationRuleType = "FIXED"
	// Allocate a share of the remaining inflow, in basis points of 10000.
	RulePercentage AllocationRuleType = "PERCENTAGE"
	// Allocate a weighted share of whatever is left after all other rules.
	RuleRemainder AllocationRuleType = "REMAINDER"
	// Do not allocate; constrain cumulative allocations into the envelope
	// within the current period.
	RulePeriodCap AllocationRuleType = "PERIOD_CAP"
)

// Valid reports whether the type is one of the known rule types.
func (t AllocationRuleType) Valid() bool {
	switch t {
	case RuleFillToTarget, RuleFixed, RulePercentage, RuleRemainder, RulePeriodCap:
		return true
	}

	return false
}

// AllocationRule is one entry of a budget's ordered income distribution
// rule set.
//
// Rules run in ascending priority, ties broken by creation order. The unit of
// Amount depends on Type: minor currency units for FIXED and PERIOD_CAP,
// basis points for PERCENTAGE, a relative weight for REMAINDER. It is unused
// for FILL_TO_TARGET.
type AllocationRule struct {
	DefaultModel
	Budget     Budget   `json:"-"`
	BudgetID   uuid.UUID
	Envelope   Envelope `json:"-"`
	EnvelopeID uuid.UUID

	Name     string
	Priority int
	Type     AllocationRuleType
	Amount   int64
	IsActive bool `gorm:"default:true"`

	// Only set for PERIOD_CAP rules.
	CapPeriodValue int
	CapPeriodUnit  types.PeriodUnit

	Archived bool
}

// BeforeSave validates the rule configuration and trims whitespace.
func (r *AllocationRule) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)

	if !r.Type.Valid() {
		return ErrRuleTypeInvalid
	}

	switch r.Type {
	case RuleFixed, RuleRemainder, RulePeriodCap:
		if r.Amount <= 0 {
			return ErrRuleAmountNotPositive
		}
	case RulePercentage:
		if r.Amount <= 0 {
			return ErrRuleAmountNotPositive
		}
		if r.Amount > 10000 {
			return ErrRulePercentageTooLarge
		}
	}

	if r.Type == RulePeriodCap && (r.CapPeriodValue < 1 || !r.CapPeriodUnit.Valid()) {
		return ErrRuleCapPeriodRequired
	}

	return nil
}

func (r *AllocationRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*AllocationRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *AllocationRule) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("BudgetID") || tx.Statement.Changed("EnvelopeID") {
		toSave := tx.Statement.Dest.(AllocationRule)
		return r.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (r *AllocationRule) checkIntegrity(tx *gorm.DB, toSave AllocationRule) error {
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Envelope{}, toSave.EnvelopeID).Error
}

// ActiveRules returns the active, unarchived rules for a budget in execution
// order: ascending priority, ties broken by creation order.
func ActiveRules(db *gorm.DB, budgetID uuid.UUID) ([]AllocationRule, error) {
	var rules []AllocationRule
	err := db.
		Where("budget_id = ? AND is_active AND NOT archived", budgetID).
		Order("priority ASC, created_at ASC, id ASC").
		Find(&rules).Error

	return rules, err
}
