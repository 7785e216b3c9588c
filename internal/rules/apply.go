package rules

import (
	"fmt"
	"time"

	"github.com/budgetpouch/backend/internal/ledger"
	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result describes a committed rule application.
type Result struct {
	// The unallocated balance before and after the application.
	Initial int64
	Final   int64

	Distributions []Distribution
}

// ApplyToUnallocated distributes the budget's current unallocated balance
// across its envelopes according to the active rules and commits the result.
//
// Each distribution becomes a real allocation tagged with its originating
// rule. The allocations carry no transaction: rule application is a pure
// reallocation of money that is already in the budget. The unallocated
// balance must be strictly positive and at least one rule must produce a
// distribution, otherwise nothing is committed and a precondition error is
// returned with the amounts the caller needs to explain the situation.
func ApplyToUnallocated(db *gorm.DB, budgetID uuid.UUID, asOf time.Time) (Result, error) {
	var result Result

	err := db.Transaction(func(tx *gorm.DB) error {
		initial, err := ledger.ComputeUnallocated(tx, budgetID)
		if err != nil {
			return err
		}

		if initial <= 0 {
			return fmt.Errorf("%w (balance: %d)", ErrUnallocatedNotPositive, initial)
		}

		distributions, _, err := Apply(tx, budgetID, initial, asOf)
		if err != nil {
			return err
		}

		if len(distributions) == 0 {
			return ErrNothingDistributed
		}

		group := uuid.New()
		for i, distribution := range distributions {
			ruleID := distribution.Rule.ID
			allocation := models.Allocation{
				EnvelopeID:       distribution.EnvelopeID,
				Amount:           distribution.Amount,
				Date:             asOf,
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

		final, err := ledger.ComputeUnallocated(tx, budgetID)
		if err != nil {
			return err
		}

		result = Result{
			Initial:       initial,
			Final:         final,
			Distributions: distributions,
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
