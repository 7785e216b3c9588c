// Package rules implements the engine that distributes an inflow of money
// across envelopes according to a budget's ordered allocation rules.
//
// Rules run in ascending priority. PERIOD_CAP rules never allocate
// themselves, they constrain the cumulative allocations into their envelope
// within the current period. REMAINDER rules are deferred: after all other
// rules ran, they share whatever inflow is left proportionally to their
// weights.
package rules

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/budgetpouch/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNegativeInflow = fmt.Errorf("%w: cannot distribute a negative inflow", models.ErrValidation)

	ErrNoActiveRules          = fmt.Errorf("%w: the budget has no active allocation rules", models.ErrPrecondition)
	ErrNothingDistributed     = fmt.Errorf("%w: no rule produced a distribution", models.ErrPrecondition)
	ErrUnallocatedNotPositive = fmt.Errorf("%w: the unallocated balance must be positive to apply rules", models.ErrPrecondition)
)

// Distribution is one (envelope, amount) assignment produced by a rule.
type Distribution struct {
	Rule       models.AllocationRule
	EnvelopeID uuid.UUID
	Amount     int64
}

// Apply computes the distributions the budget's active rules produce for the
// given inflow as of a date. It never writes; committing the result is the
// caller's concern (see ApplyToUnallocated).
//
// The returned leftover is the part of the inflow no rule claimed. Rules
// whose candidate clamps to zero produce no distribution. A negative inflow
// is refused: distributing overspending is undefined.
func Apply(db *gorm.DB, budgetID uuid.UUID, inflow int64, asOf time.Time) ([]Distribution, int64, error) {
	if inflow < 0 {
		return nil, 0, ErrNegativeInflow
	}

	rules, err := models.ActiveRules(db, budgetID)
	if err != nil {
		return nil, 0, err
	}

	var capRules, allocating []models.AllocationRule
	for _, rule := range rules {
		if rule.Type == models.RulePeriodCap {
			capRules = append(capRules, rule)
		} else {
			allocating = append(allocating, rule)
		}
	}

	if len(allocating) == 0 {
		return nil, inflow, ErrNoActiveRules
	}

	remainingCap := map[uuid.UUID]int64{}
	for _, rule := range capRules {
		remaining, err := remainingCapacity(db, rule, asOf)
		if err != nil {
			return nil, 0, err
		}

		// Multiple caps on one envelope are tolerated, the tightest wins.
		if existing, ok := remainingCap[rule.EnvelopeID]; !ok || remaining < existing {
			remainingCap[rule.EnvelopeID] = remaining
		}
	}

	distributions := []Distribution{}
	pending := map[uuid.UUID]int64{}
	remaining := inflow

	clamp := func(rule models.AllocationRule, candidate int64) {
		if candidate > remaining {
			candidate = remaining
		}
		if capacity, ok := remainingCap[rule.EnvelopeID]; ok && candidate > capacity {
			candidate = capacity
		}
		if candidate <= 0 {
			return
		}

		distributions = append(distributions, Distribution{Rule: rule, EnvelopeID: rule.EnvelopeID, Amount: candidate})
		remaining -= candidate
		pending[rule.EnvelopeID] += candidate
		if _, ok := remainingCap[rule.EnvelopeID]; ok {
			remainingCap[rule.EnvelopeID] -= candidate
		}
	}

	var remainderRules []models.AllocationRule
	for _, rule := range allocating {
		switch rule.Type {
		case models.RuleRemainder:
			remainderRules = append(remainderRules, rule)

		case models.RuleFixed:
			clamp(rule, rule.Amount)

		case models.RulePercentage:
			// Basis points of the remaining inflow, truncated toward zero
			clamp(rule, remaining*rule.Amount/10000)

		case models.RuleFillToTarget:
			var envelope models.Envelope
			err := db.First(&envelope, rule.EnvelopeID).Error
			if err != nil {
				return nil, 0, err
			}

			// Envelopes without a target or already at it are skipped
			if envelope.TargetBalance == nil {
				continue
			}

			missing := *envelope.TargetBalance - envelope.CurrentBalance - pending[rule.EnvelopeID]
			if missing <= 0 {
				continue
			}

			clamp(rule, missing)
		}
	}

	if len(remainderRules) > 0 && remaining > 0 {
		shares := remainderShares(remaining, remainderRules)
		for i, rule := range remainderRules {
			clamp(rule, shares[i])
		}
	}

	return distributions, remaining, nil
}

// Preview is the dry-run entry point for callers: Apply by another name,
// since Apply never writes.
func Preview(db *gorm.DB, budgetID uuid.UUID, inflow int64, asOf time.Time) ([]Distribution, int64, error) {
	return Apply(db, budgetID, inflow, asOf)
}

// remainingCapacity returns how much money may still be allocated into the
// cap rule's envelope within the period containing asOf, floored at zero.
func remainingCapacity(db *gorm.DB, rule models.AllocationRule, asOf time.Time) (int64, error) {
	start, end := types.Boundaries(asOf, rule.CapPeriodValue, rule.CapPeriodUnit)

	var used sql.NullInt64
	err := db.Model(&models.Allocation{}).
		Where("envelope_id = ? AND date >= ? AND date < ?", rule.EnvelopeID, start, end).
		Select("SUM(amount)").
		Row().Scan(&used)
	if err != nil {
		return 0, err
	}

	remaining := rule.Amount - used.Int64
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

// remainderShares splits the pool across the rules proportionally to their
// weights using the largest remainder method: every rule gets its truncated
// proportional share, then the cents lost to truncation are handed out one
// each by descending fractional remainder. The stable sort keeps rule
// priority as the tie breaker.
func remainderShares(pool int64, rules []models.AllocationRule) []int64 {
	var total int64
	for _, rule := range rules {
		total += rule.Amount
	}

	shares := make([]int64, len(rules))
	if total == 0 {
		return shares
	}

	type fraction struct {
		index     int
		remainder int64
	}

	fractions := make([]fraction, len(rules))
	var assigned int64
	for i, rule := range rules {
		product := pool * rule.Amount
		shares[i] = product / total
		fractions[i] = fraction{index: i, remainder: product % total}
		assigned += shares[i]
	}

	sort.SliceStable(fractions, func(i, j int) bool {
		return fractions[i].remainder > fractions[j].remainder
	})

	for i := int64(0); i < pool-assigned; i++ {
		shares[fractions[i].index]++
	}

	return shares
}
