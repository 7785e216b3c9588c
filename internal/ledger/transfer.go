package ledger

import (
	"fmt"
	"time"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEnvelopeTransfer moves money between two envelopes of a budget.
//
// A nil envelope ID means the unallocated pool. The pool side produces no
// allocation row since its balance is computed, so a transfer from the pool
// into an envelope creates exactly one allocation. Both allocations of an
// envelope-to-envelope transfer share a group for deterministic replay.
func CreateEnvelopeTransfer(db *gorm.DB, budgetID uuid.UUID, sourceID, destinationID *uuid.UUID, amount int64, date time.Time) ([]models.Allocation, error) {
	if amount <= 0 {
		return nil, ErrTransferAmountNotPositive
	}

	created := []models.Allocation{}
	err := db.Transaction(func(tx *gorm.DB) error {
		source, err := transferSide(tx, budgetID, sourceID)
		if err != nil {
			return err
		}

		destination, err := transferSide(tx, budgetID, destinationID)
		if err != nil {
			return err
		}

		if source == nil && destination == nil {
			return ErrSameEnvelopeTransfer
		}
		if source != nil && destination != nil && source.ID == destination.ID {
			return ErrSameEnvelopeTransfer
		}

		group := uuid.New()
		order := 0

		for _, side := range []struct {
			envelope *models.Envelope
			amount   int64
		}{
			{source, -amount},
			{destination, amount},
		} {
			if side.envelope == nil {
				continue
			}

			allocation := models.Allocation{
				EnvelopeID:     side.envelope.ID,
				Amount:         side.amount,
				Date:           date,
				GroupID:        group,
				ExecutionOrder: order,
			}
			order++

			err = tx.Create(&allocation).Error
			if err != nil {
				return err
			}

			err = ApplyAllocation(tx, allocation)
			if err != nil {
				return err
			}

			created = append(created, allocation)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// transferSide resolves one side of an envelope transfer. A nil ID and the
// unallocated envelope both mean the pool, returned as nil.
func transferSide(db *gorm.DB, budgetID uuid.UUID, id *uuid.UUID) (*models.Envelope, error) {
	if id == nil {
		return nil, nil
	}

	var envelope models.Envelope
	err := db.First(&envelope, *id).Error
	if err != nil {
		return nil, err
	}

	if envelope.BudgetID != budgetID {
		return nil, fmt.Errorf("%w envelope matching your query", models.ErrResourceNotFound)
	}

	if envelope.IsUnallocated {
		return nil, nil
	}

	return &envelope, nil
}
