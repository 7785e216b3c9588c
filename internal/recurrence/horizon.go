package recurrence

import (
	"time"

	"github.com/budgetpouch/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultHorizonDays is how far ahead scheduled instances are generated.
const DefaultHorizonDays = 90

// EnsureHorizon tops up the template's SCHEDULED instances so that the
// horizon window has coverage, and returns how many instances were created.
//
// Instances are keyed by the template and their occurrence index. Existing
// instances, including soft-deleted ones, are never recreated: re-running is
// idempotent and a deliberately deleted occurrence stays deleted.
func EnsureHorizon(db *gorm.DB, templateID uuid.UUID, asOf time.Time, horizonDays int) (int, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var template models.RecurringTransaction
		err := tx.First(&template, templateID).Error
		if err != nil {
			return err
		}

		horizon := asOf.In(time.UTC).AddDate(0, 0, horizonDays)
		dates := GenerateDatesUntil(template, horizon)
		if len(dates) == 0 {
			return nil
		}

		base := occurrenceIndex(template, template.NextOccurrenceDate)
		for i, date := range dates {
			index := base + i

			var count int64
			err = tx.Unscoped().Model(&models.Transaction{}).
				Where("recurring_transaction_id = ? AND occurrence_index = ?", template.ID, index).
				Count(&count).Error
			if err != nil {
				return err
			}

			if count > 0 {
				continue
			}

			instance := models.Transaction{
				AccountID:              template.AccountID,
				Date:                   date,
				Amount:                 template.Amount,
				Memo:                   template.Memo,
				PayeeName:              template.PayeeName,
				Status:                 models.StatusScheduled,
				Type:                   models.TypeStandard,
				RecurringTransactionID: &template.ID,
			}

			occurrence := index
			instance.OccurrenceIndex = &occurrence

			if template.EnvelopeID != nil {
				envelopeID := *template.EnvelopeID
				instance.EnvelopeID = &envelopeID
			}

			err = tx.Create(&instance).Error
			if err != nil {
				return err
			}

			created++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}
