package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRule maps payee names matching a glob pattern to an envelope.
//
// Match rules provide the default envelope for expenses that post without an
// explicit envelope. Lower priorities are evaluated first.
type MatchRule struct {
	DefaultModel
	Budget     Budget   `json:"-"`
	BudgetID   uuid.UUID
	Envelope   Envelope `json:"-"`
	EnvelopeID uuid.UUID
	Priority   uint
	Match      string
}

// BeforeSave trims whitespace from the match pattern.
func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	return nil
}

func (r *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MatchRule)
	err := tx.First(&Budget{}, toSave.BudgetID).Error
	if err != nil {
		return err
	}

	return tx.First(&Envelope{}, toSave.EnvelopeID).Error
}
