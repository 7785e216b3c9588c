package models

import (
	"strings"

	"gorm.io/gorm"
)

// Budget represents a budget.
//
// A budget is the highest level of organization, all other resources
// reference it directly or transitively.
type Budget struct {
	DefaultModel
	Name string
	Note string

	// When set, income realized from recurring transactions without an
	// envelope is distributed by the budget's allocation rules.
	AutoAllocateIncome bool
}

// BeforeSave trims whitespace from all strings.
func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}
