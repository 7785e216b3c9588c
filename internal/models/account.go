package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents an asset account, e.g. a bank account.
//
// ClearedBalance and UnclearedBalance are running balances in minor currency
// units. They are maintained exclusively by the ledger package: each equals
// the signed sum of the account's posted transactions, partitioned by the
// cleared flag.
type Account struct {
	DefaultModel
	Budget           Budget    `json:"-"`
	BudgetID         uuid.UUID `gorm:"uniqueIndex:account_name_budget_id"`
	Name             string    `gorm:"uniqueIndex:account_name_budget_id"`
	Note             string
	IncludeInBudget  bool
	ClearedBalance   int64
	UnclearedBalance int64
	Archived         bool
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	return nil
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Account)
	return a.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the account before
// committing an update to the database.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("BudgetID") {
		toSave := tx.Statement.Dest.(Account)
		return a.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (a *Account) checkIntegrity(tx *gorm.DB, toSave Account) error {
	return tx.First(&Budget{}, toSave.BudgetID).Error
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	db.Where(&Transaction{AccountID: a.ID}).Find(&transactions)
	return transactions
}
