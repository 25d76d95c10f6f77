// Package domain contains the accounting records kept for every utility bill
// calculation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EntryDirection represents debit or credit postings.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "debit"
	EntryDirectionCredit EntryDirection = "credit"
)

const (
	SourceTypeBillCalculation = "bill_calculation"
	SourceTypeAdjustment      = "adjustment"
)

const (
	AccountCodeTenantReceivable = "tenant_receivable"
	AccountCodeOwnerAbsorbed    = "owner_absorbed"
	AccountCodeOwnerSurplus     = "owner_surplus"
	AccountCodeUtilityExpense   = "utility_expense"
)

// Account defines a chart-of-accounts entry.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Code      string       `gorm:"type:text;not null;uniqueIndex"`
	Name      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "ledger_accounts" }

// Entry captures the immutable header for one financial event.
type Entry struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SourceType string       `gorm:"type:text;not null;index"`
	SourceID   snowflake.ID `gorm:"not null;index"`
	OccurredAt time.Time    `gorm:"not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "ledger_entries" }

// EntryLine is a double-entry posting line. Memo identifies the tenant for
// receivable lines.
type EntryLine struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	EntryID   snowflake.ID    `gorm:"not null;index"`
	AccountID snowflake.ID    `gorm:"not null;index"`
	Direction EntryDirection  `gorm:"type:text;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Memo      string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EntryLine) TableName() string { return "ledger_entry_lines" }
