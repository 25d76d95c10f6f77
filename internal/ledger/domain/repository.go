package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	EnsureAccount(ctx context.Context, db *gorm.DB, account *Account) error
	FindAccountByCode(ctx context.Context, db *gorm.DB, code string) (*Account, error)
	ListAccounts(ctx context.Context, db *gorm.DB) ([]*Account, error)
	AccountBalance(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (debits, credits decimal.Decimal, err error)

	InsertEntry(ctx context.Context, db *gorm.DB, entry *Entry, lines []EntryLine) error
	DeleteEntriesBySource(ctx context.Context, db *gorm.DB, sourceType string, sourceID snowflake.ID) error
	ListEntries(ctx context.Context, db *gorm.DB, sourceType string, sourceID snowflake.ID) ([]*Entry, error)
	ListLines(ctx context.Context, db *gorm.DB, entryID snowflake.ID) ([]*EntryLine, error)
}
