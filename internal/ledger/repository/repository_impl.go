package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
)

type repo struct{}

func Provide() ledgerdomain.Repository {
	return &repo{}
}

func (r *repo) EnsureAccount(ctx context.Context, db *gorm.DB, account *ledgerdomain.Account) error {
	existing, err := r.FindAccountByCode(ctx, db, account.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return db.WithContext(ctx).Create(account).Error
}

func (r *repo) FindAccountByCode(ctx context.Context, db *gorm.DB, code string) (*ledgerdomain.Account, error) {
	var a ledgerdomain.Account
	err := db.WithContext(ctx).First(&a, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) ListAccounts(ctx context.Context, db *gorm.DB) ([]*ledgerdomain.Account, error) {
	var items []*ledgerdomain.Account
	if err := db.WithContext(ctx).Order("code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) AccountBalance(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (decimal.Decimal, decimal.Decimal, error) {
	type row struct {
		Direction ledgerdomain.EntryDirection
		Total     decimal.Decimal
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&ledgerdomain.EntryLine{}).
		Select("direction, SUM(amount) AS total").
		Where("account_id = ?", accountID).
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, rw := range rows {
		switch rw.Direction {
		case ledgerdomain.EntryDirectionDebit:
			debits = rw.Total
		case ledgerdomain.EntryDirectionCredit:
			credits = rw.Total
		}
	}
	return debits, credits, nil
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *ledgerdomain.Entry, lines []ledgerdomain.EntryLine) error {
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) DeleteEntriesBySource(ctx context.Context, db *gorm.DB, sourceType string, sourceID snowflake.ID) error {
	entries, err := r.ListEntries(ctx, db, sourceType, sourceID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := db.WithContext(ctx).Delete(&ledgerdomain.EntryLine{}, "entry_id = ?", entry.ID).Error; err != nil {
			return err
		}
		if err := db.WithContext(ctx).Delete(&ledgerdomain.Entry{}, "id = ?", entry.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB, sourceType string, sourceID snowflake.ID) ([]*ledgerdomain.Entry, error) {
	var items []*ledgerdomain.Entry
	query := db.WithContext(ctx).Model(&ledgerdomain.Entry{})
	if sourceType != "" {
		query = query.Where("source_type = ?", sourceType)
	}
	if sourceID != 0 {
		query = query.Where("source_id = ?", sourceID)
	}
	if err := query.Order("occurred_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListLines(ctx context.Context, db *gorm.DB, entryID snowflake.ID) ([]*ledgerdomain.EntryLine, error) {
	var items []*ledgerdomain.EntryLine
	if err := db.WithContext(ctx).Where("entry_id = ?", entryID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
