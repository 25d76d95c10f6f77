package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

type repo struct{}

func Provide() billdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *billdomain.UtilityBill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billdomain.UtilityBill, error) {
	var bill billdomain.UtilityBill
	err := db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts billdomain.ListOptions) ([]*billdomain.UtilityBill, error) {
	var items []*billdomain.UtilityBill

	query := db.WithContext(ctx).Model(&billdomain.UtilityBill{})
	if opts.PropertyID != 0 {
		query = query.Where("property_id = ?", opts.PropertyID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Supply != "" {
		query = query.Where("supply = ?", opts.Supply)
	}

	if err := query.Order("period_start DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, bill *billdomain.UtilityBill) error {
	return db.WithContext(ctx).Save(bill).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&billdomain.UtilityBill{}, "id = ?", id).Error
}

func (r *repo) ReplaceAllocations(ctx context.Context, db *gorm.DB, billID snowflake.ID, allocations []billdomain.BillAllocation) error {
	if err := db.WithContext(ctx).Delete(&billdomain.BillAllocation{}, "bill_id = ?", billID).Error; err != nil {
		return err
	}
	if len(allocations) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&allocations).Error
}

func (r *repo) ListAllocations(ctx context.Context, db *gorm.DB, billID snowflake.ID, runID string) ([]*billdomain.BillAllocation, error) {
	var items []*billdomain.BillAllocation
	query := db.WithContext(ctx).Where("bill_id = ?", billID)
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if err := query.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertCalculation(ctx context.Context, db *gorm.DB, calc *billdomain.BillCalculation) error {
	return db.WithContext(ctx).Create(calc).Error
}

func (r *repo) DeleteCalculations(ctx context.Context, db *gorm.DB, billID snowflake.ID) error {
	return db.WithContext(ctx).Delete(&billdomain.BillCalculation{}, "bill_id = ?", billID).Error
}

func (r *repo) FindLatestCalculation(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*billdomain.BillCalculation, error) {
	var calc billdomain.BillCalculation
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at DESC, id DESC").
		First(&calc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calc, nil
}
