package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOptions struct {
	PropertyID snowflake.ID
	Status     BillStatus
	Supply     Supply
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *UtilityBill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UtilityBill, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]*UtilityBill, error)
	Update(ctx context.Context, db *gorm.DB, bill *UtilityBill) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	ReplaceAllocations(ctx context.Context, db *gorm.DB, billID snowflake.ID, allocations []BillAllocation) error
	ListAllocations(ctx context.Context, db *gorm.DB, billID snowflake.ID, runID string) ([]*BillAllocation, error)

	InsertCalculation(ctx context.Context, db *gorm.DB, calc *BillCalculation) error
	DeleteCalculations(ctx context.Context, db *gorm.DB, billID snowflake.ID) error
	FindLatestCalculation(ctx context.Context, db *gorm.DB, billID snowflake.ID) (*BillCalculation, error)
}
