package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOptions struct {
	Name   string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Property) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Property, error)
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*Property, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Property, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]*Property, error)
	Update(ctx context.Context, db *gorm.DB, p *Property) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
