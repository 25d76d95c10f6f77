package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOptions struct {
	PropertyID   snowflake.ID
	OverlapStart *time.Time
	OverlapEnd   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *Tenancy) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenancy, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]*Tenancy, error)
	Update(ctx context.Context, db *gorm.DB, t *Tenancy) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
