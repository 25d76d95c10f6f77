package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
)

type repo struct{}

func Provide() tenancydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tenancydomain.Tenancy) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tenancydomain.Tenancy, error) {
	var t tenancydomain.Tenancy
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts tenancydomain.ListOptions) ([]*tenancydomain.Tenancy, error) {
	var items []*tenancydomain.Tenancy

	query := db.WithContext(ctx).Model(&tenancydomain.Tenancy{})
	if opts.PropertyID != 0 {
		query = query.Where("property_id = ?", opts.PropertyID)
	}
	if opts.OverlapEnd != nil {
		query = query.Where("start_date IS NULL OR start_date <= ?", *opts.OverlapEnd)
	}
	if opts.OverlapStart != nil {
		query = query.Where("end_date IS NULL OR end_date >= ?", *opts.OverlapStart)
	}

	if err := query.Order("start_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *tenancydomain.Tenancy) error {
	return db.WithContext(ctx).Save(t).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&tenancydomain.Tenancy{}, "id = ?", id).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&tenancydomain.Tenancy{}).Count(&count).Error
	return count, err
}
