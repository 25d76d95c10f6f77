package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
)

type repo struct{}

func Provide() propertydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *propertydomain.Property) error {
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*propertydomain.Property, error) {
	var p propertydomain.Property
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*propertydomain.Property, error) {
	var p propertydomain.Property
	err := db.WithContext(ctx).First(&p, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*propertydomain.Property, error) {
	var p propertydomain.Property
	err := db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts propertydomain.ListOptions) ([]*propertydomain.Property, error) {
	var items []*propertydomain.Property

	query := db.WithContext(ctx).Model(&propertydomain.Property{})
	if opts.Name != "" {
		query = query.Where("name LIKE ?", "%"+opts.Name+"%")
	}
	if opts.Active != nil {
		query = query.Where("active = ?", *opts.Active)
	}

	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *propertydomain.Property) error {
	return db.WithContext(ctx).Save(p).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&propertydomain.Property{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
