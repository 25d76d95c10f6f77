// Package seed provisions the immutable reference data a fresh install needs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	ledgerrepository "github.com/roomledger/roomledger/internal/ledger/repository"
	ledgerservice "github.com/roomledger/roomledger/internal/ledger/service"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	propertyrepository "github.com/roomledger/roomledger/internal/property/repository"
)

// EnsureChartOfAccounts creates the ledger accounts postings are made
// against. Safe to run repeatedly.
func EnsureChartOfAccounts(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	repo := ledgerrepository.Provide()
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range ledgerservice.DefaultAccounts() {
			account.ID = node.Generate()
			if err := repo.EnsureAccount(ctx, tx, &account); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoProperty creates one sample property on a fresh install so the
// admin screens have something to show. Skipped once any property exists.
func EnsureDemoProperty(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	var count int64
	if err := db.WithContext(ctx).Model(&propertydomain.Property{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return propertyrepository.Provide().Insert(ctx, db, &propertydomain.Property{
		ID:          node.Generate(),
		Code:        "demo-house",
		Name:        "Demo House",
		Address:     "1 Example Street",
		BillingMode: propertydomain.BillingModeShared,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
