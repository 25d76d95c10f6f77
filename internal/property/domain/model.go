// Package domain holds the property aggregate: a rentable unit and its
// utility-billing configuration.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BillingMode selects how utility invoices for the property are allocated.
type BillingMode string

const (
	BillingModeShared BillingMode = "shared"
	BillingModeFixed  BillingMode = "fixed"
)

func (m BillingMode) Valid() bool {
	return m == BillingModeShared || m == BillingModeFixed
}

// Property is a rentable room or unit under administration.
type Property struct {
	ID                 snowflake.ID      `gorm:"primaryKey"`
	Code               string            `gorm:"type:text;not null;uniqueIndex"`
	Name               string            `gorm:"type:text;not null"`
	Address            string            `gorm:"type:text"`
	BillingMode        BillingMode       `gorm:"type:text;not null"`
	FixedMonthlyAmount float64           `gorm:"type:decimal(12,2);not null;default:0"`
	Active             bool              `gorm:"not null;default:true"`
	IdempotencyKey     *string           `gorm:"type:text;index"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Property) TableName() string { return "properties" }
