// Package domain holds tenancy records: one occupant's stay interval in a
// property. Rows with a blank name or no move-in date are deliberately
// storable; the proration engine applies its own exclusion and defaulting
// rules to them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenancy is one occupant's stay in a property. A nil EndDate means the
// occupant has not moved out.
type Tenancy struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	PropertyID snowflake.ID `gorm:"not null;index"`
	TenantName string       `gorm:"type:text"`
	StartDate  *time.Time
	EndDate    *time.Time
	FixedFee   *float64  `gorm:"type:decimal(12,2)"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tenancy) TableName() string { return "tenancies" }
