// Package domain holds utility bills (real supplier invoices) and the
// persisted outcome of prorating them across a property's tenancies.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Supply identifies the kind of utility the invoice covers.
type Supply string

const (
	SupplyWater    Supply = "water"
	SupplyPower    Supply = "power"
	SupplyGas      Supply = "gas"
	SupplyInternet Supply = "internet"
	SupplyOther    Supply = "other"
)

func (s Supply) Valid() bool {
	switch s {
	case SupplyWater, SupplyPower, SupplyGas, SupplyInternet, SupplyOther:
		return true
	}
	return false
}

// BillStatus tracks whether a bill has been prorated yet.
type BillStatus string

const (
	BillStatusDraft      BillStatus = "draft"
	BillStatusCalculated BillStatus = "calculated"
)

// UtilityBill is one real supplier invoice for a property covering
// [PeriodStart, PeriodEnd], both days included.
type UtilityBill struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	PropertyID  snowflake.ID `gorm:"not null;index"`
	Supply      Supply       `gorm:"type:text;not null"`
	Amount      float64      `gorm:"type:decimal(12,2);not null"`
	PeriodStart time.Time    `gorm:"not null"`
	PeriodEnd   time.Time    `gorm:"not null"`
	Status      BillStatus   `gorm:"type:text;not null;default:'draft'"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UtilityBill) TableName() string { return "utility_bills" }

// BillAllocation is one tenant's persisted share from a proration run.
type BillAllocation struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	BillID     snowflake.ID `gorm:"not null;index"`
	RunID      string       `gorm:"type:text;not null;index"`
	TenancyID  snowflake.ID `gorm:"not null;index"`
	TenantName string       `gorm:"type:text"`
	Days       int          `gorm:"not null"`
	Amount     float64      `gorm:"type:decimal(12,4);not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillAllocation) TableName() string { return "bill_allocations" }

// BillCalculation is the header of one proration run, including the engine's
// human-readable trace.
type BillCalculation struct {
	ID              snowflake.ID   `gorm:"primaryKey"`
	BillID          snowflake.ID   `gorm:"not null;index"`
	RunID           string         `gorm:"type:text;not null;uniqueIndex"`
	Mode            string         `gorm:"type:text;not null"`
	OwnerShare      float64        `gorm:"type:decimal(12,4);not null"`
	TotalCalculated float64        `gorm:"type:decimal(12,4);not null"`
	Log             datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillCalculation) TableName() string { return "bill_calculations" }
