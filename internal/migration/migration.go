// Package migration applies the schema. The service supports both sqlite and
// postgres, so the schema is derived from the gorm models rather than from
// hand-written per-dialect SQL.
package migration

import (
	"gorm.io/gorm"

	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&propertydomain.Property{},
		&tenancydomain.Tenancy{},
		&billdomain.UtilityBill{},
		&billdomain.BillAllocation{},
		&billdomain.BillCalculation{},
		&ledgerdomain.Account{},
		&ledgerdomain.Entry{},
		&ledgerdomain.EntryLine{},
	}
}

// RunMigrations brings the schema up to date.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
