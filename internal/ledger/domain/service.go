package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TenantCharge is one tenant's computed share to be posted as a receivable.
type TenantCharge struct {
	TenancyID  string
	TenantName string
	Amount     float64
}

// PostBillCalculationInput describes the outcome of one proration run.
// OwnerShare follows the engine's convention: vacancy cost in shared mode,
// signed collection balance in fixed mode.
type PostBillCalculationInput struct {
	BillID        snowflake.ID
	Mode          string
	InvoiceAmount float64
	OwnerShare    float64
	Charges       []TenantCharge
	OccurredAt    time.Time
}

type Service interface {
	// PostBillCalculation writes a balanced ledger entry for a proration run
	// inside the caller's transaction. Recalculations of the same bill
	// replace the previous entry.
	PostBillCalculation(ctx context.Context, tx *gorm.DB, input PostBillCalculationInput) (*Entry, error)
	ListAccounts(ctx context.Context) ([]AccountResponse, error)
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]EntryResponse, error)
}

type ListEntriesRequest struct {
	SourceType string `form:"source_type"`
	SourceID   string `form:"source_id"`
}

type AccountResponse struct {
	ID      string          `json:"id"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type EntryLineResponse struct {
	AccountCode string          `json:"account_code"`
	Direction   EntryDirection  `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

type EntryResponse struct {
	ID         string              `json:"id"`
	SourceType string              `json:"source_type"`
	SourceID   string              `json:"source_id"`
	OccurredAt time.Time           `json:"occurred_at"`
	Lines      []EntryLineResponse `json:"lines"`
}

var (
	ErrUnbalancedEntry = errors.New("unbalanced_entry")
	ErrUnknownAccount  = errors.New("unknown_account")
	ErrInvalidSource   = errors.New("invalid_source")
)
