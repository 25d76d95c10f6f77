package domain

import (
	"context"
	"errors"
	"time"

	"github.com/roomledger/roomledger/internal/proration"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// Calculate prorates the bill across the property's tenancies, persists
	// the allocations and posts the ledger entry. Re-running replaces the
	// previous result.
	Calculate(ctx context.Context, id string) (*CalculationResponse, error)

	// Preview runs the engine on caller-supplied inputs without touching
	// storage.
	Preview(ctx context.Context, req PreviewRequest) (*proration.Result, error)
}

type ListRequest struct {
	PropertyID string `form:"property_id"`
	Status     string `form:"status"`
	Supply     string `form:"supply"`
}

type ListResponse struct {
	Bills []Response `json:"bills"`
}

// Dates travel as ISO calendar dates ("2006-01-02"); the service parses and
// rejects anything else before the engine runs.
type CreateRequest struct {
	PropertyID  string  `json:"property_id"`
	Supply      Supply  `json:"supply"`
	Amount      float64 `json:"amount"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

type UpdateRequest struct {
	ID          string   `json:"-"`
	Supply      *Supply  `json:"supply,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	PeriodStart *string  `json:"period_start,omitempty"`
	PeriodEnd   *string  `json:"period_end,omitempty"`
}

type AllocationView struct {
	TenancyID  string  `json:"tenancy_id"`
	TenantName string  `json:"tenant_name"`
	Days       int     `json:"days_present"`
	Amount     float64 `json:"amount_to_pay"`
}

type CalculationView struct {
	RunID           string           `json:"run_id"`
	Mode            string           `json:"mode"`
	OwnerShare      float64          `json:"owner_share"`
	TotalCalculated float64          `json:"total_calculated"`
	Log             []string         `json:"log"`
	Allocations     []AllocationView `json:"allocations"`
	CreatedAt       time.Time        `json:"created_at"`
}

type Response struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"property_id"`
	Supply      Supply           `json:"supply"`
	Amount      float64          `json:"amount"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Status      BillStatus       `json:"status"`
	Calculation *CalculationView `json:"calculation,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type CalculationResponse struct {
	BillID string           `json:"bill_id"`
	RunID  string           `json:"run_id"`
	Mode   string           `json:"mode"`
	Result proration.Result `json:"result"`
}

type PreviewTenant struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	FixedFee  *float64 `json:"fixed_fee,omitempty"`
}

type PreviewRequest struct {
	Amount             float64         `json:"amount"`
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	Mode               string          `json:"mode"`
	FixedMonthlyAmount float64         `json:"fixed_monthly_amount"`
	Tenants            []PreviewTenant `json:"tenants"`
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidSupply   = errors.New("invalid_supply")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrPeriodOrder     = errors.New("period_end_before_start")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrBillNotDraft    = errors.New("bill_not_draft")
)
