package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	End(ctx context.Context, id string, moveOut time.Time) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	PropertyID string `form:"property_id"`
	// OverlapStart/OverlapEnd restrict the list to stays that touch the
	// given period. Open-ended stays always match.
	OverlapStart *time.Time `form:"overlap_start" time_format:"2006-01-02"`
	OverlapEnd   *time.Time `form:"overlap_end" time_format:"2006-01-02"`
}

type ListResponse struct {
	Tenancies []Response `json:"tenancies"`
}

type CreateRequest struct {
	PropertyID string     `json:"property_id"`
	TenantName string     `json:"tenant_name"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	FixedFee   *float64   `json:"fixed_fee,omitempty"`
}

type UpdateRequest struct {
	ID         string     `json:"-"`
	TenantName *string    `json:"tenant_name,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	FixedFee   *float64   `json:"fixed_fee,omitempty"`
}

type Response struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	TenantName string     `json:"tenant_name"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	FixedFee   *float64   `json:"fixed_fee,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

var (
	ErrInvalidProperty  = errors.New("invalid_property")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidDateOrder = errors.New("end_before_start")
	ErrNotFound         = errors.New("not_found")
)
