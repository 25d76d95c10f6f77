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
	Archive(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	Name   string `form:"name"`
	Active *bool  `form:"active"`
}

type ListResponse struct {
	Properties []Response `json:"properties"`
}

type CreateRequest struct {
	Name               string         `json:"name"`
	Address            string         `json:"address"`
	BillingMode        BillingMode    `json:"billing_mode"`
	FixedMonthlyAmount float64        `json:"fixed_monthly_amount"`
	Metadata           map[string]any `json:"metadata"`
	IdempotencyKey     string         `json:"-"`
}

type UpdateRequest struct {
	ID                 string         `json:"-"`
	Name               *string        `json:"name,omitempty"`
	Address            *string        `json:"address,omitempty"`
	BillingMode        *BillingMode   `json:"billing_mode,omitempty"`
	FixedMonthlyAmount *float64       `json:"fixed_monthly_amount,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

type Response struct {
	ID                 string         `json:"id"`
	Code               string         `json:"code"`
	Name               string         `json:"name"`
	Address            string         `json:"address,omitempty"`
	BillingMode        BillingMode    `json:"billing_mode"`
	FixedMonthlyAmount float64        `json:"fixed_monthly_amount"`
	Active             bool           `json:"active"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidBillingMode = errors.New("invalid_billing_mode")
	ErrInvalidFixedAmount = errors.New("invalid_fixed_amount")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
)
