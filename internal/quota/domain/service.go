// Package domain defines install-level guardrails: caps on how many
// properties and tenancies can exist and how many bill calculations may run
// per month.
package domain

import (
	"context"
	"errors"
)

var (
	ErrPropertyQuotaExceeded    = errors.New("property_quota_exceeded")
	ErrTenancyQuotaExceeded     = errors.New("tenancy_quota_exceeded")
	ErrCalculationQuotaExceeded = errors.New("calculation_quota_exceeded")
)

type Service interface {
	CanCreateProperty(ctx context.Context) error
	CanCreateTenancy(ctx context.Context) error
	CanCalculate(ctx context.Context) error

	// GetUsage reports current counts against the configured limits.
	GetUsage(ctx context.Context) (map[string]int64, error)
}
