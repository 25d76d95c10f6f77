package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/config"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
)

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Provider     *config.Provider
	Redis        *redis.Client `optional:"true"`
	PropertyRepo propertydomain.Repository
	TenancyRepo  tenancydomain.Repository
}

type service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	provider     *config.Provider
	redis        *redis.Client
	propertyRepo propertydomain.Repository
	tenancyRepo  tenancydomain.Repository
}

func NewService(p ServiceParam) quotadomain.Service {
	return &service{
		db:           p.DB,
		log:          p.Log.Named("quota.service"),
		clock:        p.Clock,
		provider:     p.Provider,
		redis:        p.Redis,
		propertyRepo: p.PropertyRepo,
		tenancyRepo:  p.TenancyRepo,
	}
}

func (s *service) cfg() config.QuotaConfig {
	return s.provider.Current().Quota
}

func (s *service) CanCreateProperty(ctx context.Context) error {
	cfg := s.cfg()
	if !cfg.Enabled || cfg.MaxProperties <= 0 {
		return nil
	}

	count, err := s.propertyRepo.Count(ctx, s.db)
	if err != nil {
		s.log.Error("failed to count properties", zap.Error(err))
		return err
	}
	if count >= cfg.MaxProperties {
		return quotadomain.ErrPropertyQuotaExceeded
	}
	return nil
}

func (s *service) CanCreateTenancy(ctx context.Context) error {
	cfg := s.cfg()
	if !cfg.Enabled || cfg.MaxTenancies <= 0 {
		return nil
	}

	count, err := s.tenancyRepo.Count(ctx, s.db)
	if err != nil {
		s.log.Error("failed to count tenancies", zap.Error(err))
		return err
	}
	if count >= cfg.MaxTenancies {
		return quotadomain.ErrTenancyQuotaExceeded
	}
	return nil
}

func (s *service) CanCalculate(ctx context.Context) error {
	cfg := s.cfg()
	if !cfg.Enabled || cfg.CalculationsMonthly <= 0 || s.redis == nil {
		return nil
	}

	// Key: quota:calc:{month_year} e.g. quota:calc:2026-08
	now := s.clock.Now(ctx)
	key := fmt.Sprintf("quota:calc:%s", now.Format("2006-01"))

	val, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		s.log.Error("failed to increment calculation quota", zap.Error(err))
		// Fail open so a redis outage cannot block billing work.
		return nil
	}
	if val == 1 {
		s.redis.Expire(ctx, key, 35*24*time.Hour)
	}

	if val > cfg.CalculationsMonthly {
		return quotadomain.ErrCalculationQuotaExceeded
	}
	return nil
}

func (s *service) GetUsage(ctx context.Context) (map[string]int64, error) {
	properties, err := s.propertyRepo.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}
	tenancies, err := s.tenancyRepo.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}

	usage := map[string]int64{
		"properties": properties,
		"tenancies":  tenancies,
	}

	if s.redis != nil {
		key := fmt.Sprintf("quota:calc:%s", s.clock.Now(ctx).Format("2006-01"))
		val, err := s.redis.Get(ctx, key).Int64()
		if err != nil && err != redis.Nil {
			return nil, err
		}
		usage["calculations_this_month"] = val
	}
	return usage, nil
}
