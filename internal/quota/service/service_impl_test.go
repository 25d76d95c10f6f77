package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/config"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	propertyrepository "github.com/roomledger/roomledger/internal/property/repository"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	tenancyrepository "github.com/roomledger/roomledger/internal/tenancy/repository"
)

func newQuotaService(t *testing.T, quota config.QuotaConfig) (quotadomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&propertydomain.Property{}, &tenancydomain.Tenancy{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:           db,
		Log:          zap.NewNop(),
		Clock:        clock.Fixed{T: time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)},
		Provider:     config.StaticProvider(config.Config{Quota: quota}),
		Redis:        rdb,
		PropertyRepo: propertyrepository.Provide(),
		TenancyRepo:  tenancyrepository.Provide(),
	})
	return svc, db, node
}

func TestPropertyQuota(t *testing.T) {
	svc, db, node := newQuotaService(t, config.QuotaConfig{Enabled: true, MaxProperties: 1})
	ctx := context.Background()

	require.NoError(t, svc.CanCreateProperty(ctx))

	repo := propertyrepository.Provide()
	require.NoError(t, repo.Insert(ctx, db, &propertydomain.Property{
		ID:          node.Generate(),
		Code:        "villa",
		Name:        "Villa",
		BillingMode: propertydomain.BillingModeShared,
		Active:      true,
	}))

	require.ErrorIs(t, svc.CanCreateProperty(ctx), quotadomain.ErrPropertyQuotaExceeded)
}

func TestQuotaDisabledAllowsEverything(t *testing.T) {
	svc, _, _ := newQuotaService(t, config.QuotaConfig{Enabled: false})
	ctx := context.Background()

	require.NoError(t, svc.CanCreateProperty(ctx))
	require.NoError(t, svc.CanCreateTenancy(ctx))
	require.NoError(t, svc.CanCalculate(ctx))
}

func TestCalculationQuota(t *testing.T) {
	svc, _, _ := newQuotaService(t, config.QuotaConfig{Enabled: true, CalculationsMonthly: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CanCalculate(ctx))
	}
	require.ErrorIs(t, svc.CanCalculate(ctx), quotadomain.ErrCalculationQuotaExceeded)

	usage, err := svc.GetUsage(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, usage["calculations_this_month"])
}
