package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	propertyrepository "github.com/roomledger/roomledger/internal/property/repository"
	"github.com/roomledger/roomledger/internal/tenancy/domain"
	"github.com/roomledger/roomledger/internal/tenancy/repository"
)

type fixture struct {
	svc        domain.Service
	db         *gorm.DB
	propertyID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&propertydomain.Property{}, &domain.Tenancy{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	propertyRepo := propertyrepository.Provide()
	prop := &propertydomain.Property{
		ID:          node.Generate(),
		Code:        "villa",
		Name:        "Villa",
		BillingMode: propertydomain.BillingModeShared,
		Active:      true,
	}
	require.NoError(t, propertyRepo.Insert(context.Background(), db, prop))

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clock.Fixed{T: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		Repo:         repository.Provide(),
		PropertyRepo: propertyRepo,
	})

	return fixture{svc: svc, db: db, propertyID: prop.ID.String()}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreateTenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "Alice",
		StartDate:  day(2026, 1, 1),
	})
	require.NoError(t, err)
	require.Equal(t, "Alice", resp.TenantName)
	require.Nil(t, resp.EndDate)
}

func TestCreateTenancyLenientRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Unnamed and undated rows are storable; the engine decides per mode
	// whether they count.
	resp, err := f.svc.Create(ctx, domain.CreateRequest{PropertyID: f.propertyID})
	require.NoError(t, err)
	require.Empty(t, resp.TenantName)
	require.Nil(t, resp.StartDate)
}

func TestCreateTenancyRejectsReversedDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "Bob",
		StartDate:  day(2026, 2, 1),
		EndDate:    day(2026, 1, 1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidDateOrder)
}

func TestCreateTenancyUnknownProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: snowflake.ID(42).String(),
		TenantName: "Bob",
	})
	require.ErrorIs(t, err, domain.ErrInvalidProperty)
}

func TestEndTenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "Alice",
		StartDate:  day(2026, 1, 1),
	})
	require.NoError(t, err)

	ended, err := f.svc.End(ctx, created.ID, *day(2026, 1, 20))
	require.NoError(t, err)
	require.NotNil(t, ended.EndDate)
	require.Equal(t, 20, ended.EndDate.Day())

	_, err = f.svc.End(ctx, created.ID, *day(2025, 12, 1))
	require.ErrorIs(t, err, domain.ErrInvalidDateOrder)
}

func TestListTenanciesOverlapWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "January",
		StartDate:  day(2026, 1, 1),
		EndDate:    day(2026, 1, 31),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "OpenEnded",
		StartDate:  day(2026, 2, 10),
	})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, domain.ListRequest{
		PropertyID:   f.propertyID,
		OverlapStart: day(2026, 2, 1),
		OverlapEnd:   day(2026, 2, 28),
	})
	require.NoError(t, err)
	require.Len(t, list.Tenancies, 1)
	require.Equal(t, "OpenEnded", list.Tenancies[0].TenantName)
}

func TestDeleteTenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		PropertyID: f.propertyID,
		TenantName: "Alice",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
