package proration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestSharedFullOccupancy(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 1)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 10, res.PerTenant[0].Days)
	require.InDelta(t, 100.0, res.PerTenant[0].Amount, 1e-6)
	require.InDelta(t, 0.0, res.OwnerShare, 1e-6)
	require.InDelta(t, 100.0, res.TotalCalculated, 1e-6)
}

func TestSharedPartialVacancy(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 1), End: datePtr(2024, 1, 5)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 5, res.PerTenant[0].Days)
	require.InDelta(t, 50.0, res.PerTenant[0].Amount, 1e-6)
	require.InDelta(t, 50.0, res.OwnerShare, 1e-6)
	require.InDelta(t, 100.0, res.TotalCalculated, 1e-6)
}

func TestSharedTwoOverlappingTenants(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 40, Start: date(2024, 3, 1), End: date(2024, 3, 4)},
		[]Tenant{
			{ID: "t1", Name: "Alice", Start: date(2024, 2, 1)},
			{ID: "t2", Name: "Bob", Start: date(2024, 1, 15)},
		},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 2)
	for _, a := range res.PerTenant {
		require.Equal(t, 4, a.Days)
		require.InDelta(t, 20.0, a.Amount, 1e-6)
	}
	require.InDelta(t, 0.0, res.OwnerShare, 1e-6)
}

func TestSharedMidPeriodTurnover(t *testing.T) {
	// Alice leaves on the 5th, Bob arrives on the 8th. Days 6 and 7 are
	// vacant and land on the owner.
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{
			{ID: "t1", Name: "Alice", Start: date(2023, 12, 1), End: datePtr(2024, 1, 5)},
			{ID: "t2", Name: "Bob", Start: date(2024, 1, 8)},
		},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 2)
	require.Equal(t, 5, res.PerTenant[0].Days)
	require.InDelta(t, 50.0, res.PerTenant[0].Amount, 1e-6)
	require.Equal(t, 3, res.PerTenant[1].Days)
	require.InDelta(t, 30.0, res.PerTenant[1].Amount, 1e-6)
	require.InDelta(t, 20.0, res.OwnerShare, 1e-6)
	require.InDelta(t, 100.0, res.TotalCalculated, 1e-6)
}

func TestSharedSumInvariant(t *testing.T) {
	tenants := []Tenant{
		{ID: "a", Name: "A", Start: date(2024, 1, 3), End: datePtr(2024, 1, 20)},
		{ID: "b", Name: "B", Start: date(2024, 1, 10)},
		{ID: "c", Name: "C", Start: date(2023, 11, 1), End: datePtr(2024, 1, 7)},
	}
	res, err := Calculate(
		Period{Amount: 123.45, Start: date(2024, 1, 1), End: date(2024, 1, 31)},
		tenants,
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)

	sum := res.OwnerShare
	for _, a := range res.PerTenant {
		sum += a.Amount
	}
	require.InDelta(t, 123.45, sum, 1e-6)
	require.InDelta(t, res.TotalCalculated, sum, 1e-6)
}

func TestSharedDayAttributionIsExhaustive(t *testing.T) {
	// A day with an active tenant is split among the actives; a vacant day
	// costs exactly one daily unit to the owner. Never both, never neither.
	amount := 310.0 // 10 per day over 31 days
	res, err := Calculate(
		Period{Amount: amount, Start: date(2024, 1, 1), End: date(2024, 1, 31)},
		[]Tenant{{ID: "a", Name: "A", Start: date(2024, 1, 11), End: datePtr(2024, 1, 20)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Equal(t, 10, res.PerTenant[0].Days)
	vacantDays := res.OwnerShare / 10.0
	require.InDelta(t, 21.0, vacantDays, 1e-6)
	require.InDelta(t, 31.0, float64(res.PerTenant[0].Days)+vacantDays, 1e-6)
}

func TestSharedIgnoresNamelessAndStartlessTenants(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{
			{ID: "t1", Name: "Alice", Start: date(2024, 1, 1)},
			{ID: "t2", Name: "", Start: date(2024, 1, 1)},
			{ID: "t3", Name: "Ghost"},
		},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, "Alice", res.PerTenant[0].Name)
	require.InDelta(t, 100.0, res.PerTenant[0].Amount, 1e-6)
}

func TestSingleDayPeriod(t *testing.T) {
	require.Equal(t, 1, InclusiveDays(date(2024, 1, 1), date(2024, 1, 1)))

	res, err := Calculate(
		Period{Amount: 10, Start: date(2024, 1, 1), End: date(2024, 1, 1)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 1), End: datePtr(2024, 1, 1)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 1, res.PerTenant[0].Days)
	require.InDelta(t, 10.0, res.PerTenant[0].Amount, 1e-6)
}

func TestSingleDayStayInsidePeriod(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 5), End: datePtr(2024, 1, 5)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 1, res.PerTenant[0].Days)
	require.InDelta(t, 10.0, res.PerTenant[0].Amount, 1e-6)
	require.InDelta(t, 90.0, res.OwnerShare, 1e-6)
}

func TestNoonNormalizationIgnoresTimeOfDay(t *testing.T) {
	// Late-evening start and early-morning end still count whole days.
	start := time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 5, 0, 0, time.UTC)
	require.Equal(t, 10, InclusiveDays(start, end))

	res, err := Calculate(
		Period{Amount: 100, Start: start, End: end},
		[]Tenant{{ID: "t1", Name: "Alice", Start: time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.Equal(t, 10, res.PerTenant[0].Days)
}

func TestFixedSurplus(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 250, Start: date(2024, 4, 1), End: date(2024, 4, 30)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 4, 1), End: datePtr(2024, 4, 30)}},
		Config{Mode: ModeFixed, FixedMonthlyAmount: 300},
	)
	require.NoError(t, err)
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 30, res.PerTenant[0].Days)
	require.InDelta(t, 300.0, res.PerTenant[0].Amount, 1e-6)
	require.InDelta(t, 300.0, res.TotalCalculated, 1e-6)
	require.InDelta(t, 50.0, res.OwnerShare, 1e-6)
}

func TestFixedShortfall(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 400, Start: date(2024, 4, 1), End: date(2024, 4, 30)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 4, 1), End: datePtr(2024, 4, 30)}},
		Config{Mode: ModeFixed, FixedMonthlyAmount: 300},
	)
	require.NoError(t, err)
	require.InDelta(t, 300.0, res.TotalCalculated, 1e-6)
	require.InDelta(t, -100.0, res.OwnerShare, 1e-6)
}

func TestFixedTenantFeeOverride(t *testing.T) {
	fee := 600.0
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 4, 1), End: date(2024, 4, 15)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 4, 1), FixedFee: &fee}},
		Config{Mode: ModeFixed, FixedMonthlyAmount: 300},
	)
	require.NoError(t, err)
	// 15 days at 600/30 = 20 per day.
	require.Equal(t, 15, res.PerTenant[0].Days)
	require.InDelta(t, 300.0, res.PerTenant[0].Amount, 1e-6)
}

func TestFixedDefaultsAbsentDatesToPeriodBounds(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 4, 1), End: date(2024, 4, 30)},
		[]Tenant{{ID: "t1", Name: ""}},
		Config{Mode: ModeFixed, FixedMonthlyAmount: 300},
	)
	require.NoError(t, err)
	// Even a nameless, dateless row participates in fixed mode, covering
	// the whole period by default.
	require.Len(t, res.PerTenant, 1)
	require.Equal(t, 30, res.PerTenant[0].Days)
	require.InDelta(t, 300.0, res.TotalCalculated, 1e-6)
}

func TestFixedStayOutsidePeriodContributesNothing(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 4, 1), End: date(2024, 4, 30)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 6, 1), End: datePtr(2024, 6, 30)}},
		Config{Mode: ModeFixed, FixedMonthlyAmount: 300},
	)
	require.NoError(t, err)
	require.Empty(t, res.PerTenant)
	require.InDelta(t, 0.0, res.TotalCalculated, 1e-6)
	require.InDelta(t, -100.0, res.OwnerShare, 1e-6)
}

func TestValidationRejections(t *testing.T) {
	tenants := []Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 1)}}

	_, err := Calculate(Period{Amount: 0, Start: date(2024, 1, 1), End: date(2024, 1, 10)}, tenants, Config{Mode: ModeShared})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Calculate(Period{Amount: -5, Start: date(2024, 1, 1), End: date(2024, 1, 10)}, tenants, Config{Mode: ModeShared})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Calculate(Period{Amount: 100}, tenants, Config{Mode: ModeShared})
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Calculate(Period{Amount: 100, Start: date(2024, 1, 10), End: date(2024, 1, 1)}, tenants, Config{Mode: ModeShared})
	require.ErrorIs(t, err, ErrPeriodOrder)

	_, err = Calculate(Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)}, tenants, Config{Mode: "hourly"})
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestCalculateIsDeterministic(t *testing.T) {
	period := Period{Amount: 77.7, Start: date(2024, 2, 1), End: date(2024, 2, 29)}
	tenants := []Tenant{
		{ID: "a", Name: "A", Start: date(2024, 2, 5), End: datePtr(2024, 2, 20)},
		{ID: "b", Name: "B", Start: date(2024, 2, 10)},
	}
	cfg := Config{Mode: ModeShared}

	first, err := Calculate(period, tenants, cfg)
	require.NoError(t, err)
	second, err := Calculate(period, tenants, cfg)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResultCarriesTrace(t *testing.T) {
	res, err := Calculate(
		Period{Amount: 100, Start: date(2024, 1, 1), End: date(2024, 1, 10)},
		[]Tenant{{ID: "t1", Name: "Alice", Start: date(2024, 1, 1)}},
		Config{Mode: ModeShared},
	)
	require.NoError(t, err)
	require.NotEmpty(t, res.Log)
	require.Contains(t, res.Log[0], "10 day(s)")
}
