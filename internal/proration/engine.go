// Package proration allocates a real utility invoice across the tenants who
// occupied a property during the billing period. It is pure computation: no
// storage, no clock, no ambient state.
package proration

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Mode selects which allocation policy runs.
type Mode string

const (
	// ModeShared splits the real invoice day by day among whichever tenants
	// were present that day; vacant days are charged to the owner.
	ModeShared Mode = "shared"
	// ModeFixed reconciles flat monthly fees against the real invoice and
	// reports the owner's surplus or shortfall.
	ModeFixed Mode = "fixed"
)

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrPeriodOrder   = errors.New("period_end_before_start")
	ErrInvalidMode   = errors.New("invalid_mode")
)

// Period is one real invoice to allocate across [Start, End], both days
// included.
type Period struct {
	Amount float64
	Start  time.Time
	End    time.Time
}

// Tenant is one occupant's stay interval. A nil End means the tenant is still
// present at the end of the period. FixedFee overrides the property's monthly
// rate in fixed mode; nil falls back to the configured default.
type Tenant struct {
	ID       string
	Name     string
	Start    time.Time
	End      *time.Time
	FixedFee *float64
}

// Config selects the policy and carries the property-level fixed monthly rate.
type Config struct {
	Mode               Mode
	FixedMonthlyAmount float64
}

// Allocation is one tenant's computed share.
type Allocation struct {
	TenantID string  `json:"tenant_id"`
	Name     string  `json:"name"`
	Days     int     `json:"days_present"`
	Amount   float64 `json:"amount_to_pay"`
}

// Result is the full outcome of one calculation. OwnerShare is the vacancy
// cost in shared mode and the signed collection balance in fixed mode
// (positive = owner over-collected). Allocations with a non-positive amount
// are filtered out of PerTenant; the totals still include them.
type Result struct {
	PerTenant       []Allocation `json:"per_tenant"`
	OwnerShare      float64      `json:"owner_share"`
	TotalCalculated float64      `json:"total_calculated"`
	Log             []string     `json:"log"`
}

// daysInFixedMonth is the flat month length used to derive a daily rate from a
// monthly fee. Deliberately not calendar-aware.
const daysInFixedMonth = 30

// Calculate validates the period and runs the configured allocation policy.
// Invalid amounts or dates reject the whole calculation; irregular tenant rows
// (blank name, zero start) are absorbed by the per-mode defaulting rules
// instead of erroring.
func Calculate(period Period, tenants []Tenant, cfg Config) (*Result, error) {
	if err := validate(period); err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case ModeShared:
		return calculateShared(period, tenants), nil
	case ModeFixed:
		return calculateFixed(period, tenants, cfg), nil
	default:
		return nil, ErrInvalidMode
	}
}

func validate(period Period) error {
	if period.Amount <= 0 || math.IsNaN(period.Amount) || math.IsInf(period.Amount, 0) {
		return ErrInvalidAmount
	}
	if period.Start.IsZero() || period.End.IsZero() {
		return ErrInvalidPeriod
	}
	if AtNoon(period.End).Before(AtNoon(period.Start)) {
		return ErrPeriodOrder
	}
	return nil
}

// activeOn reports whether the tenant occupies the unit on the given day.
// Tenants missing a name or a start date never count as active.
func (t Tenant) activeOn(day time.Time) bool {
	if t.Name == "" || t.Start.IsZero() {
		return false
	}
	if !SameOrBefore(t.Start, day) {
		return false
	}
	if t.End != nil && !SameOrAfter(*t.End, day) {
		return false
	}
	return true
}

func calculateShared(period Period, tenants []Tenant) *Result {
	totalDays := InclusiveDays(period.Start, period.End)
	dailyCost := period.Amount / float64(totalDays)

	days := make([]int, len(tenants))
	amounts := make([]float64, len(tenants))
	var ownerShare float64

	start := AtNoon(period.Start)
	for d := 0; d < totalDays; d++ {
		day := start.AddDate(0, 0, d)

		active := 0
		for i := range tenants {
			if tenants[i].activeOn(day) {
				active++
			}
		}

		if active == 0 {
			// Vacant day: the owner absorbs the full daily cost rather
			// than leaving it unallocated.
			ownerShare += dailyCost
			continue
		}

		share := dailyCost / float64(active)
		for i := range tenants {
			if tenants[i].activeOn(day) {
				days[i]++
				amounts[i] += share
			}
		}
	}

	res := &Result{OwnerShare: ownerShare}
	res.log("period %s..%s: %d day(s)", period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"), totalDays)
	res.log("mode shared: daily cost %.4f", dailyCost)

	total := ownerShare
	for i, t := range tenants {
		total += amounts[i]
		if amounts[i] <= 0 {
			continue
		}
		res.PerTenant = append(res.PerTenant, Allocation{
			TenantID: t.ID,
			Name:     t.Name,
			Days:     days[i],
			Amount:   amounts[i],
		})
		res.log("tenant %s: %d day(s), owes %.4f", t.Name, days[i], amounts[i])
	}
	res.TotalCalculated = total
	res.log("owner share (vacancy) %.4f, total calculated %.4f", ownerShare, total)
	return res
}

func calculateFixed(period Period, tenants []Tenant, cfg Config) *Result {
	totalDays := InclusiveDays(period.Start, period.End)

	res := &Result{}
	res.log("period %s..%s: %d day(s)", period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"), totalDays)
	res.log("mode fixed: default monthly fee %.4f", cfg.FixedMonthlyAmount)

	var totalCollection float64
	for _, t := range tenants {
		// Absent tenant bounds default to the period bounds, so a row with
		// no dates is treated as present the whole period.
		tStart := t.Start
		if tStart.IsZero() {
			tStart = period.Start
		}
		tEnd := period.End
		if t.End != nil && !t.End.IsZero() {
			tEnd = *t.End
		}

		effStart := maxDate(tStart, period.Start)
		effEnd := minDate(tEnd, period.End)

		days := 0
		if !AtNoon(effStart).After(AtNoon(effEnd)) {
			days = InclusiveDays(effStart, effEnd)
		}

		fee := cfg.FixedMonthlyAmount
		if t.FixedFee != nil {
			fee = *t.FixedFee
		}
		amount := float64(days) * fee / daysInFixedMonth
		totalCollection += amount

		if amount <= 0 {
			continue
		}
		res.PerTenant = append(res.PerTenant, Allocation{
			TenantID: t.ID,
			Name:     t.Name,
			Days:     days,
			Amount:   amount,
		})
		res.log("tenant %s: %d day(s) at %.4f/month, collects %.4f", t.Name, days, fee, amount)
	}

	balance := totalCollection - period.Amount
	res.OwnerShare = balance
	res.TotalCalculated = totalCollection

	if balance >= 0 {
		res.log("collected %.4f vs invoice %.4f: owner surplus %.4f", totalCollection, period.Amount, balance)
	} else {
		res.log("collected %.4f vs invoice %.4f: owner shortfall %.4f", totalCollection, period.Amount, -balance)
	}
	return res
}

func (r *Result) log(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}
