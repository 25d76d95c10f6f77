package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
	"github.com/roomledger/roomledger/internal/observability"
	"github.com/roomledger/roomledger/internal/proration"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	"github.com/roomledger/roomledger/internal/utilitybill/domain"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	PropertyRepo propertydomain.Repository
	TenancyRepo  tenancydomain.Repository
	Ledger       ledgerdomain.Service
	Quota        quotadomain.Service    `optional:"true"`
	Metrics      *observability.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	propertyRepo propertydomain.Repository
	tenancyRepo  tenancydomain.Repository
	ledger       ledgerdomain.Service
	quota        quotadomain.Service
	metrics      *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("utilitybill.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		propertyRepo: p.PropertyRepo,
		tenancyRepo:  p.TenancyRepo,
		ledger:       p.Ledger,
		quota:        p.Quota,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, domain.ErrInvalidProperty
	}
	prop, err := s.propertyRepo.FindByID(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, domain.ErrInvalidProperty
	}

	supply := req.Supply
	if supply == "" {
		supply = domain.SupplyOther
	}
	if !supply.Valid() {
		return nil, domain.ErrInvalidSupply
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, domain.ErrInvalidAmount
	}

	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	bill := &domain.UtilityBill{
		ID:          s.genID.Generate(),
		PropertyID:  propertyID,
		Supply:      supply,
		Amount:      req.Amount,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      domain.BillStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, bill); err != nil {
		return nil, err
	}
	s.log.Info("utility bill created",
		zap.String("id", bill.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.String("supply", string(supply)),
	)

	resp := s.toResponse(bill, nil, nil)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	opts := domain.ListOptions{
		Status: domain.BillStatus(strings.TrimSpace(req.Status)),
		Supply: domain.Supply(strings.TrimSpace(req.Supply)),
	}
	if raw := strings.TrimSpace(req.PropertyID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidProperty
		}
		opts.PropertyID = id
	}

	items, err := s.repo.List(ctx, s.db, opts)
	if err != nil {
		return domain.ListResponse{}, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(item, nil, nil))
	}
	return domain.ListResponse{Bills: resp}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	bill, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	calc, err := s.repo.FindLatestCalculation(ctx, s.db, bill.ID)
	if err != nil {
		return nil, err
	}
	var allocations []*domain.BillAllocation
	if calc != nil {
		allocations, err = s.repo.ListAllocations(ctx, s.db, bill.ID, calc.RunID)
		if err != nil {
			return nil, err
		}
	}

	resp := s.toResponse(bill, calc, allocations)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	bill, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillStatusDraft {
		return nil, domain.ErrBillNotDraft
	}

	if req.Supply != nil {
		if !req.Supply.Valid() {
			return nil, domain.ErrInvalidSupply
		}
		bill.Supply = *req.Supply
	}
	if req.Amount != nil {
		if *req.Amount <= 0 || math.IsNaN(*req.Amount) || math.IsInf(*req.Amount, 0) {
			return nil, domain.ErrInvalidAmount
		}
		bill.Amount = *req.Amount
	}
	if req.PeriodStart != nil {
		start, err := parseDate(*req.PeriodStart)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		bill.PeriodStart = start
	}
	if req.PeriodEnd != nil {
		end, err := parseDate(*req.PeriodEnd)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		bill.PeriodEnd = end
	}
	if !proration.SameOrBefore(bill.PeriodStart, bill.PeriodEnd) {
		return nil, domain.ErrPeriodOrder
	}
	bill.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, bill); err != nil {
		return nil, err
	}

	resp := s.toResponse(bill, nil, nil)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	bill, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if bill.Status != domain.BillStatusDraft {
		return domain.ErrBillNotDraft
	}
	return s.repo.Delete(ctx, s.db, bill.ID)
}

func (s *Service) Calculate(ctx context.Context, id string) (*domain.CalculationResponse, error) {
	bill, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, err := s.propertyRepo.FindByID(ctx, s.db, bill.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, domain.ErrInvalidProperty
	}

	if s.quota != nil {
		if err := s.quota.CanCalculate(ctx); err != nil {
			return nil, err
		}
	}

	// Stays entirely outside the billing period would contribute nothing;
	// the overlap filter keeps them out of the engine input.
	tenancies, err := s.tenancyRepo.List(ctx, s.db, tenancydomain.ListOptions{
		PropertyID:   bill.PropertyID,
		OverlapStart: &bill.PeriodStart,
		OverlapEnd:   &bill.PeriodEnd,
	})
	if err != nil {
		return nil, err
	}

	result, err := proration.Calculate(
		proration.Period{Amount: bill.Amount, Start: bill.PeriodStart, End: bill.PeriodEnd},
		toEngineTenants(tenancies),
		proration.Config{
			Mode:               proration.Mode(prop.BillingMode),
			FixedMonthlyAmount: prop.FixedMonthlyAmount,
		},
	)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	runID := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	logJSON, err := json.Marshal(result.Log)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allocations := make([]domain.BillAllocation, 0, len(result.PerTenant))
		charges := make([]ledgerdomain.TenantCharge, 0, len(result.PerTenant))
		for _, a := range result.PerTenant {
			tenancyID, parseErr := snowflake.ParseString(a.TenantID)
			if parseErr != nil {
				tenancyID = 0
			}
			allocations = append(allocations, domain.BillAllocation{
				ID:         s.genID.Generate(),
				BillID:     bill.ID,
				RunID:      runID,
				TenancyID:  tenancyID,
				TenantName: a.Name,
				Days:       a.Days,
				Amount:     a.Amount,
				CreatedAt:  now,
			})
			charges = append(charges, ledgerdomain.TenantCharge{
				TenancyID:  a.TenantID,
				TenantName: a.Name,
				Amount:     a.Amount,
			})
		}

		if err := s.repo.ReplaceAllocations(ctx, tx, bill.ID, allocations); err != nil {
			return err
		}
		if err := s.repo.DeleteCalculations(ctx, tx, bill.ID); err != nil {
			return err
		}
		if err := s.repo.InsertCalculation(ctx, tx, &domain.BillCalculation{
			ID:              s.genID.Generate(),
			BillID:          bill.ID,
			RunID:           runID,
			Mode:            string(prop.BillingMode),
			OwnerShare:      result.OwnerShare,
			TotalCalculated: result.TotalCalculated,
			Log:             datatypes.JSON(logJSON),
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		bill.Status = domain.BillStatusCalculated
		bill.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, bill); err != nil {
			return err
		}

		_, err := s.ledger.PostBillCalculation(ctx, tx, ledgerdomain.PostBillCalculationInput{
			BillID:        bill.ID,
			Mode:          string(prop.BillingMode),
			InvoiceAmount: bill.Amount,
			OwnerShare:    result.OwnerShare,
			Charges:       charges,
			OccurredAt:    now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CalculationsTotal.WithLabelValues(string(prop.BillingMode)).Inc()
	}
	s.log.Info("utility bill calculated",
		zap.String("bill_id", bill.ID.String()),
		zap.String("run_id", runID),
		zap.String("mode", string(prop.BillingMode)),
		zap.Float64("owner_share", result.OwnerShare),
	)

	return &domain.CalculationResponse{
		BillID: bill.ID.String(),
		RunID:  runID,
		Mode:   string(prop.BillingMode),
		Result: *result,
	}, nil
}

func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) (*proration.Result, error) {
	start, end, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	tenants := make([]proration.Tenant, 0, len(req.Tenants))
	for _, t := range req.Tenants {
		tenant := proration.Tenant{ID: t.ID, Name: t.Name, FixedFee: t.FixedFee}
		if raw := strings.TrimSpace(t.StartDate); raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				return nil, domain.ErrInvalidDate
			}
			tenant.Start = d
		}
		if raw := strings.TrimSpace(t.EndDate); raw != "" {
			d, err := parseDate(raw)
			if err != nil {
				return nil, domain.ErrInvalidDate
			}
			tenant.End = &d
		}
		tenants = append(tenants, tenant)
	}

	mode := proration.Mode(strings.TrimSpace(req.Mode))
	result, err := proration.Calculate(
		proration.Period{Amount: req.Amount, Start: start, End: end},
		tenants,
		proration.Config{Mode: mode, FixedMonthlyAmount: req.FixedMonthlyAmount},
	)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CalculationsTotal.WithLabelValues(string(mode)).Inc()
	}
	return result, nil
}

func toEngineTenants(tenancies []*tenancydomain.Tenancy) []proration.Tenant {
	tenants := make([]proration.Tenant, 0, len(tenancies))
	for _, t := range tenancies {
		tenant := proration.Tenant{
			ID:       t.ID.String(),
			Name:     t.TenantName,
			End:      t.EndDate,
			FixedFee: t.FixedFee,
		}
		if t.StartDate != nil {
			tenant.Start = *t.StartDate
		}
		tenants = append(tenants, tenant)
	}
	return tenants
}

func (s *Service) find(ctx context.Context, id string) (*domain.UtilityBill, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	bill, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	return bill, nil
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}

func parsePeriod(rawStart, rawEnd string) (time.Time, time.Time, error) {
	if strings.TrimSpace(rawStart) == "" || strings.TrimSpace(rawEnd) == "" {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	start, err := parseDate(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	if !proration.SameOrBefore(start, end) {
		return time.Time{}, time.Time{}, domain.ErrPeriodOrder
	}
	return start, end, nil
}

func (s *Service) toResponse(bill *domain.UtilityBill, calc *domain.BillCalculation, allocations []*domain.BillAllocation) domain.Response {
	resp := domain.Response{
		ID:          bill.ID.String(),
		PropertyID:  bill.PropertyID.String(),
		Supply:      bill.Supply,
		Amount:      bill.Amount,
		PeriodStart: bill.PeriodStart.Format(dateLayout),
		PeriodEnd:   bill.PeriodEnd.Format(dateLayout),
		Status:      bill.Status,
		CreatedAt:   bill.CreatedAt,
		UpdatedAt:   bill.UpdatedAt,
	}
	if calc == nil {
		return resp
	}

	view := &domain.CalculationView{
		RunID:           calc.RunID,
		Mode:            calc.Mode,
		OwnerShare:      calc.OwnerShare,
		TotalCalculated: calc.TotalCalculated,
		CreatedAt:       calc.CreatedAt,
	}
	if len(calc.Log) > 0 {
		_ = json.Unmarshal(calc.Log, &view.Log)
	}
	for _, a := range allocations {
		view.Allocations = append(view.Allocations, domain.AllocationView{
			TenancyID:  a.TenancyID.String(),
			TenantName: a.TenantName,
			Days:       a.Days,
			Amount:     a.Amount,
		})
	}
	resp.Calculation = view
	return resp
}
