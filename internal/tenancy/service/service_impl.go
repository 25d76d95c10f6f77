package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/proration"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	"github.com/roomledger/roomledger/internal/tenancy/domain"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	PropertyRepo propertydomain.Repository
	Quota        quotadomain.Service `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	propertyRepo propertydomain.Repository
	quota        quotadomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("tenancy.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		propertyRepo: p.PropertyRepo,
		quota:        p.Quota,
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

	if err := checkDateOrder(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if s.quota != nil {
		if err := s.quota.CanCreateTenancy(ctx); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now(ctx)
	t := &domain.Tenancy{
		ID:         s.genID.Generate(),
		PropertyID: propertyID,
		TenantName: strings.TrimSpace(req.TenantName),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		FixedFee:   req.FixedFee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, t); err != nil {
		return nil, err
	}
	s.log.Info("tenancy created",
		zap.String("id", t.ID.String()),
		zap.String("property_id", propertyID.String()),
	)

	resp := s.toResponse(t)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	opts := domain.ListOptions{
		OverlapStart: req.OverlapStart,
		OverlapEnd:   req.OverlapEnd,
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
		resp = append(resp, s.toResponse(item))
	}
	return domain.ListResponse{Tenancies: resp}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(t)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	t, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.TenantName != nil {
		t.TenantName = strings.TrimSpace(*req.TenantName)
	}
	if req.StartDate != nil {
		t.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		t.EndDate = req.EndDate
	}
	if req.FixedFee != nil {
		t.FixedFee = req.FixedFee
	}
	if err := checkDateOrder(t.StartDate, t.EndDate); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, t); err != nil {
		return nil, err
	}

	resp := s.toResponse(t)
	return &resp, nil
}

func (s *Service) End(ctx context.Context, id string, moveOut time.Time) (*domain.Response, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkDateOrder(t.StartDate, &moveOut); err != nil {
		return nil, err
	}
	t.EndDate = &moveOut
	t.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, t); err != nil {
		return nil, err
	}
	s.log.Info("tenancy ended",
		zap.String("id", t.ID.String()),
		zap.Time("move_out", moveOut),
	)

	resp := s.toResponse(t)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, t.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Tenancy, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	t, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// checkDateOrder rejects a move-out before the move-in at day granularity.
// Either bound may be absent.
func checkDateOrder(start, end *time.Time) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	if !proration.SameOrBefore(*start, *end) {
		return domain.ErrInvalidDateOrder
	}
	return nil
}

func (s *Service) toResponse(t *domain.Tenancy) domain.Response {
	return domain.Response{
		ID:         t.ID.String(),
		PropertyID: t.PropertyID.String(),
		TenantName: t.TenantName,
		StartDate:  t.StartDate,
		EndDate:    t.EndDate,
		FixedFee:   t.FixedFee,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
