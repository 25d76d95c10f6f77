package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/clock"
	"github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Quota quotadomain.Service `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	quota quotadomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("property.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		quota: p.Quota,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.BillingMode.Valid() {
		return nil, domain.ErrInvalidBillingMode
	}
	if req.BillingMode == domain.BillingModeFixed && (req.FixedMonthlyAmount <= 0 || math.IsNaN(req.FixedMonthlyAmount)) {
		return nil, domain.ErrInvalidFixedAmount
	}

	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, s.db, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			resp := s.toResponse(existing)
			return &resp, nil
		}
	}

	if s.quota != nil {
		if err := s.quota.CanCreateProperty(ctx); err != nil {
			return nil, err
		}
	}

	id := s.genID.Generate()
	code, err := s.uniqueCode(ctx, name, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	prop := &domain.Property{
		ID:                 id,
		Code:               code,
		Name:               name,
		Address:            strings.TrimSpace(req.Address),
		BillingMode:        req.BillingMode,
		FixedMonthlyAmount: req.FixedMonthlyAmount,
		Active:             true,
		Metadata:           req.Metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		prop.IdempotencyKey = &key
	}

	if err := s.repo.Insert(ctx, s.db, prop); err != nil {
		return nil, err
	}
	s.log.Info("property created", zap.String("id", id.String()), zap.String("code", code))

	resp := s.toResponse(prop)
	return &resp, nil
}

// uniqueCode slugifies the name and suffixes the snowflake when the slug is
// already taken.
func (s *Service) uniqueCode(ctx context.Context, name string, id snowflake.ID) (string, error) {
	code := slug.Make(name)
	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return code, nil
	}
	return code + "-" + id.String(), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListOptions{
		Name:   strings.TrimSpace(req.Name),
		Active: req.Active,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(item))
	}
	return domain.ListResponse{Properties: resp}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	prop, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(prop)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	prop, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		prop.Name = name
	}
	if req.Address != nil {
		prop.Address = strings.TrimSpace(*req.Address)
	}
	if req.BillingMode != nil {
		if !req.BillingMode.Valid() {
			return nil, domain.ErrInvalidBillingMode
		}
		prop.BillingMode = *req.BillingMode
	}
	if req.FixedMonthlyAmount != nil {
		if *req.FixedMonthlyAmount < 0 || math.IsNaN(*req.FixedMonthlyAmount) {
			return nil, domain.ErrInvalidFixedAmount
		}
		prop.FixedMonthlyAmount = *req.FixedMonthlyAmount
	}
	if req.Metadata != nil {
		prop.Metadata = req.Metadata
	}
	prop.UpdatedAt = s.clock.Now(ctx)

	if err := s.repo.Update(ctx, s.db, prop); err != nil {
		return nil, err
	}

	resp := s.toResponse(prop)
	return &resp, nil
}

func (s *Service) Archive(ctx context.Context, id string) (*domain.Response, error) {
	prop, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	prop.Active = false
	prop.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, prop); err != nil {
		return nil, err
	}
	s.log.Info("property archived", zap.String("id", prop.ID.String()))

	resp := s.toResponse(prop)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Property, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	prop, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, domain.ErrNotFound
	}
	return prop, nil
}

func (s *Service) toResponse(p *domain.Property) domain.Response {
	return domain.Response{
		ID:                 p.ID.String(),
		Code:               p.Code,
		Name:               p.Name,
		Address:            p.Address,
		BillingMode:        p.BillingMode,
		FixedMonthlyAmount: p.FixedMonthlyAmount,
		Active:             p.Active,
		Metadata:           p.Metadata,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
