package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bizsuite/taxkit/internal/orgcontext"
	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

type ServiceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
	Cache *CatalogCache
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
	cache *CatalogCache
}

func NewService(p ServiceParams) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
		cache: p.Cache,
	}
}

func (s *Service) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	filter := taxdomain.ListRequest{
		Code:     strings.TrimSpace(req.Code),
		Name:     strings.TrimSpace(req.Name),
		IsActive: req.IsActive,
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]taxdomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	record := &taxdomain.TaxDefinition{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if record.IsDefault {
		if err := s.repo.ClearDefault(ctx, orgID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.cache.Invalidate(orgID)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req taxdomain.UpdateRequest) (*taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	item, err := s.find(ctx, orgID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, taxdomain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}

	item.UpdatedAt = time.Now().UTC()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Invalidate(orgID)

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, id string) (*taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	item, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	item.IsActive = false
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Invalidate(orgID)

	resp := toResponse(item)
	return &resp, nil
}

// SetDefault marks one definition as the org default and clears the flag
// everywhere else.
func (s *Service) SetDefault(ctx context.Context, id string) (*taxdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	item, err := s.find(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClearDefault(ctx, orgID); err != nil {
		return nil, err
	}
	item.IsDefault = true
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Invalidate(orgID)

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, orgID snowflake.ID, id string) (*taxdomain.TaxDefinition, error) {
	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, orgID, defID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, taxdomain.ErrNotFound
	}
	return item, nil
}

func toResponse(def *taxdomain.TaxDefinition) taxdomain.Response {
	return taxdomain.Response{
		ID:             def.ID.String(),
		OrganizationID: def.OrgID.String(),
		Code:           def.Code,
		Name:           def.Name,
		Rate:           def.Rate,
		IsDefault:      def.IsDefault,
		IsActive:       def.IsActive,
		CreatedAt:      def.CreatedAt,
		UpdatedAt:      def.UpdatedAt,
	}
}
