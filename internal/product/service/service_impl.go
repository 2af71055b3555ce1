package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bizsuite/taxkit/internal/orgcontext"
	productdomain "github.com/bizsuite/taxkit/internal/product/domain"
)

type ServiceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  productdomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  productdomain.Repository
}

func NewService(p ServiceParams) productdomain.Service {
	return &service{
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, productdomain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, productdomain.ErrInvalidName
	}

	now := time.Now().UTC()
	record := &productdomain.Product{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		SKU:       strings.TrimSpace(req.SKU),
		UnitPrice: req.UnitPrice,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]productdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, productdomain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]productdomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*productdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, productdomain.ErrInvalidOrganization
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, productdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, productdomain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func toResponse(p *productdomain.Product) productdomain.Response {
	return productdomain.Response{
		ID:             p.ID.String(),
		OrganizationID: p.OrgID.String(),
		Name:           p.Name,
		SKU:            p.SKU,
		UnitPrice:      p.UnitPrice,
		Metadata:       map[string]any(p.Metadata),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
