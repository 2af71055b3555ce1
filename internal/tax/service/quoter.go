package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bizsuite/taxkit/internal/orgcontext"
	"github.com/bizsuite/taxkit/internal/tax/calc"
	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

// productLookupConcurrency bounds concurrent override lookups per quote.
const productLookupConcurrency = 4

type QuoterParams struct {
	fx.In

	Log          *zap.Logger
	Repo         taxdomain.Repository
	ProductTaxes taxdomain.ProductTaxRepository
	Cache        *CatalogCache
}

type quoter struct {
	log          *zap.Logger
	repo         taxdomain.Repository
	productTaxes taxdomain.ProductTaxRepository
	cache        *CatalogCache
	tracer       trace.Tracer
}

// NewQuoter wires the quote orchestrator. It is the only layer that
// touches storage; the arithmetic below it is pure.
func NewQuoter(p QuoterParams) taxdomain.Quoter {
	return &quoter{
		log:          p.Log.Named("tax.quoter"),
		repo:         p.Repo,
		productTaxes: p.ProductTaxes,
		cache:        p.Cache,
		tracer:       otel.Tracer("taxkit/tax"),
	}
}

func (q *quoter) Quote(ctx context.Context, req taxdomain.QuoteRequest) (*taxdomain.QuoteResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, taxdomain.ErrInvalidOrganization
	}

	ctx, span := q.tracer.Start(ctx, "tax.quote", trace.WithAttributes(
		attribute.Int("tax.item_count", len(req.Items)),
		attribute.Bool("tax.included", req.TaxIncluded),
	))
	defer span.End()

	catalog := req.Catalog
	if catalog == nil {
		var err error
		catalog, err = q.loadCatalog(ctx, orgID)
		if err != nil {
			// Proceeding without a catalog would silently price with
			// zero taxes, so this failure is surfaced to the caller.
			span.RecordError(err)
			return nil, fmt.Errorf("%w: %v", taxdomain.ErrCatalogUnavailable, err)
		}
	}

	applied, err := q.resolveApplied(ctx, orgID, req.Items, catalog)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tax.applied_count", len(applied)))

	rates := make([]calc.Rate, 0, len(catalog))
	defByID := make(map[string]taxdomain.TaxDefinition, len(catalog))
	for _, def := range catalog {
		id := def.ID.String()
		defByID[id] = def
		rates = append(rates, calc.Rate{
			ID:      id,
			Name:    def.Name,
			Percent: decimal.NewFromFloat(def.Rate),
		})
	}

	items := make([]calc.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, calc.LineItem{
			ProductID: it.ProductID,
			Quantity:  decimal.NewFromFloat(it.Quantity),
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
		})
	}

	res := calc.CartTaxes(items, applied, rates, req.TaxIncluded)

	breakdown := make([]taxdomain.QuoteTaxLine, 0, len(res.Breakdown))
	for _, line := range res.Breakdown {
		breakdown = append(breakdown, taxdomain.QuoteTaxLine{
			TaxID:      line.TaxID,
			Code:       defByID[line.TaxID].Code,
			Name:       line.Name,
			Rate:       line.Rate.InexactFloat64(),
			BaseAmount: line.Base.InexactFloat64(),
			TaxAmount:  line.Amount.InexactFloat64(),
		})
	}

	return &taxdomain.QuoteResult{
		Subtotal:       res.Subtotal.InexactFloat64(),
		TotalTaxAmount: res.TaxTotal.InexactFloat64(),
		FinalTotal:     res.GrandTotal.InexactFloat64(),
		TaxBreakdown:   breakdown,
		AppliedTaxes:   applied,
		TaxIncluded:    req.TaxIncluded,
	}, nil
}

func (q *quoter) loadCatalog(ctx context.Context, orgID snowflake.ID) ([]taxdomain.TaxDefinition, error) {
	if defs, ok := q.cache.Get(orgID); ok {
		return defs, nil
	}
	defs, err := q.repo.List(ctx, orgID, taxdomain.ListRequest{})
	if err != nil {
		return nil, err
	}
	q.cache.Set(orgID, defs)
	return defs, nil
}

// resolveApplied decides which taxes apply to the cart. If any product
// in the cart carries its own tax mappings, the union of those mappings
// governs the whole cart and org defaults are not added on top.
// Otherwise every catalog entry flagged is_default applies.
func (q *quoter) resolveApplied(ctx context.Context, orgID snowflake.ID, items []taxdomain.QuoteItem, catalog []taxdomain.TaxDefinition) (calc.Selection, error) {
	productIDs := distinctProductIDs(items)

	overrides := make([][]snowflake.ID, len(productIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(productLookupConcurrency)
	for i, productID := range productIDs {
		g.Go(func() error {
			ids, err := q.productTaxes.TaxIDs(gctx, orgID, productID)
			if err != nil {
				// A single product's lookup failure degrades to "no
				// override"; it must never block the quote.
				q.log.Warn("product tax lookup failed",
					zap.String("org_id", orgID.String()),
					zap.String("product_id", productID.String()),
					zap.Error(err),
				)
				return nil
			}
			overrides[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	applied := make(calc.Selection)
	for _, ids := range overrides {
		for _, id := range ids {
			applied[id.String()] = true
		}
	}
	if len(applied) > 0 {
		return applied, nil
	}

	for _, def := range catalog {
		if def.IsDefault {
			applied[def.ID.String()] = true
		}
	}
	return applied, nil
}

func distinctProductIDs(items []taxdomain.QuoteItem) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(items))
	var ids []snowflake.ID
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		id, err := snowflake.ParseString(it.ProductID)
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
