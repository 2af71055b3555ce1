package domain

import (
	"context"
	"time"
)

// Service manages the org tax catalog.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
	SetDefault(ctx context.Context, id string) (*Response, error)
}

// Quoter prices a cart: it resolves which taxes apply (product overrides
// take precedence over org defaults) and computes the totals.
type Quoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
}

type ListRequest struct {
	Code     string
	Name     string
	IsActive *bool
	SortBy   string
	OrderBy  string
}

type CreateRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	IsDefault bool    `json:"is_default"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateRequest struct {
	ID   string   `json:"id"`
	Name *string  `json:"name,omitempty"`
	Rate *float64 `json:"rate,omitempty"`
}

type Response struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Rate           float64   `json:"rate"`
	IsDefault      bool      `json:"is_default"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuoteItem is one line of the cart to price. ProductID may be empty for
// ad hoc lines; such lines never carry a product tax override.
type QuoteItem struct {
	ProductID string  `json:"product_id,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// QuoteRequest carries the cart plus the pricing mode. Catalog, when
// non-nil, is used as-is instead of fetching the org catalog; callers
// use it to replay a quote against a known rate set.
type QuoteRequest struct {
	Items       []QuoteItem     `json:"items"`
	TaxIncluded bool            `json:"tax_included"`
	Catalog     []TaxDefinition `json:"-"`
}

// QuoteTaxLine is one entry of the cart tax breakdown.
type QuoteTaxLine struct {
	TaxID      string  `json:"tax_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Rate       float64 `json:"rate"`
	BaseAmount float64 `json:"base_amount"`
	TaxAmount  float64 `json:"tax_amount"`
}

// QuoteResult is the priced cart. AppliedTaxes echoes the resolved
// selection so callers can display which taxes were used.
type QuoteResult struct {
	Subtotal       float64         `json:"subtotal"`
	TotalTaxAmount float64         `json:"total_tax_amount"`
	FinalTotal     float64         `json:"final_total"`
	TaxBreakdown   []QuoteTaxLine  `json:"tax_breakdown"`
	AppliedTaxes   map[string]bool `json:"applied_taxes"`
	TaxIncluded    bool            `json:"tax_included"`
}
