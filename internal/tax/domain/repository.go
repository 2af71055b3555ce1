package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the org-scoped tax definition catalog.
type Repository interface {
	List(ctx context.Context, orgID snowflake.ID, filter ListRequest) ([]TaxDefinition, error)
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*TaxDefinition, error)
	Create(ctx context.Context, def *TaxDefinition) error
	Update(ctx context.Context, def *TaxDefinition) error
	ClearDefault(ctx context.Context, orgID snowflake.ID) error
}

// ProductTaxRepository resolves and maintains per-product tax overrides.
type ProductTaxRepository interface {
	TaxIDs(ctx context.Context, orgID, productID snowflake.ID) ([]snowflake.ID, error)
	Replace(ctx context.Context, orgID, productID snowflake.ID, taxIDs []snowflake.ID) error
}
