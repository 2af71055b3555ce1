package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	List(ctx context.Context, orgID snowflake.ID) ([]Product, error)
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Product, error)
	Create(ctx context.Context, product *Product) error
}
