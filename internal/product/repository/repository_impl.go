package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	productdomain "github.com/bizsuite/taxkit/internal/product/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) productdomain.Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID) ([]productdomain.Product, error) {
	var items []productdomain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*productdomain.Product, error) {
	var product productdomain.Product
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Take(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *productdomain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}
