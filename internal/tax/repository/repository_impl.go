package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns the gorm-backed tax definition catalog.
func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter taxdomain.ListRequest) ([]taxdomain.TaxDefinition, error) {
	var items []taxdomain.TaxDefinition
	stmt := r.db.WithContext(ctx).
		Model(&taxdomain.TaxDefinition{}).
		Where("org_id = ?", orgID)

	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "rate", "created_at", "updated_at":
	default:
		sortBy = "id"
	}
	order := "ASC"
	if filter.OrderBy == "desc" {
		order = "DESC"
	}
	stmt = stmt.Order(sortBy + " " + order)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*taxdomain.TaxDefinition, error) {
	var def taxdomain.TaxDefinition
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Take(&def).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repository) Create(ctx context.Context, def *taxdomain.TaxDefinition) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *repository) Update(ctx context.Context, def *taxdomain.TaxDefinition) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tax_definitions
		 SET name = ?, rate = ?, is_default = ?, is_active = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		def.Name,
		def.Rate,
		def.IsDefault,
		def.IsActive,
		def.UpdatedAt,
		def.OrgID,
		def.ID,
	).Error
}

func (r *repository) ClearDefault(ctx context.Context, orgID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE tax_definitions SET is_default = false WHERE org_id = ? AND is_default = true`,
		orgID,
	).Error
}

type productTaxRepository struct {
	db    *gorm.DB
	genID *snowflake.Node
}

// NewProductTaxRepository returns the gorm-backed product tax override store.
func NewProductTaxRepository(db *gorm.DB, genID *snowflake.Node) taxdomain.ProductTaxRepository {
	return &productTaxRepository{db: db, genID: genID}
}

func (r *productTaxRepository) TaxIDs(ctx context.Context, orgID, productID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&taxdomain.ProductTaxMapping{}).
		Where("org_id = ? AND product_id = ?", orgID, productID).
		Order("tax_id ASC").
		Pluck("tax_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *productTaxRepository) Replace(ctx context.Context, orgID, productID snowflake.ID, taxIDs []snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("org_id = ? AND product_id = ?", orgID, productID).
			Delete(&taxdomain.ProductTaxMapping{}).Error; err != nil {
			return err
		}
		for _, taxID := range taxIDs {
			mapping := taxdomain.ProductTaxMapping{
				ID:        r.genID.Generate(),
				OrgID:     orgID,
				ProductID: productID,
				TaxID:     taxID,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
