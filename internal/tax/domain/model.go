package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxDefinition is an org-scoped tax rate.
// NOTE:
// - code is a stable, engine-facing identifier (immutable once created)
// - name is UI-facing and editable
// - rate is a percentage in [0, 100], possibly fractional
type TaxDefinition struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Code string  `gorm:"type:text;not null"`
	Name string  `gorm:"type:text;not null"`
	Rate float64 `gorm:"type:numeric(7,4);not null"`

	// IsDefault marks the organization's default tax, applied when no
	// product carries its own tax mapping.
	IsDefault bool `gorm:"column:is_default;not null;default:false"`
	IsActive  bool `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxDefinition) TableName() string { return "tax_definitions" }

func (t *TaxDefinition) Validate() error {
	if t.Code == "" {
		return ErrInvalidTaxCode
	}
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Rate < 0 || t.Rate > 100 {
		return ErrInvalidTaxRate
	}
	return nil
}

// ProductTaxMapping associates one product with one tax definition.
// Products with at least one mapping override the org defaults.
type ProductTaxMapping struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	OrgID     snowflake.ID `gorm:"column:org_id;not null;index;uniqueIndex:ux_product_tax"`
	ProductID snowflake.ID `gorm:"column:product_id;not null;index;uniqueIndex:ux_product_tax"`
	TaxID     snowflake.ID `gorm:"column:tax_id;not null;uniqueIndex:ux_product_tax"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ProductTaxMapping) TableName() string { return "product_tax_mappings" }
