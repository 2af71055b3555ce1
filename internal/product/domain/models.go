// Package domain contains the product catalog models.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)

// Product is one sellable catalog entry. Pricing here is the list price;
// taxes are resolved separately through the tax domain.
type Product struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name      string            `gorm:"type:text;not null"`
	SKU       string            `gorm:"column:sku;type:text;not null"`
	UnitPrice float64           `gorm:"column:unit_price;type:numeric(14,2);not null;default:0"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
