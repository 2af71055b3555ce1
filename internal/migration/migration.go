// Package migration keeps the schema in sync with the domain models.
package migration

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	productdomain "github.com/bizsuite/taxkit/internal/product/domain"
	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

// Run auto-migrates every persisted model.
func Run(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&taxdomain.TaxDefinition{},
		&taxdomain.ProductTaxMapping{},
		&productdomain.Product{},
	); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}
