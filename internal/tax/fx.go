package tax

import (
	"go.uber.org/fx"

	"github.com/bizsuite/taxkit/internal/tax/repository"
	"github.com/bizsuite/taxkit/internal/tax/service"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewProductTaxRepository),
	fx.Provide(service.NewCatalogCache),
	fx.Provide(service.NewQuoter),
	fx.Provide(service.NewService),
)
