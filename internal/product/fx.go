package product

import (
	"go.uber.org/fx"

	"github.com/bizsuite/taxkit/internal/product/repository"
	"github.com/bizsuite/taxkit/internal/product/service"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
