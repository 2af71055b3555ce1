package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/bizsuite/taxkit/internal/config"
	"github.com/bizsuite/taxkit/internal/migration"
	"github.com/bizsuite/taxkit/internal/observability"
	"github.com/bizsuite/taxkit/internal/product"
	"github.com/bizsuite/taxkit/internal/server"
	"github.com/bizsuite/taxkit/internal/tax"
	"github.com/bizsuite/taxkit/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		tax.Module,
		product.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
