// Package server exposes the HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bizsuite/taxkit/internal/config"
	obslogger "github.com/bizsuite/taxkit/internal/observability/logger"
	obsmetrics "github.com/bizsuite/taxkit/internal/observability/metrics"
	obstracing "github.com/bizsuite/taxkit/internal/observability/tracing"
	productdomain "github.com/bizsuite/taxkit/internal/product/domain"
	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware())
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type serverParams struct {
	fx.In

	Log        *zap.Logger
	Config     config.Config
	Engine     *gin.Engine
	TaxSvc     taxdomain.Service
	Quoter     taxdomain.Quoter
	ProductSvc productdomain.Service
	ProductTax taxdomain.ProductTaxRepository
}

type Server struct {
	log        *zap.Logger
	cfg        config.Config
	engine     *gin.Engine
	taxSvc     taxdomain.Service
	quoter     taxdomain.Quoter
	productSvc productdomain.Service
	productTax taxdomain.ProductTaxRepository
}

func NewServer(p serverParams) *Server {
	return &Server{
		log:        p.Log.Named("http.server"),
		cfg:        p.Config,
		engine:     p.Engine,
		taxSvc:     p.TaxSvc,
		quoter:     p.Quoter,
		productSvc: p.ProductSvc,
		productTax: p.ProductTax,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")
	v1.Use(OrgMiddleware(s.cfg))

	v1.GET("/tax-definitions", s.ListTaxDefinitions)
	v1.POST("/tax-definitions", s.CreateTaxDefinition)
	v1.PATCH("/tax-definitions/:id", s.UpdateTaxDefinition)
	v1.POST("/tax-definitions/:id/disable", s.DisableTaxDefinition)
	v1.POST("/tax-definitions/:id/default", s.SetDefaultTaxDefinition)

	v1.GET("/products", s.ListProducts)
	v1.POST("/products", s.CreateProduct)
	v1.GET("/products/:id", s.GetProduct)
	v1.GET("/products/:id/taxes", s.GetProductTaxes)
	v1.PUT("/products/:id/taxes", s.ReplaceProductTaxes)

	v1.POST("/quotes", s.CreateQuote)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
