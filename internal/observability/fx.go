// Package observability wires tracing and metrics providers.
package observability

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"

	"github.com/bizsuite/taxkit/internal/observability/metrics"
	"github.com/bizsuite/taxkit/internal/observability/tracing"
	"github.com/bizsuite/taxkit/pkg/log"
)

var Module = fx.Module("observability",
	log.Module,
	fx.Provide(
		tracing.NewProvider,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}
