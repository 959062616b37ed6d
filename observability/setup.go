package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/linqkit/logger"
)

// Providers holds the SDK providers installed by Setup. Both are nil when
// telemetry is disabled, in which case the global no-op providers stay in
// place.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Setup installs the tracer and meter providers described by cfg.
func Setup(ctx context.Context, cfg Config, service, version, environment string) (*Providers, error) {
	if !cfg.Enabled {
		logger.Debug("telemetry disabled")
		return &Providers{}, nil
	}
	res, err := newResource(service, version, environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	tp, err := initTracer(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	mp, err := initMeter(ctx, cfg, res)
	if err != nil {
		return nil, stderrors.Join(err, tp.Shutdown(ctx))
	}
	return &Providers{Tracer: tp, Meter: mp}, nil
}

// Shutdown flushes and stops whichever providers were installed.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
