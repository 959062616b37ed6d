package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kbukum/linqkit/logger"
)

// initMeter pushes metrics to the OTLP HTTP collector every cfg.Interval and
// installs the provider globally.
func initMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	logger.Info("meter initialized", logger.Fields("endpoint", cfg.Endpoint, "interval", cfg.Interval.String()))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// SampleMetrics holds the instruments recorded for every sample run.
type SampleMetrics struct {
	runs     metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
	elements metric.Int64Counter
}

// NewSampleMetrics creates the sample instruments on meter.
func NewSampleMetrics(meter metric.Meter) (*SampleMetrics, error) {
	runs, err := meter.Int64Counter("sample.runs",
		metric.WithDescription("Sample executions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.runs counter: %w", err)
	}

	failures, err := meter.Int64Counter("sample.failures",
		metric.WithDescription("Failed sample executions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.failures counter: %w", err)
	}

	duration, err := meter.Float64Histogram("sample.duration",
		metric.WithDescription("Duration of sample executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.duration histogram: %w", err)
	}

	elements, err := meter.Int64Counter("sample.elements",
		metric.WithDescription("Records written by samples"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.elements counter: %w", err)
	}

	return &SampleMetrics{
		runs:     runs,
		failures: failures,
		duration: duration,
		elements: elements,
	}, nil
}

// RecordRun records one finished sample execution. errCode is empty on
// success.
func (m *SampleMetrics) RecordRun(ctx context.Context, sample, category, errCode string, elements int, d time.Duration) {
	status := StatusOK
	if errCode != "" {
		status = StatusFailed
	}
	base := []attribute.KeyValue{
		attribute.String(AttrSample, sample),
		attribute.String(AttrCategory, category),
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(AttrStatus, status))...))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(base...))
	if elements > 0 {
		m.elements.Add(ctx, int64(elements), metric.WithAttributes(base...))
	}
	if errCode != "" {
		m.failures.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(AttrErrorCode, errCode))...))
	}
}

// Run outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
