package observability

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.InDelta(t, 1.0, cfg.SampleRate, 1e-9)
	assert.Equal(t, 15*time.Second, cfg.Interval)
	require.NoError(t, cfg.Validate())

	cfg.SampleRate = 1.5
	assert.ErrorContains(t, cfg.Validate(), "sample_rate")
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description(), sampler(0.5).Description())
}

func TestNewResource(t *testing.T) {
	res, err := newResource("linqsamples", "1.0.0", "test")
	require.NoError(t, err)
	attrs := attrMap(res.Attributes())
	assert.Equal(t, "linqsamples", attrs[AttrServiceName].AsString())
	assert.Equal(t, "test", attrs[AttrEnvironment].AsString())
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{}, "svc", "dev", "test")
	require.NoError(t, err)
	assert.Nil(t, p.Tracer)
	assert.Nil(t, p.Meter)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_Enabled(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	cfg.Insecure = true
	p, err := Setup(context.Background(), cfg, "svc", "dev", "test")
	require.NoError(t, err)
	assert.NotNil(t, p.Tracer)
	assert.NotNil(t, p.Meter)
	assert.Same(t, p.Tracer, otel.GetTracerProvider())

	// No collector is listening; shutdown may fail to export but must return.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = p.Shutdown(ctx)
}

func TestStartSpanAndAttributes(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartSpan(context.Background(), SpanQuery)
	SetSpanAttribute(ctx, "s", "v")
	SetSpanAttribute(ctx, "i", 3)
	SetSpanAttribute(ctx, "b", true)
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, stderrors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "v", attrs["s"].AsString())
	assert.Equal(t, int64(3), attrs["i"].AsInt64())
	assert.True(t, attrs["b"].AsBool())
	assert.NotContains(t, attrs, "ignored")
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.Len(t, ended[0].Events(), 1)
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "k", "v")
	SetSpanError(ctx, stderrors.New("x"))
	assert.False(t, trace.SpanFromContext(ctx).IsRecording())
}

func TestNewSampleMetrics_Noop(t *testing.T) {
	m, err := NewSampleMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	m.RecordRun(context.Background(), "s", "c", "", 2, time.Millisecond)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	data, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range data.DataPoints {
		total += dp.Value
	}
	return total
}

func TestSampleRun(t *testing.T) {
	recorder := recordSpans(t)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewSampleMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	okCtx, ok := StartSampleRun(ctx, metrics, "run-1", "where-in-stock", "Restriction")
	assert.True(t, trace.SpanFromContext(okCtx).IsRecording())
	ok.End(okCtx, nil, "", 5)

	failCtx, failed := StartSampleRun(ctx, metrics, "run-1", "city-statistics", "Aggregation")
	elapsed := failed.End(failCtx, stderrors.New("empty"), "EMPTY_SEQUENCE", 0)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	first := attrMap(spans[0].Attributes())
	assert.Equal(t, SpanSampleRun, spans[0].Name())
	assert.Equal(t, "run-1", first[AttrRunID].AsString())
	assert.Equal(t, StatusOK, first[AttrStatus].AsString())
	assert.Equal(t, int64(5), first[AttrElements].AsInt64())

	second := attrMap(spans[1].Attributes())
	assert.Equal(t, StatusFailed, second[AttrStatus].AsString())
	assert.Equal(t, "EMPTY_SEQUENCE", second[AttrErrorCode].AsString())
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["sample.runs"]))
	assert.Equal(t, int64(1), sumOf(t, got["sample.failures"]))
	assert.Equal(t, int64(5), sumOf(t, got["sample.elements"]))
	assert.Contains(t, got, "sample.duration")
}

func TestSampleRun_NilMetrics(t *testing.T) {
	ctx, run := StartSampleRun(context.Background(), nil, "r", "s", "c")
	assert.NotPanics(t, func() { run.End(ctx, nil, "", 0) })
}
