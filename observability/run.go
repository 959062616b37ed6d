package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SampleRun tracks one traced and measured sample execution.
type SampleRun struct {
	RunID     string
	Sample    string
	Category  string
	StartTime time.Time
	Metrics   *SampleMetrics

	span trace.Span
}

// StartSampleRun opens a sample.run span carrying the run id, sample name and
// category. If metrics is nil, metric recording is skipped.
func StartSampleRun(ctx context.Context, metrics *SampleMetrics, runID, sample, category string) (context.Context, *SampleRun) {
	ctx, span := StartSpan(ctx, SpanSampleRun, trace.WithAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrSample, sample),
		attribute.String(AttrCategory, category),
	))
	return ctx, &SampleRun{
		RunID:     runID,
		Sample:    sample,
		Category:  category,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// End closes the span and records the run. errCode is empty on success.
func (r *SampleRun) End(ctx context.Context, err error, errCode string, elements int) time.Duration {
	duration := time.Since(r.StartTime)

	status := StatusOK
	if err != nil {
		status = StatusFailed
		SetSpanError(trace.ContextWithSpan(ctx, r.span), err)
		r.span.SetAttributes(attribute.String(AttrErrorCode, errCode))
	}
	r.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrElements, elements),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	r.span.End()

	if r.Metrics != nil {
		r.Metrics.RecordRun(ctx, r.Sample, r.Category, errCode, elements, duration)
	}
	return duration
}
