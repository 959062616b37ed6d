// Package observability provides OpenTelemetry tracing and metrics for sample
// runs.
//
// Telemetry is optional. Setup installs OTLP/HTTP tracer and meter providers
// when the telemetry section is enabled and leaves the global no-op providers
// in place otherwise, so instrumented code never branches on it.
//
//	providers, err := observability.Setup(ctx, cfg.Telemetry, "linqsamples", version.Get().Short(), "development")
//	defer providers.Shutdown(ctx)
//
//	metrics, err := observability.NewSampleMetrics(observability.Meter("linqsamples"))
//	ctx, run := observability.StartSampleRun(ctx, metrics, runID, "where-in-stock", "Restriction")
//	elapsed := run.End(ctx, err, "", written)
package observability
