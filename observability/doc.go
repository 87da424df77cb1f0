// Package observability wires OpenTelemetry tracing and metrics for
// transcript jobs.
//
// Setup, once per process:
//
//	shutdown, err := observability.Init(ctx, cfg.Telemetry)
//	defer shutdown(ctx)
//
// Instruments:
//
//	metrics, err := observability.NewMetrics(observability.Meter("lipsync"))
//	metrics.RecordJob(ctx, "ok", elapsed)
//	metrics.RecordTimeline(ctx, result.Diagnostics, quality.Coverage)
//
// Spans:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanAlign)
//	defer span.End()
//
// With telemetry disabled the global no-op providers stay in place and all
// of the above is free.
package observability
