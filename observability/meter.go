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

	"github.com/kbukum/lipsync/timeline"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
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
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded per transcript job.
type Metrics struct {
	jobs             metric.Int64Counter
	jobDuration      metric.Float64Histogram
	providerDuration metric.Float64Histogram
	droppedSegments  metric.Int64Counter
	orphanUnits      metric.Int64Counter
	degradedSegments metric.Int64Counter
	repairs          metric.Int64Counter
	coverage         metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	counter := func(dst *metric.Int64Counter, name, desc string) {
		if err != nil {
			return
		}
		*dst, err = meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			err = fmt.Errorf("creating %s counter: %w", name, err)
		}
	}
	histogram := func(dst *metric.Float64Histogram, name, desc, unit string) {
		if err != nil {
			return
		}
		*dst, err = meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			err = fmt.Errorf("creating %s histogram: %w", name, err)
		}
	}

	counter(&m.jobs, "lipsync.jobs", "Transcript jobs by status")
	histogram(&m.jobDuration, "lipsync.job.duration", "Duration of transcript jobs", "s")
	histogram(&m.providerDuration, "lipsync.provider.duration", "Duration of transcription and alignment backend calls", "s")
	counter(&m.droppedSegments, "lipsync.segments.dropped", "Coarse segments dropped during normalization")
	counter(&m.orphanUnits, "lipsync.units.orphaned", "Aligned units that matched no segment")
	counter(&m.degradedSegments, "lipsync.segments.degraded", "Speech segments left without word timing")
	counter(&m.repairs, "lipsync.repairs", "Overlap and envelope repairs by kind")
	histogram(&m.coverage, "lipsync.coverage", "Fraction of words carrying timing", "1")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordJob records a finished job.
func (m *Metrics) RecordJob(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.jobs.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordProviderCall records one backend call.
func (m *Metrics) RecordProviderCall(ctx context.Context, provider, stage, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordTimeline records the diagnostics of one assembled transcript.
func (m *Metrics) RecordTimeline(ctx context.Context, d timeline.Diagnostics, coverage float64) {
	if m == nil {
		return
	}
	for reason, n := range d.DropReasons {
		m.droppedSegments.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", string(reason))))
	}
	m.orphanUnits.Add(ctx, int64(d.OrphanUnits))
	m.degradedSegments.Add(ctx, int64(d.DegradedSegments))
	for kind, n := range map[string]int{
		"unit_overlap":    d.RepairedUnits,
		"segment_widen":   d.WidenedSegments,
		"segment_overlap": d.ClippedSegments,
	} {
		if n > 0 {
			m.repairs.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
		}
	}
	m.coverage.Record(ctx, coverage)
}
