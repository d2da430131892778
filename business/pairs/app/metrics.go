package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type normalizerMetrics struct {
	fetchFailures  metric.Int64Counter
	pairsPublished metric.Int64Histogram
	cycleDuration  metric.Float64Histogram
}

func newNormalizerMetrics() *normalizerMetrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	fetchFailures, _ := meter.Int64Counter(
		"pairs_normalizer_fetch_failures_total",
		metric.WithDescription("Venue ticker fetches that failed during a normalization cycle"),
	)
	pairsPublished, _ := meter.Int64Histogram(
		"pairs_normalizer_pairs_published",
		metric.WithDescription("Number of canonical pairs published per normalization cycle"),
	)
	cycleDuration, _ := meter.Float64Histogram(
		"pairs_normalizer_cycle_duration_seconds",
		metric.WithDescription("Wall time of one normalization cycle"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2, 5, 10),
	)

	return &normalizerMetrics{
		fetchFailures:  fetchFailures,
		pairsPublished: pairsPublished,
		cycleDuration:  cycleDuration,
	}
}
