package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type scannerMetrics struct {
	fetchFailures     metric.Int64Counter
	candidatesEmitted metric.Int64Counter
	candidateSpread   metric.Float64Histogram
	cycleDuration     metric.Float64Histogram
}

func newScannerMetrics() *scannerMetrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	fetchFailures, _ := meter.Int64Counter(
		"spread_scanner_fetch_failures_total",
		metric.WithDescription("Venue top-of-book fetches that failed during a scan cycle"),
	)
	candidatesEmitted, _ := meter.Int64Counter(
		"spread_scanner_candidates_emitted_total",
		metric.WithDescription("Candidate signals emitted"),
	)
	candidateSpread, _ := meter.Float64Histogram(
		"spread_scanner_candidate_spread_pct",
		metric.WithDescription("Best spread percentage of emitted candidates"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 20),
	)
	cycleDuration, _ := meter.Float64Histogram(
		"spread_scanner_cycle_duration_seconds",
		metric.WithDescription("Wall time of one scan cycle"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2, 5),
	)

	return &scannerMetrics{
		fetchFailures:     fetchFailures,
		candidatesEmitted: candidatesEmitted,
		candidateSpread:   candidateSpread,
		cycleDuration:     cycleDuration,
	}
}
