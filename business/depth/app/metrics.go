package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type checkerMetrics struct {
	results        metric.Int64Counter
	confirmed      metric.Int64Counter
	rejected       metric.Int64Counter
	netSpreadPct   metric.Float64Histogram
	checkDuration  metric.Float64Histogram
}

func newCheckerMetrics() *checkerMetrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	results, _ := meter.Int64Counter(
		"depth_checker_results_total",
		metric.WithDescription("Candidates processed by the depth checker"),
	)
	confirmed, _ := meter.Int64Counter(
		"depth_checker_confirmed_total",
		metric.WithDescription("DepthResults confirmed after fees and the safety buffer"),
	)
	rejected, _ := meter.Int64Counter(
		"depth_checker_rejected_total",
		metric.WithDescription("DepthResults rejected, for any reason (no per-reason breakdown)"),
	)
	netSpreadPct, _ := meter.Float64Histogram(
		"depth_checker_net_spread_pct",
		metric.WithDescription("Net spread percentage after fees and safety buffer"),
		metric.WithExplicitBucketBoundaries(-1, -0.5, 0, 0.2, 0.5, 1, 2, 5),
	)
	checkDuration, _ := meter.Float64Histogram(
		"depth_checker_check_duration_seconds",
		metric.WithDescription("Wall time to evaluate one Candidate"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2, 5),
	)

	return &checkerMetrics{
		results:       results,
		confirmed:     confirmed,
		rejected:      rejected,
		netSpreadPct:  netSpreadPct,
		checkDuration: checkDuration,
	}
}
