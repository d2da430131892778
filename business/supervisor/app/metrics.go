package app

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type supervisorMetrics struct {
	restarts metric.Int64Counter
	crashes  metric.Int64Counter
}

func newSupervisorMetrics() *supervisorMetrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	restarts, _ := meter.Int64Counter(
		"supervisor_worker_restarts_total",
		metric.WithDescription("Worker restarts performed by the supervisor"),
	)
	crashes, _ := meter.Int64Counter(
		"supervisor_worker_crashes_total",
		metric.WithDescription("Worker terminations (error or panic) observed by the supervisor"),
	)

	return &supervisorMetrics{restarts: restarts, crashes: crashes}
}
