package web

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	errorCounter metric.Int64Counter = noop.Int64Counter{}
	mountCounter metric.Int64Counter = noop.Int64Counter{}
)

// InitMetrics registers the web front end's OTel metric instruments.
func InitMetrics() error {
	meter := otel.Meter("calculator.web")

	var err error

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	mountCounter, err = meter.Int64Counter("calculator.views.mounted.total",
		metric.WithDescription("Total number of views mounted by web clients"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return fmt.Errorf("creating mount counter: %w", err)
	}

	return nil
}
