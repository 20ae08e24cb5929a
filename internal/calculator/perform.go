package calculator

import (
	"context"
	"fmt"
	"math"
	"time"

	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Perform is Calculate with a span, metrics and a trace-correlated log line
// around it. A NaN result is recorded as an event, not as a span error: it is
// a value the view displays, not a failure.
func (v *View) Perform(ctx context.Context, op Operation) Record {
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", op),
		trace.WithAttributes(
			attribute.String("calculator.operation", op.String()),
			attribute.String("calculator.operand.a", v.operandA),
			attribute.String("calculator.operand.b", v.operandB),
		),
	)
	defer span.End()

	start := time.Now()
	rec, res := v.calculate(op)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", op.String()))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	if math.IsNaN(res) {
		nanCounter.Add(ctx, 1, attrs)
		span.AddEvent("computation.nan")
	} else if !math.IsInf(res, 0) {
		resultGauge.Record(ctx, res, attrs)
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", rec.Result),
		attribute.Float64("duration_ms", elapsed),
		attribute.Int("history.length", len(v.history)),
	))
	span.SetAttributes(attribute.String("calculator.result", rec.Result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", op.String()),
		zap.String("a", v.operandA),
		zap.String("b", v.operandB),
		zap.String("result", rec.Result),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
		zap.Float64("duration_ms", elapsed),
	)

	return rec
}
