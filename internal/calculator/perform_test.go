package calculator

import (
	"context"
	"testing"

	"go-chi-calculator/internal/observability"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// useTestMeter points the package instruments at a manual reader for the
// duration of the test.
func useTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	oldOps, oldHist, oldNaN, oldGauge := opsCounter, opsHistogram, nanCounter, resultGauge
	t.Cleanup(func() {
		opsCounter, opsHistogram, nanCounter, resultGauge = oldOps, oldHist, oldNaN, oldGauge
	})

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	if err := initInstruments(mp.Meter("calculator")); err != nil {
		t.Fatalf("initInstruments: %v", err)
	}
	return reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func operationOf(set attribute.Set) string {
	v, _ := set.Value("operation")
	return v.AsString()
}

func counterByOperation(t *testing.T, m metricdata.Metrics) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", m.Name, m.Data)
	}
	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		out[operationOf(dp.Attributes)] = dp.Value
	}
	return out
}

func gaugeByOperation(t *testing.T, m metricdata.Metrics) map[string]float64 {
	t.Helper()

	g, ok := m.Data.(metricdata.Gauge[float64])
	if !ok {
		t.Fatalf("%s: expected Gauge[float64], got %T", m.Name, m.Data)
	}
	out := make(map[string]float64)
	for _, dp := range g.DataPoints {
		out[operationOf(dp.Attributes)] = dp.Value
	}
	return out
}

func TestPerformLogsAndRecordsHistory(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	useTestMeter(t)

	v := NewView(false)
	v.SetOperands("5", "0")
	rec := v.Perform(context.Background(), Divide)

	if rec.Result != "NaN" {
		t.Fatalf("expected NaN, got %q", rec.Result)
	}
	if h := v.History(); len(h) != 1 || h[0] != rec {
		t.Fatalf("expected the record in history, got %+v", h)
	}

	entries := logs.FilterMessage("calculator operation completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["operation"] != "divide" || fields["result"] != "NaN" {
		t.Fatalf("unexpected log fields %#v", fields)
	}
}

func TestPerformRecordsMetrics(t *testing.T) {
	reader := useTestMeter(t)
	ctx := context.Background()

	v := NewView(false)
	for _, step := range []struct {
		a, b string
		op   Operation
	}{
		{"2", "3", Add},
		{"5", "0", Divide},
		{"1e308", "10", Multiply},
	} {
		v.SetOperands(step.a, step.b)
		v.Perform(ctx, step.op)
	}

	metrics := collect(t, reader)

	ops, ok := metrics["calculator.operations.total"]
	if !ok {
		t.Fatal("expected calculator.operations.total to be recorded")
	}
	if diff := cmp.Diff(map[string]int64{"add": 1, "divide": 1, "multiply": 1}, counterByOperation(t, ops)); diff != "" {
		t.Fatalf("operations.total mismatch (-want +got):\n%s", diff)
	}

	nan, ok := metrics["calculator.nan_results.total"]
	if !ok {
		t.Fatal("expected calculator.nan_results.total to be recorded")
	}
	if diff := cmp.Diff(map[string]int64{"divide": 1}, counterByOperation(t, nan)); diff != "" {
		t.Fatalf("nan_results.total mismatch (-want +got):\n%s", diff)
	}

	// NaN and Infinity never reach the gauge.
	last, ok := metrics["calculator.last_result"]
	if !ok {
		t.Fatal("expected calculator.last_result to be recorded")
	}
	if diff := cmp.Diff(map[string]float64{"add": 5}, gaugeByOperation(t, last)); diff != "" {
		t.Fatalf("last_result mismatch (-want +got):\n%s", diff)
	}
}

func TestPerformWithoutInitMetrics(t *testing.T) {
	v := NewView(false)
	v.SetOperands("4", "3")

	if rec := v.Perform(context.Background(), Multiply); rec.Result != "12" {
		t.Fatalf("expected 12, got %q", rec.Result)
	}
}
