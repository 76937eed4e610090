package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/finware/ledgerd/internal/logging"
)

// Recorder tallies request and failure outcomes on the global meter
// provider. It implements the Events sinks of the ledger engine and the
// admission gate.
type Recorder struct {
	requests   metric.Int64Counter
	operations metric.Int64Counter
	failures   metric.Int64Counter
}

func NewRecorder() (*Recorder, error) {
	meter := otel.Meter("ledgerd")

	requests, err := meter.Int64Counter("ledgerd.requests",
		metric.WithDescription("HTTP requests by method, route, and status class"))
	if err != nil {
		return nil, fmt.Errorf("telemetry.NewRecorder: %w", err)
	}

	operations, err := meter.Int64Counter("ledgerd.operations",
		metric.WithDescription("Ledger operations by endpoint and outcome"))
	if err != nil {
		return nil, fmt.Errorf("telemetry.NewRecorder: %w", err)
	}

	failures, err := meter.Int64Counter("ledgerd.errors",
		metric.WithDescription("Operation failures by error type and endpoint"))
	if err != nil {
		return nil, fmt.Errorf("telemetry.NewRecorder: %w", err)
	}

	return &Recorder{requests: requests, operations: operations, failures: failures}, nil
}

// RequestCompleted tallies one finished HTTP request.
func (r *Recorder) RequestCompleted(ctx context.Context, method, route string, status int) {
	r.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_class", statusClass(status)),
	))
}

func (r *Recorder) OperationSucceeded(ctx context.Context, endpoint string) {
	r.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", "success"),
	))
}

func (r *Recorder) OperationFailed(ctx context.Context, endpoint, errType string) {
	r.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", "failure"),
	))
	r.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error_type", errType),
		attribute.String("endpoint", endpoint),
	))

	logging.FromContext(ctx).Warn("operation failed",
		"endpoint", endpoint,
		"error_type", errType,
	)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
