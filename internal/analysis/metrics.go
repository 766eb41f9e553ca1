package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// upstreamReqs counts outbound calls by client and outcome class.
	upstreamReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_requests_total",
			Help: "Total number of outbound analysis/notify calls by outcome.",
		},
		[]string{"client", "outcome"},
	)

	// upstreamLat records wall time of outbound calls. Buckets reach past the
	// longest client budget (60s).
	upstreamLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_request_duration_seconds",
			Help:    "Duration of outbound analysis/notify calls in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"client"},
	)
)

func init() {
	prometheus.MustRegister(upstreamReqs, upstreamLat)
}

// Outcome returns the metric label for err: "ok" for nil, the lowercase
// failure class for analysis errors, "error" otherwise.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrValidation):
		return "validation"
	}
	return "error"
}

// Observe records one outbound call. It is exported so that the notifier
// shares the same series.
func Observe(client string, start time.Time, err error) {
	upstreamReqs.WithLabelValues(client, Outcome(err)).Inc()
	upstreamLat.WithLabelValues(client).Observe(time.Since(start).Seconds())
}

// startSpan opens a client span for an outbound call.
func startSpan(ctx context.Context, client, op string) (context.Context, trace.Span) {
	return otel.Tracer("analysis/"+client).Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("peer.service", client)),
	)
}

// endSpan records err on span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Outcome(err))
	}
	span.End()
}
