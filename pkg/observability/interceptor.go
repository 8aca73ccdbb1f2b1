package observability

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const meterName = "github.com/bibbank/mortgage-pricing/pkg/observability"

// RequestMetrics records request counts and latencies for both transports.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRequestMetrics creates the instruments on mp.
func NewRequestMetrics(mp metric.MeterProvider) (*RequestMetrics, error) {
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("pricing_requests_total",
		metric.WithDescription("Requests handled, by transport, method and outcome."))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("pricing_request_duration_seconds",
		metric.WithDescription("Request latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5))
	if err != nil {
		return nil, err
	}
	return &RequestMetrics{requests: requests, duration: duration}, nil
}

func (m *RequestMetrics) record(ctx context.Context, start time.Time, attrs ...attribute.KeyValue) {
	set := metric.WithAttributes(attrs...)
	m.requests.Add(ctx, 1, set)
	m.duration.Record(ctx, time.Since(start).Seconds(), set)
}

// UnaryServerInterceptor records every unary call with its status code.
func (m *RequestMetrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.record(ctx, start,
			attribute.String("transport", "grpc"),
			attribute.String("method", info.FullMethod),
			attribute.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records every request by route pattern and status.
func (m *RequestMetrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.record(r.Context(), start,
			attribute.String("transport", "http"),
			attribute.String("method", route),
			attribute.Int("code", rec.status),
		)
	})
}
