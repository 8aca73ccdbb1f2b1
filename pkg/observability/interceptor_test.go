package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestMetrics(t *testing.T) (*RequestMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	m, err := NewRequestMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	if err != nil {
		t.Fatalf("NewRequestMetrics() error = %v", err)
	}
	return m, reader
}

// requestCount sums pricing_requests_total data points matching code.
func requestCount(t *testing.T, reader *sdkmetric.ManualReader, code string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "pricing_requests_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				if v, ok := dp.Attributes.Value("code"); ok && v.Emit() == code {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestUnaryServerInterceptor(t *testing.T) {
	m, reader := newTestMetrics(t)
	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/pricing.v1.PricingService/GetQuote"}

	ok := func(context.Context, interface{}) (interface{}, error) { return "quote", nil }
	notFound := func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "no offers")
	}

	for i := 0; i < 2; i++ {
		if _, err := interceptor(context.Background(), nil, info, ok); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := interceptor(context.Background(), nil, info, notFound); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound to pass through, got %v", err)
	}

	if got := requestCount(t, reader, "OK"); got != 2 {
		t.Errorf("OK count = %d, want 2", got)
	}
	if got := requestCount(t, reader, "NotFound"); got != 1 {
		t.Errorf("NotFound count = %d, want 1", got)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	m, reader := newTestMetrics(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/rates", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	h := m.HTTPMiddleware(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rates", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := requestCount(t, reader, "503"); got != 1 {
		t.Errorf("503 count = %d, want 1", got)
	}
}

func TestInitMetrics(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "mortgage-pricing"})
	if err != nil {
		t.Fatalf("InitMetrics() error = %v", err)
	}
	defer provider.Shutdown(context.Background()) //nolint:errcheck

	m, err := NewRequestMetrics(provider)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = m.UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x"},
		func(context.Context, interface{}) (interface{}, error) { return nil, nil })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"pricing_requests_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
