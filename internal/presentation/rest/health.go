package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	pkgpostgres "github.com/bibbank/mortgage-pricing/pkg/postgres"
)

// ReadinessChecker reports whether a rate snapshot is loaded.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler serves liveness, readiness and metrics over HTTP.
type HealthHandler struct {
	db      pkgpostgres.Pinger
	store   ReadinessChecker
	metrics http.Handler
	logger  *slog.Logger
}

// NewHealthHandler creates a health check HTTP handler. db and metrics may
// be nil.
func NewHealthHandler(db pkgpostgres.Pinger, store ReadinessChecker, metrics http.Handler, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, store: store, metrics: metrics, logger: logger}
}

// RegisterRoutes attaches health-check routes to the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.liveness)
	mux.HandleFunc("GET /readyz", h.readiness)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mortgage-pricing",
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"rate_table": "ok", "database": "ok"}
	ready := true

	if !h.store.Ready() {
		checks["rate_table"] = "not loaded"
		ready = false
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pkgpostgres.HealthCheck(ctx, h.db); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "error", err)
			checks["database"] = "unreachable"
			ready = false
		}
	}

	status, word := http.StatusOK, "ready"
	if !ready {
		status, word = http.StatusServiceUnavailable, "not ready"
	}
	writeJSON(w, status, map[string]any{
		"status":  word,
		"service": "mortgage-pricing",
		"checks":  checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
