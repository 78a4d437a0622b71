// Package httptransport assembles the public router: scan API under
// /api/v1 behind bearer auth, plus health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"luminary/internal/platform/middleware"
	scanhandler "luminary/internal/scan/handler"
	"luminary/pkg/platform/httputil"
)

// HealthChecker reports the health of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Scans     *scanhandler.Handler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
	// Health checks by dependency name; nil entries are skipped so
	// optional backends (redis) drop out cleanly.
	Health map[string]HealthChecker
}

// NewRouter wires all public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		deps.Scans.Register(api)
	})

	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := make(map[string]string, len(checks)+1)
		body["status"] = "ok"
		for name, c := range checks {
			if c == nil {
				continue
			}
			if err := c.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body[name] = "unhealthy"
				body["status"] = "degraded"
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
