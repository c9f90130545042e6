// Package httptransport assembles the public HTTP surface: the verification
// API plus the operational endpoints.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritask/internal/transport/http/shared"
	"veritask/internal/verification/handler"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints.
func NewRouter(verifications *handler.Handler, checks map[string]HealthChecker) http.Handler {
	router := chi.NewRouter()

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"failed": name,
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		verifications.Register(r)
	})

	return router
}
