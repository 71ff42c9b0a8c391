package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studiogate/internal/identity"
	"studiogate/internal/nav/guard"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/middleware"
	"studiogate/internal/profile"
)

// Handler is the thin HTTP layer. It delegates to the controller, the guards,
// and the profile service; no routing policy lives here.
type Handler struct {
	controller *guard.Controller
	guard      *guard.Guard
	profiles   *profile.Service
	provider   *identity.DevProvider
	inspector  *identity.TokenInspector
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewHandler(
	controller *guard.Controller,
	renderGuard *guard.Guard,
	profiles *profile.Service,
	provider *identity.DevProvider,
	inspector *identity.TokenInspector,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		controller: controller,
		guard:      renderGuard,
		profiles:   profiles,
		provider:   provider,
		inspector:  inspector,
		logger:     logger,
		metrics:    m,
	}
}

// HealthCheck reports the health of a named dependency. Nil means healthy.
type HealthCheck struct {
	Name  string
	Check func() error
}

// NewRouter wires all endpoints with the middleware stack. The edge guard runs
// before every page so unauthenticated visitors bounce to sign-in without a
// profile fetch; the render guard wraps each page with the status/role rules.
func NewRouter(h *Handler, logger *slog.Logger, m *metrics.Metrics, checks ...HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// Operational endpoints sit outside the guards.
	r.Get("/healthz", h.handleHealthz(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Session endpoints. The sign-in page itself is registered with the
	// guarded pages so an already-active visitor is pulled off it.
	r.Post("/login", h.handleSignIn)
	r.Post("/logout", h.handleSignOut)

	// Navigation state API.
	r.Get("/me/navigation", h.handleNavigationState)
	r.Post("/me/navigation/intent", h.handleNavigationIntent)
	r.Post("/me/navigation/retry", h.handleNavigationRetry)

	// Profile mutations.
	r.Post("/me/role", h.handleRoleSubmission)
	r.Post("/profiles/{id}/approve", h.handleApprove)
	r.Post("/profiles/{id}/suspend", h.handleSuspend)

	// Guarded pages.
	r.Group(func(r chi.Router) {
		r.Use(guard.Edge(logger, m))
		h.registerPages(r)
	})

	return r
}

func (h *Handler) handleHealthz(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status := "ok"
		detail := make(map[string]string, len(checks))
		code := http.StatusOK
		for _, c := range checks {
			if err := c.Check(); err != nil {
				detail[c.Name] = "down: " + err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				detail[c.Name] = "up"
			}
		}
		writeJSON(w, code, map[string]any{
			"status": status,
			"checks": detail,
		})
	}
}

// observe records endpoint latency for the API handlers.
func (h *Handler) observe(endpoint string, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveEndpointLatency(endpoint, time.Since(start).Seconds())
	}
}
