package guard

import (
	"log/slog"
	"net/http"

	"studiogate/internal/audit"
	"studiogate/internal/nav/intent"
	"studiogate/internal/nav/policy"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/middleware"
	"studiogate/internal/profile"
)

// PageSpec declares a protected page's requirements.
type PageSpec struct {
	RequireAuth  bool
	AllowedRoles []profile.Role
}

// Guard is the render-level enforcement point. It wraps page content and is
// the last line that must resolve every navigation state into exactly one of:
// loading affordance, retry affordance, redirect, or rendered children. It
// must never let an unresolved error state fall through to protected content.
type Guard struct {
	controller *Controller
	tracker    *intent.Tracker
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditPub   AuditPublisher
}

// GuardOption configures the Guard.
type GuardOption func(*Guard)

func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithGuardMetrics(m *metrics.Metrics) GuardOption {
	return func(g *Guard) {
		g.metrics = m
	}
}

func WithGuardAudit(publisher AuditPublisher) GuardOption {
	return func(g *Guard) {
		g.auditPub = publisher
	}
}

func NewGuard(controller *Controller, tracker *intent.Tracker, opts ...GuardOption) *Guard {
	g := &Guard{controller: controller, tracker: tracker}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Protect wraps a page handler with the render guard.
func (g *Guard) Protect(spec PageSpec, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		currentPath := r.URL.Path
		snap := g.controller.Snapshot()

		// Suspension point: while the profile is resolving, render nothing but
		// a loading affordance.
		if snap.Loading {
			g.loading(w)
			return
		}

		// A definitive store failure gets a retry affordance, never a
		// redirect: bouncing the visitor on a transient backend failure helps
		// nobody.
		if snap.Err != nil {
			g.retryAffordance(w, r)
			return
		}

		if snap.Session == nil {
			if spec.RequireAuth {
				g.redirect(w, r, &policy.Decision{Path: policy.SignInPath, Rule: "sign_in"}, currentPath)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		// Authenticated but no profile after the retry budget: force
		// re-authentication rather than rendering an empty dashboard.
		if snap.Profile == nil {
			if spec.RequireAuth {
				g.redirect(w, r, &policy.Decision{Path: policy.SignInPath, Rule: "sign_in"}, currentPath)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		decision := policy.Decide(snap.Profile, currentPath, spec.AllowedRoles)
		if decision == nil {
			next.ServeHTTP(w, r)
			return
		}

		if suppressed, reason := g.suppress(decision, currentPath); suppressed {
			if g.metrics != nil {
				g.metrics.IncrementRedirectsSuppressed(reason)
			}
			g.emit(r, audit.Event{
				UserID: snap.Profile.ID.String(),
				Action: string(audit.EventRedirectSuppressed),
				Path:   currentPath,
				Target: decision.Path,
				Reason: reason,
			})
			next.ServeHTTP(w, r)
			return
		}

		g.redirect(w, r, decision, currentPath)
	})
}

// suppress decides whether a policy redirect should be skipped this cycle.
// Entering the pending-approval holding screen is only deferred by the
// explicit escape flag while the visitor stands on a designated escape path;
// generic user intent never suppresses it.
func (g *Guard) suppress(d *policy.Decision, currentPath string) (bool, string) {
	if d.Rule == policy.RulePendingApproval {
		if active, _ := g.tracker.ActiveEscape(); active && policy.IsEscapePath(currentPath) {
			return true, "escape"
		}
		return false, ""
	}
	if g.tracker.RecentUserIntent() {
		return true, "user_intent"
	}
	return false, ""
}

// redirect applies a decision. Freshness is re-checked at apply time, not
// schedule time: a decision computed against a path the visitor has already
// left is discarded as a no-op.
func (g *Guard) redirect(w http.ResponseWriter, r *http.Request, d *policy.Decision, computedFor string) {
	if r.URL.Path != computedFor {
		if g.metrics != nil {
			g.metrics.IncrementStaleDecisions()
		}
		g.emit(r, audit.Event{
			Action: string(audit.EventStaleDecisionNoOp),
			Path:   r.URL.Path,
			Target: d.Path,
		})
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if d.Path == r.URL.Path {
		// Already there; reapplying the policy to its own output is a no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	g.tracker.Mark(false, d.Path, intent.ReasonAutoRedirect)
	if g.metrics != nil {
		g.metrics.IncrementRedirectsIssued(string(d.Rule))
	}
	g.emit(r, audit.Event{
		Action: string(audit.EventRedirectIssued),
		Path:   r.URL.Path,
		Target: d.Path,
		Reason: string(d.Rule),
	})
	g.logger.InfoContext(r.Context(), "render guard redirect",
		"path", r.URL.Path,
		"target", d.Path,
		"rule", string(d.Rule),
		"request_id", middleware.GetRequestID(r.Context()),
	)
	http.Redirect(w, r, d.Path, http.StatusFound)
}

func (g *Guard) loading(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"status":"loading"}`))
}

// retryAffordance surfaces a dismissible, retryable failure. The retry itself
// is driven through the controller.
func (g *Guard) retryAffordance(w http.ResponseWriter, r *http.Request) {
	g.logger.WarnContext(r.Context(), "profile unavailable, offering retry",
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"error":"profile_unavailable","error_description":"Could not determine your profile","retry":true}`))
}

func (g *Guard) emit(r *http.Request, e audit.Event) {
	if g.auditPub == nil {
		return
	}
	e.RequestID = middleware.GetRequestID(r.Context())
	if err := g.auditPub.Emit(r.Context(), e); err != nil {
		g.logger.Error("failed to emit audit event", "error", err, "action", e.Action)
	}
}
