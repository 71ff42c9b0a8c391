package guard

import (
	"log/slog"
	"net/http"

	"studiogate/internal/identity"
	"studiogate/internal/nav/policy"
	"studiogate/internal/platform/metrics"
	"studiogate/internal/platform/middleware"
)

// EdgeDecision is the edge guard's verdict for a request.
type EdgeDecision struct {
	Allow        bool
	RedirectPath string
}

// EdgeDecide is the edge guard's contract: coarse, token-presence only. It
// runs before any page code and cannot afford a profile fetch, so it never
// looks at status or role — those rules live in the policy engine, consulted
// only by the render guard.
func EdgeDecide(path string, hasToken bool) EdgeDecision {
	if policy.IsProtected(path) && !hasToken {
		return EdgeDecision{RedirectPath: policy.SignInPath}
	}
	return EdgeDecision{Allow: true}
}

// Edge returns middleware enforcing EdgeDecide on every navigable request.
func Edge(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := EdgeDecide(r.URL.Path, identity.HasToken(r))
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			if m != nil {
				m.IncrementEdgeDenials()
			}
			logger.InfoContext(r.Context(), "edge guard redirect",
				"path", r.URL.Path,
				"target", decision.RedirectPath,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			http.Redirect(w, r, decision.RedirectPath, http.StatusFound)
		})
	}
}
