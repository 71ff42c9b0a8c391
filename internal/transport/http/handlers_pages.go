package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studiogate/internal/nav/guard"
	"studiogate/internal/nav/policy"
	"studiogate/internal/profile"
)

// registerPages mounts every navigable screen behind the render guard. Each
// page body is a placeholder; the guard chain around it is the product.
func (h *Handler) registerPages(r chi.Router) {
	anyRole := guard.PageSpec{RequireAuth: true}

	// The root has no content of its own; the guard forwards every visitor to
	// their canonical screen.
	r.Method(http.MethodGet, "/", h.guard.Protect(anyRole, page("home")))

	// Sign-in renders for anonymous visitors, but a visitor with a settled
	// profile is redirected to wherever the policy says they belong.
	r.Method(http.MethodGet, policy.SignInPath,
		h.guard.Protect(guard.PageSpec{}, http.HandlerFunc(h.handleSignInPage)))

	r.Method(http.MethodGet, policy.RoleSetupPath,
		h.guard.Protect(anyRole, page("role_setup")))
	r.Method(http.MethodGet, policy.PendingApprovalPath,
		h.guard.Protect(anyRole, page("pending_approval")))

	dashboards := []struct {
		path string
		role profile.Role
		name string
	}{
		{policy.PhotographerDashboard, profile.RolePhotographer, "photographer_dashboard"},
		{policy.BrandDashboard, profile.RoleBrandCoordinator, "brand_dashboard"},
		{policy.MarketingDashboard, profile.RoleMarketingCoordinator, "marketing_dashboard"},
		{policy.AdminDashboard, profile.RoleSuperAdmin, "admin_dashboard"},
	}
	for _, d := range dashboards {
		spec := guard.PageSpec{RequireAuth: true, AllowedRoles: []profile.Role{d.role}}
		r.Method(http.MethodGet, d.path, h.guard.Protect(spec, page(d.name)))
		// Sub-routes share their dashboard's role restriction.
		r.Method(http.MethodGet, d.path+"/*", h.guard.Protect(spec, page(d.name)))
	}
}

func page(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"page": name})
	})
}
