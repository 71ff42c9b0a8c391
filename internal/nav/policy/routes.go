package policy

import (
	"strings"

	"studiogate/internal/profile"
)

// Canonical paths. These are policy targets and must match the routing layer
// exactly.
const (
	SignInPath          = "/login"
	RoleSetupPath       = "/role-setup"
	PendingApprovalPath = "/pending-approval"

	PhotographerDashboard = "/photographer"
	BrandDashboard        = "/brands"
	MarketingDashboard    = "/marketing"
	AdminDashboard        = "/admin"
)

// DashboardFor maps a role to its dashboard path. Total: every role has
// exactly one target. A new_user has no dashboard of their own yet, so their
// canonical screen is role setup.
func DashboardFor(role profile.Role) string {
	switch role {
	case profile.RolePhotographer:
		return PhotographerDashboard
	case profile.RoleBrandCoordinator:
		return BrandDashboard
	case profile.RoleMarketingCoordinator:
		return MarketingDashboard
	case profile.RoleSuperAdmin:
		return AdminDashboard
	default:
		return RoleSetupPath
	}
}

// EscapePaths are the screens a visitor may deliberately leave the
// pending-approval holding screen for without being pulled straight back.
var escapePaths = map[string]struct{}{
	SignInPath: {},
}

// IsEscapePath reports whether path is a designated escape from the
// pending-approval screen.
func IsEscapePath(path string) bool {
	_, ok := escapePaths[path]
	return ok
}

// IsProtected reports whether a path is role-restricted: everything except
// sign-in and operational endpoints requires a session.
func IsProtected(path string) bool {
	switch path {
	case SignInPath, "/healthz", "/metrics":
		return false
	}
	return true
}

// TopSegment returns the first path segment, used to decide whether a path is
// already under a dashboard.
func TopSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}
