// Package policy is the single source of truth for role-based routing rules.
// Decide is a pure function: no clocks, no I/O, no intent — suppression is the
// guard's concern.
package policy

import (
	"slices"

	"studiogate/internal/profile"
)

// Rule names which routing rule produced a decision.
type Rule string

const (
	RuleRoleSetup       Rule = "role_setup"
	RulePendingApproval Rule = "pending_approval"
	RuleDashboard       Rule = "dashboard"
	RuleRoleNarrowing   Rule = "role_narrowing"
)

// Decision is a redirect target. A nil *Decision means "stay".
type Decision struct {
	Path string
	Rule Rule
}

// Decide maps (profile.Status, profile.Role, currentPath) to a redirect or
// nil. Rules are evaluated in order; first match wins:
//
//  1. pending_role_setup off the role-setup screen -> role-setup.
//  2. pending_approval off the holding screen -> pending-approval. Callers
//     must never suppress entering the holding screen.
//  3. active (suspended/archived route the same until an admin changes them):
//     role not in allowedRoles -> that role's own dashboard; otherwise any
//     path outside the dashboard's top-level segment -> the dashboard.
//  4. stay.
//
// Idempotent: when currentPath already equals the computed target the result
// is nil, so reapplying the policy to its own output is a no-op.
func Decide(p *profile.Profile, currentPath string, allowedRoles []profile.Role) *Decision {
	if p == nil {
		return nil
	}

	switch p.Status {
	case profile.StatusPendingRoleSetup:
		if currentPath != RoleSetupPath {
			return &Decision{Path: RoleSetupPath, Rule: RuleRoleSetup}
		}
		return nil

	case profile.StatusPendingApproval:
		if currentPath != PendingApprovalPath {
			return &Decision{Path: PendingApprovalPath, Rule: RulePendingApproval}
		}
		return nil

	case profile.StatusActive, profile.StatusSuspended, profile.StatusArchived:
		dashboard := DashboardFor(p.Role)

		if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, p.Role) {
			// Access denial by redirect, not an error page.
			if currentPath == dashboard {
				return nil
			}
			return &Decision{Path: dashboard, Rule: RuleRoleNarrowing}
		}

		if TopSegment(currentPath) != TopSegment(dashboard) {
			return &Decision{Path: dashboard, Rule: RuleDashboard}
		}
		return nil
	}

	return nil
}
