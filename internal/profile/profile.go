package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"studiogate/internal/sentinel"
)

// Status is a profile's position in the onboarding/approval lifecycle.
type Status string

const (
	StatusPendingRoleSetup Status = "pending_role_setup"
	StatusPendingApproval  Status = "pending_approval"
	StatusActive           Status = "active"
	StatusSuspended        Status = "suspended"
	StatusArchived         Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingRoleSetup, StatusPendingApproval, StatusActive, StatusSuspended, StatusArchived:
		return true
	}
	return false
}

// Role is a visitor's function on the platform.
type Role string

const (
	RoleNewUser              Role = "new_user"
	RolePhotographer         Role = "photographer"
	RoleBrandCoordinator     Role = "brand_coordinator"
	RoleMarketingCoordinator Role = "marketing_coordinator"
	RoleSuperAdmin           Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleNewUser, RolePhotographer, RoleBrandCoordinator, RoleMarketingCoordinator, RoleSuperAdmin:
		return true
	}
	return false
}

// Roles returns every assignable role, i.e. every role except new_user.
func Roles() []Role {
	return []Role{RolePhotographer, RoleBrandCoordinator, RoleMarketingCoordinator, RoleSuperAdmin}
}

// Profile is the application's durable record of a visitor, keyed by the
// provider session id. Created once, mutated by role-setup submission and by
// an approval action, never deleted during normal operation.
type Profile struct {
	ID          uuid.UUID
	Status      Status
	Role        Role
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDefault builds the profile created on a session's first resolution.
func NewDefault(id uuid.UUID, email, displayName string, now time.Time) *Profile {
	return &Profile{
		ID:          id,
		Status:      StatusPendingRoleSetup,
		Role:        RoleNewUser,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks enum membership and the new_user/pending_role_setup invariant.
func (p *Profile) Validate() error {
	if !p.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", p.Status, sentinel.ErrInvalidState)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("unknown role %q: %w", p.Role, sentinel.ErrInvalidState)
	}
	if p.Role == RoleNewUser && p.Status != StatusPendingRoleSetup {
		return fmt.Errorf("role new_user requires status pending_role_setup, got %q: %w", p.Status, sentinel.ErrInvalidState)
	}
	return nil
}

// SubmitRole applies a role-setup submission: pending_role_setup -> pending_approval.
func (p *Profile) SubmitRole(role Role, now time.Time) error {
	if p.Status != StatusPendingRoleSetup {
		return fmt.Errorf("role submission from status %q: %w", p.Status, sentinel.ErrInvalidState)
	}
	if !role.Valid() || role == RoleNewUser {
		return fmt.Errorf("role %q is not assignable: %w", role, sentinel.ErrInvalidInput)
	}
	p.Role = role
	p.Status = StatusPendingApproval
	p.UpdatedAt = now
	return nil
}

// Approve applies an approval action: pending_approval -> active.
// There is no transition from pending_approval back to pending_role_setup.
func (p *Profile) Approve(now time.Time) error {
	if p.Status != StatusPendingApproval {
		return fmt.Errorf("approval from status %q: %w", p.Status, sentinel.ErrInvalidState)
	}
	p.Status = StatusActive
	p.UpdatedAt = now
	return nil
}

// Suspend marks an active profile suspended. Suspended profiles keep routing
// as active until an admin action changes them back.
func (p *Profile) Suspend(now time.Time) error {
	if p.Status != StatusActive {
		return fmt.Errorf("suspension from status %q: %w", p.Status, sentinel.ErrInvalidState)
	}
	p.Status = StatusSuspended
	p.UpdatedAt = now
	return nil
}

// Archive marks a profile archived.
func (p *Profile) Archive(now time.Time) error {
	if p.Status == StatusArchived {
		return fmt.Errorf("already archived: %w", sentinel.ErrInvalidState)
	}
	p.Status = StatusArchived
	p.UpdatedAt = now
	return nil
}
