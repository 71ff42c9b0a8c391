package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiogate/internal/profile"
)

func activeProfile(role profile.Role) *profile.Profile {
	p := profile.NewDefault(uuid.New(), "", "", time.Now())
	if role == profile.RoleNewUser {
		return p
	}
	_ = p.SubmitRole(role, time.Now())
	_ = p.Approve(time.Now())
	return p
}

func pendingApprovalProfile(role profile.Role) *profile.Profile {
	p := profile.NewDefault(uuid.New(), "", "", time.Now())
	_ = p.SubmitRole(role, time.Now())
	return p
}

func TestDecideNilProfileStays(t *testing.T) {
	assert.Nil(t, Decide(nil, "/photographer", nil))
}

func TestDecideRoleSetupRule(t *testing.T) {
	p := profile.NewDefault(uuid.New(), "", "", time.Now())

	d := Decide(p, "/photographer", nil)
	require.NotNil(t, d)
	assert.Equal(t, RoleSetupPath, d.Path)
	assert.Equal(t, RuleRoleSetup, d.Rule)

	assert.Nil(t, Decide(p, RoleSetupPath, nil), "already on target")
}

func TestDecidePendingApprovalRule(t *testing.T) {
	p := pendingApprovalProfile(profile.RolePhotographer)

	d := Decide(p, "/photographer", nil)
	require.NotNil(t, d)
	assert.Equal(t, PendingApprovalPath, d.Path)
	assert.Equal(t, RulePendingApproval, d.Rule)

	assert.Nil(t, Decide(p, PendingApprovalPath, nil))
}

func TestDecideDashboardRule(t *testing.T) {
	cases := []struct {
		role profile.Role
		want string
	}{
		{profile.RolePhotographer, PhotographerDashboard},
		{profile.RoleBrandCoordinator, BrandDashboard},
		{profile.RoleMarketingCoordinator, MarketingDashboard},
		{profile.RoleSuperAdmin, AdminDashboard},
	}
	for _, tc := range cases {
		p := activeProfile(tc.role)

		d := Decide(p, "/somewhere-else", nil)
		require.NotNil(t, d, "role %s", tc.role)
		assert.Equal(t, tc.want, d.Path)
		assert.Equal(t, RuleDashboard, d.Rule)

		assert.Nil(t, Decide(p, tc.want, nil), "own dashboard is home")
		assert.Nil(t, Decide(p, tc.want+"/settings", nil), "sub-routes of the dashboard stay")
	}
}

func TestDecideRoleNarrowing(t *testing.T) {
	p := activeProfile(profile.RoleMarketingCoordinator)

	d := Decide(p, BrandDashboard, []profile.Role{profile.RoleBrandCoordinator})
	require.NotNil(t, d)
	assert.Equal(t, MarketingDashboard, d.Path, "denied visitors bounce to their own dashboard")
	assert.Equal(t, RuleRoleNarrowing, d.Rule)
}

func TestDecideAllowedRolePasses(t *testing.T) {
	p := activeProfile(profile.RolePhotographer)

	assert.Nil(t, Decide(p, PhotographerDashboard, []profile.Role{profile.RolePhotographer}))
}

func TestDecideSuspendedRoutesAsActive(t *testing.T) {
	p := activeProfile(profile.RoleBrandCoordinator)
	require.NoError(t, p.Suspend(time.Now()))

	d := Decide(p, "/elsewhere", nil)
	require.NotNil(t, d)
	assert.Equal(t, BrandDashboard, d.Path)
}

// TestDecideIdempotent verifies the policy is a no-op on its own output: for
// every state, applying Decide to the target it produced yields nil.
func TestDecideIdempotent(t *testing.T) {
	profiles := []*profile.Profile{
		profile.NewDefault(uuid.New(), "", "", time.Now()),
		pendingApprovalProfile(profile.RolePhotographer),
		activeProfile(profile.RolePhotographer),
		activeProfile(profile.RoleBrandCoordinator),
		activeProfile(profile.RoleMarketingCoordinator),
		activeProfile(profile.RoleSuperAdmin),
	}
	for _, p := range profiles {
		d := Decide(p, "/starting-point", nil)
		if d == nil {
			continue
		}
		assert.Nil(t, Decide(p, d.Path, nil), "status %s role %s", p.Status, p.Role)
	}
}

func TestDashboardForIsTotal(t *testing.T) {
	for _, role := range append(profile.Roles(), profile.RoleNewUser) {
		assert.NotEmpty(t, DashboardFor(role))
	}
	assert.Equal(t, RoleSetupPath, DashboardFor(profile.RoleNewUser))
}

func TestEscapePaths(t *testing.T) {
	assert.True(t, IsEscapePath(SignInPath))
	assert.False(t, IsEscapePath(PendingApprovalPath))
	assert.False(t, IsEscapePath("/photographer"))
}

func TestIsProtected(t *testing.T) {
	assert.False(t, IsProtected(SignInPath))
	assert.False(t, IsProtected("/healthz"))
	assert.False(t, IsProtected("/metrics"))
	assert.True(t, IsProtected("/photographer"))
	assert.True(t, IsProtected(RoleSetupPath))
}

func TestTopSegment(t *testing.T) {
	assert.Equal(t, "/photographer", TopSegment("/photographer"))
	assert.Equal(t, "/photographer", TopSegment("/photographer/albums/3"))
	assert.Equal(t, "/", TopSegment("/"))
}
