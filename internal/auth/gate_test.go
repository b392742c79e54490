package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

func caller(id string, role models.Role) *common.Caller {
	return &common.Caller{UserID: id, Role: role}
}

func TestAdminPassesEveryCheck(t *testing.T) {
	g := NewGate()
	admin := caller("boss", models.RoleAdmin)

	for _, action := range []Action{
		ActionWriteOwnProfile, ActionWriteAnyProfile, ActionAssignRole,
		ActionWritePromotion, ActionWriteProduct, ActionViewAllUsers,
		ActionModerateOrder,
	} {
		d := g.Check(admin, action, "someone-else")
		assert.True(t, d.Allowed, "admin should pass %s", action)
	}

	d := g.Check(admin, ActionDeleteUser, "someone-else")
	assert.True(t, d.Allowed)
}

func TestSelfDeletionDeniedForEveryRole(t *testing.T) {
	g := NewGate()

	for _, role := range []models.Role{
		models.RoleCustomer, models.RoleManager, models.RoleSupervisor, models.RoleAdmin,
	} {
		d := g.Check(caller("u1", role), ActionDeleteUser, "u1")
		assert.False(t, d.Allowed, "role %s must not delete itself", role)
		assert.NotEmpty(t, d.Reason)
	}
}

func TestOwnProfileWrite(t *testing.T) {
	g := NewGate()

	d := g.Check(caller("u1", models.RoleCustomer), ActionWriteOwnProfile, "u1")
	assert.True(t, d.Allowed)

	d = g.Check(caller("u1", models.RoleCustomer), ActionWriteOwnProfile, "u2")
	assert.False(t, d.Allowed)
}

func TestRoleBoundActions(t *testing.T) {
	g := NewGate()

	// Managers write products but not promotions.
	assert.True(t, g.Check(caller("m1", models.RoleManager), ActionWriteProduct, "").Allowed)
	assert.False(t, g.Check(caller("m1", models.RoleManager), ActionWritePromotion, "").Allowed)

	// Supervisors moderate orders and view users, but do not write products.
	assert.True(t, g.Check(caller("s1", models.RoleSupervisor), ActionModerateOrder, "").Allowed)
	assert.True(t, g.Check(caller("s1", models.RoleSupervisor), ActionViewAllUsers, "").Allowed)
	assert.False(t, g.Check(caller("s1", models.RoleSupervisor), ActionWriteProduct, "").Allowed)

	// Customers hold no staff privileges.
	assert.False(t, g.Check(caller("c1", models.RoleCustomer), ActionModerateOrder, "").Allowed)
	assert.False(t, g.Check(caller("c1", models.RoleCustomer), ActionAssignRole, "c2").Allowed)
}

func TestUnauthenticatedDenied(t *testing.T) {
	g := NewGate()

	assert.False(t, g.Check(nil, ActionWriteOwnProfile, "u1").Allowed)
	assert.False(t, g.Check(&common.Caller{}, ActionModerateOrder, "").Allowed)
}

func TestDecisionFault(t *testing.T) {
	g := NewGate()

	err := g.Check(caller("c1", models.RoleCustomer), ActionAssignRole, "c2").Fault()
	assert.True(t, models.IsFault(err, models.FaultDenied))

	assert.NoError(t, g.Check(caller("boss", models.RoleAdmin), ActionAssignRole, "c2").Fault())
}
