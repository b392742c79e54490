// Package auth evaluates whether a caller may perform an operation on a
// record, given role and ownership.
package auth

import (
	"fmt"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// Action is a coarse-grained operation class checked by the gate.
type Action string

const (
	ActionWriteOwnProfile Action = "write_own_profile"
	ActionWriteAnyProfile Action = "write_any_profile"
	ActionAssignRole      Action = "assign_role"
	ActionDeleteUser      Action = "delete_user"
	ActionWritePromotion  Action = "write_promotion"
	ActionWriteProduct    Action = "write_product"
	ActionViewAllUsers    Action = "view_all_users"
	ActionModerateOrder   Action = "moderate_order"
)

// Decision is the typed result of a gate check. Denials carry a reason
// and are never raised as panics or sentinel control flow.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// policy describes who may perform an action: a set of roles that always
// pass, and whether an identity match with the target passes.
type policy struct {
	roles     map[models.Role]bool
	ownRecord bool
}

var policies = map[Action]policy{
	ActionWriteOwnProfile: {ownRecord: true},
	ActionWriteAnyProfile: {roles: map[models.Role]bool{models.RoleAdmin: true}},
	ActionAssignRole:      {roles: map[models.Role]bool{models.RoleAdmin: true}},
	ActionDeleteUser:      {roles: map[models.Role]bool{models.RoleAdmin: true}},
	ActionWritePromotion:  {roles: map[models.Role]bool{models.RoleAdmin: true}},
	ActionWriteProduct: {roles: map[models.Role]bool{
		models.RoleManager: true,
		models.RoleAdmin:   true,
	}},
	ActionViewAllUsers: {roles: map[models.Role]bool{
		models.RoleSupervisor: true,
		models.RoleAdmin:      true,
	}},
	ActionModerateOrder: {roles: map[models.Role]bool{
		models.RoleManager:    true,
		models.RoleSupervisor: true,
		models.RoleAdmin:      true,
	}},
}

// Gate evaluates authorization decisions from the policy table.
type Gate struct{}

// NewGate creates the authorization gate.
func NewGate() *Gate {
	return &Gate{}
}

// Check evaluates whether caller may perform action on the record owned
// by targetUserID (empty when the action has no record owner). An admin
// passes every check except deleting their own account.
func (g *Gate) Check(caller *common.Caller, action Action, targetUserID string) Decision {
	if caller == nil || caller.UserID == "" {
		return deny("not authenticated")
	}

	// Self-deletion is disallowed regardless of role.
	if action == ActionDeleteUser && caller.UserID == targetUserID {
		return deny("self-deletion is not permitted")
	}

	if caller.Role == models.RoleAdmin {
		return allow()
	}

	p, ok := policies[action]
	if !ok {
		return deny(fmt.Sprintf("unknown action '%s'", action))
	}
	if p.roles[caller.Role] {
		return allow()
	}
	if p.ownRecord && caller.UserID == targetUserID {
		return allow()
	}
	return deny(fmt.Sprintf("role '%s' may not perform %s", caller.Role, action))
}

// Fault converts a denial into the shared fault taxonomy.
func (d Decision) Fault() error {
	if d.Allowed {
		return nil
	}
	return models.NewDenied(d.Reason)
}
