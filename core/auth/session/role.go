package session

import (
	"slices"
	"strings"
)

// Role is the coarse authorization tier derived from an Identity. It is
// never persisted; resolve it again whenever the identity may have changed.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEditor   Role = "EDITOR"
	RoleOperator Role = "OPERATOR"
	RoleCustomer Role = "CUSTOMER"
)

// roleAliases maps the Spanish role tokens the legacy backend emits onto
// the canonical set.
var roleAliases = map[string]Role{
	"ADMINISTRADOR": RoleAdmin,
	"OPERADOR":      RoleOperator,
	"CLIENTE":       RoleCustomer,
}

// ResolveRole derives the role from an identity:
//
//  1. nil identity resolves to the empty role, which grants nothing.
//  2. staff and superuser accounts are ADMIN.
//  3. an explicit role field wins, uppercased.
//  4. otherwise the first entry of the roles list, uppercased.
//  5. otherwise CUSTOMER.
//
// Unknown tokens pass through unvalidated: they fail every membership
// check, so an unexpected backend role grants nothing rather than
// everything.
func ResolveRole(identity *Identity) Role {
	if identity == nil {
		return ""
	}
	if identity.IsSuperuser || identity.IsStaff {
		return RoleAdmin
	}

	token := identity.Role
	if token == "" && len(identity.Roles) > 0 {
		token = identity.Roles[0]
	}
	if token == "" {
		return RoleCustomer
	}

	upper := strings.ToUpper(token)
	if canonical, ok := roleAliases[upper]; ok {
		return canonical
	}
	return Role(upper)
}

// Has reports whether the role is one of required. The empty role matches
// nothing.
func (r Role) Has(required ...Role) bool {
	if r == "" {
		return false
	}
	return slices.Contains(required, r)
}

// CanCreate reports whether the role may create records.
func (r Role) CanCreate() bool {
	return r.Has(RoleAdmin, RoleEditor, RoleOperator)
}

// CanEdit reports whether the role may modify records.
func (r Role) CanEdit() bool {
	return r.Has(RoleAdmin, RoleEditor)
}

// CanDelete reports whether the role may delete records.
func (r Role) CanDelete() bool {
	return r.Has(RoleAdmin)
}

// CanView reports whether the role may read records.
func (r Role) CanView() bool {
	return r.Has(RoleAdmin, RoleEditor, RoleOperator, RoleCustomer)
}

// CanChangeStatus reports whether the role may change operational status
// (flight state, booking state).
func (r Role) CanChangeStatus() bool {
	return r.Has(RoleAdmin, RoleOperator)
}

// Capabilities is the full capability set of a role, in one value for
// consumers that render it.
type Capabilities struct {
	Create       bool `json:"create"`
	Edit         bool `json:"edit"`
	Delete       bool `json:"delete"`
	View         bool `json:"view"`
	ChangeStatus bool `json:"change_status"`
}

// Capabilities materializes the role's capability set.
func (r Role) Capabilities() Capabilities {
	return Capabilities{
		Create:       r.CanCreate(),
		Edit:         r.CanEdit(),
		Delete:       r.CanDelete(),
		View:         r.CanView(),
		ChangeStatus: r.CanChangeStatus(),
	}
}
