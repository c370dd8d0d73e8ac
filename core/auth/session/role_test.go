package session

import "testing"

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *Identity
		want     Role
	}{
		{"absent identity", nil, ""},
		{"staff is admin", &Identity{IsStaff: true}, RoleAdmin},
		{"superuser is admin", &Identity{IsSuperuser: true}, RoleAdmin},
		{"explicit role uppercased", &Identity{Role: "editor"}, RoleEditor},
		{"legacy spanish operator", &Identity{Role: "operador"}, RoleOperator},
		{"legacy spanish admin", &Identity{Role: "administrador"}, RoleAdmin},
		{"first of roles list", &Identity{Roles: []string{"editor", "x"}}, RoleEditor},
		{"no role fields defaults to customer", &Identity{Username: "ana"}, RoleCustomer},
		{"unknown token passes through", &Identity{Role: "auditor"}, Role("AUDITOR")},
		{"explicit role wins over list", &Identity{Role: "operador", Roles: []string{"editor"}}, RoleOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRole(tt.identity); got != tt.want {
				t.Errorf("ResolveRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoleRecomputedFromLatestIdentity(t *testing.T) {
	identity := &Identity{Role: "cliente"}
	if got := ResolveRole(identity); got != RoleCustomer {
		t.Fatalf("ResolveRole = %q", got)
	}
	identity.IsStaff = true
	if got := ResolveRole(identity); got != RoleAdmin {
		t.Errorf("role not recomputed: %q", got)
	}
}

func TestCapabilities(t *testing.T) {
	if !RoleEditor.CanEdit() || RoleEditor.CanDelete() {
		t.Error("EDITOR must edit but not delete")
	}
	if !RoleAdmin.CanDelete() || !RoleAdmin.CanChangeStatus() {
		t.Error("ADMIN must hold every capability")
	}

	customer := RoleCustomer.Capabilities()
	if !customer.View || customer.Create || customer.Edit || customer.Delete || customer.ChangeStatus {
		t.Errorf("CUSTOMER should only view: %+v", customer)
	}

	if !RoleOperator.CanCreate() || !RoleOperator.CanChangeStatus() || RoleOperator.CanEdit() {
		t.Error("OPERATOR capability set wrong")
	}
}

func TestEmptyRoleGrantsNothing(t *testing.T) {
	var r Role
	caps := r.Capabilities()
	if caps.Create || caps.Edit || caps.Delete || caps.View || caps.ChangeStatus {
		t.Errorf("empty role must grant nothing: %+v", caps)
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	r := ResolveRole(&Identity{Role: "auditor"})
	if r.CanView() || r.CanCreate() {
		t.Error("unrecognized role token must fail every capability check")
	}
}
