package user

import "testing"

func TestRoleCapabilities(t *testing.T) {
	admin := User{Role: RoleAdmin}
	staff := User{Role: RoleStaff}
	volunteer := User{Role: RoleVolunteer}

	if !admin.IsAdmin() || !admin.IsStaff() || !admin.IsVolunteer() {
		t.Error("admin must hold every capability")
	}
	if staff.IsAdmin() {
		t.Error("staff must not hold admin capability")
	}
	if !staff.IsStaff() || !staff.IsVolunteer() {
		t.Error("staff must hold staff and volunteer capabilities")
	}
	if volunteer.IsAdmin() || volunteer.IsStaff() {
		t.Error("volunteer must not manage inventory")
	}
	if !volunteer.IsVolunteer() {
		t.Error("volunteer must be able to check items out")
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleStaff, RoleVolunteer} {
		if !role.IsValid() {
			t.Errorf("expected %q to be valid", role)
		}
	}
	if Role("superuser").IsValid() {
		t.Error("unknown role must not be valid")
	}
}

func TestGetFullName(t *testing.T) {
	u := User{FirstName: "Grace", LastName: "Kim"}
	if got := u.GetFullName(); got != "Grace Kim" {
		t.Errorf("expected 'Grace Kim', got %q", got)
	}

	u = User{FirstName: "Grace"}
	if got := u.GetFullName(); got != "Grace" {
		t.Errorf("expected trimmed name 'Grace', got %q", got)
	}
}
