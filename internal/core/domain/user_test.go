package domain

import (
	"errors"
	"testing"
)

func TestRole(t *testing.T) {
	if !RoleAdmin.IsStaff() || !RoleAgent.IsStaff() || RoleUser.IsStaff() {
		t.Error("staff must be exactly admin and agent")
	}
	if Role("root").Valid() {
		t.Error("unknown role reported valid")
	}
}

func TestFallbackUser(t *testing.T) {
	u := FallbackUser("id-1", "pedro.silva@delta.com")
	if u.Name != "pedro.silva" || u.Role != RoleUser || u.Department != DefaultDepartment {
		t.Errorf("unexpected fallback: %+v", u)
	}
	if u.ID != "id-1" || u.Email != "pedro.silva@delta.com" {
		t.Errorf("identity not preserved: %+v", u)
	}
}

func TestValidateNewPassword(t *testing.T) {
	cases := []struct {
		pw, confirm string
		want        error
	}{
		{"secret1", "secret1", nil},
		{"secret1", "secret2", ErrPasswordMismatch},
		{"abc", "abc", ErrPasswordTooShort},
		{"abcdef", "abcdef", nil},
	}
	for _, tc := range cases {
		err := ValidateNewPassword(tc.pw, tc.confirm)
		if !errors.Is(err, tc.want) {
			t.Errorf("ValidateNewPassword(%q, %q) = %v, want %v", tc.pw, tc.confirm, err, tc.want)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Errorf("%v should wrap ErrValidation", err)
		}
	}
}
