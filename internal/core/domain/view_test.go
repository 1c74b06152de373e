package domain

import "testing"

func TestRecoveryFragment(t *testing.T) {
	cases := []struct {
		fragment string
		recovery bool
		token    string
	}{
		{"#type=recovery&access_token=abc123", true, "abc123"},
		{"access_token=xyz", true, "xyz"},
		{"#type=recovery", true, ""},
		{"#/tickets", false, ""},
		{"", false, ""},
	}
	for _, tc := range cases {
		if got := IsRecoveryFragment(tc.fragment); got != tc.recovery {
			t.Errorf("IsRecoveryFragment(%q) = %v", tc.fragment, got)
		}
		if got := RecoveryToken(tc.fragment); got != tc.token {
			t.Errorf("RecoveryToken(%q) = %q, want %q", tc.fragment, got, tc.token)
		}
	}
}

func TestView_Valid(t *testing.T) {
	for _, v := range []View{ViewLogin, ViewDashboard, ViewTickets, ViewUsers, ViewProfile, ViewCalendar, ViewResetPassword} {
		if !v.Valid() {
			t.Errorf("%s should be valid", v)
		}
	}
	if View("settings").Valid() {
		t.Error("unknown view reported valid")
	}
}
