package handler

import "testing"

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		name string
		req  any
		want string
	}{
		{"valid", loginRequest{Email: "a@delta.com", Password: "x"}, ""},
		{"required uses json names", loginRequest{}, "email is required; password is required"},
		{"email", recoverRequest{Email: "nope"}, "email must be a valid email"},
		{"min", userRequest{Name: "A", Email: "a@delta.com", Password: "123"}, "password must be at least 6 characters"},
		{"oneof", updateStatusRequest{Status: "done"}, "status must be one of: open in_progress waiting resolved closed"},
		{"camel case field", resetPasswordRequest{Password: "abcdef"}, "confirmPassword is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.req)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Errorf("expected %q, got %v", tc.want, err)
			}
		})
	}
}
