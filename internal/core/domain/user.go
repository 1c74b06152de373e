package domain

import "strings"

// Role controls which features a user can reach. It is a closed set.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// DefaultDepartment is used when neither the profile nor the draft names one.
const DefaultDepartment = "General"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleUser:
		return true
	}
	return false
}

// IsStaff reports whether r may triage tickets (status, assignment).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// User models an authenticated actor in the system (the profile row).
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	// Password is only carried by create/edit forms on their way to the
	// credential store. It is never read back from storage.
	Password string `json:"-"`
}

// FallbackUser builds the identity used when a credential exists but no
// profile row has been provisioned for it yet.
func FallbackUser(id, email string) *User {
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	return &User{
		ID:         id,
		Name:       name,
		Email:      email,
		Role:       RoleUser,
		Department: DefaultDepartment,
	}
}

// Session is the result of a successful sign-in.
type Session struct {
	Token string
	User  *User
}
