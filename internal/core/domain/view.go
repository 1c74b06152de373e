package domain

import "strings"

// View identifies the active screen of a session.
type View string

const (
	ViewLogin         View = "login"
	ViewDashboard     View = "dashboard"
	ViewTickets       View = "tickets"
	ViewUsers         View = "users"
	ViewProfile       View = "profile"
	ViewCalendar      View = "calendar"
	ViewResetPassword View = "reset_password"
)

func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewDashboard, ViewTickets, ViewUsers, ViewProfile, ViewCalendar, ViewResetPassword:
		return true
	}
	return false
}

// IsRecoveryFragment reports whether a URL fragment carries the password
// recovery marker set by the reset email link.
func IsRecoveryFragment(fragment string) bool {
	return strings.Contains(fragment, "type=recovery") || strings.Contains(fragment, "access_token=")
}

// RecoveryToken extracts access_token from a recovery fragment such as
// "#type=recovery&access_token=abc". Returns "" when absent.
func RecoveryToken(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	for _, part := range strings.Split(fragment, "&") {
		if v, ok := strings.CutPrefix(part, "access_token="); ok {
			return v
		}
	}
	return ""
}

// State is a point-in-time copy of one session's controller state.
type State struct {
	User     *User
	View     View
	Tickets  []Ticket
	Users    []User
	Selected *Ticket
}
