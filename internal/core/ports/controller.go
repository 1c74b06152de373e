package ports

import (
	"context"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// TicketDraft carries the fields a user fills in when opening a ticket.
type TicketDraft struct {
	Title       string
	Description string
	Priority    domain.Priority
	AssigneeID  string
}

// Controller is one session's application state and its mutation entry
// points.
type Controller interface {
	Snapshot() domain.State
	User() *domain.User

	RestoreSession(ctx context.Context, token, fragment string) error
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, recoveryToken, password, confirm string) error

	Navigate(view domain.View)
	Select(code string) (domain.Ticket, error)
	Deselect()
	Reload(ctx context.Context)

	CreateTicket(ctx context.Context, draft TicketDraft) error
	AddComment(ctx context.Context, code, text string, internal bool) error
	UpdateStatus(ctx context.Context, code string, status domain.TicketStatus) error
	Assign(ctx context.Context, code, userID string) error

	Users() ([]domain.User, error)
	AddUser(ctx context.Context, u domain.User) error
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Sessions maps session tokens to live controllers.
type Sessions interface {
	// Open returns the controller bound to token, restoring it on first use.
	Open(ctx context.Context, token string) (Controller, error)
	// New returns a fresh controller with no identity.
	New() Controller
	// Bind registers c under its current session token.
	Bind(c Controller, token string)
	Drop(token string)
}
