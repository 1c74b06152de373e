package ports

import (
	"context"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// TicketRepository is the ticket half of the Data Access Layer. Writes are
// narrow: each one touches only the columns its operation owns.
type TicketRepository interface {
	// List returns every ticket with requester, assignee and comments joined,
	// newest first.
	List(ctx context.Context) ([]domain.Ticket, error)
	// Create stores a ticket and returns its internal id.
	Create(ctx context.Context, t domain.NewTicket) (string, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
	// Assign sets the assignee; an empty assigneeID clears it.
	Assign(ctx context.Context, ticketID, assigneeID string) error
	AddComment(ctx context.Context, c domain.NewComment) error
}

// UserRepository persists profile rows.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	// Update writes name, role, department and avatar.
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Credential is the auth provider's own record, separate from the profile.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
}

// CredentialRepository stores password hashes keyed by email.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	// Upsert creates the credential or replaces its hash.
	Upsert(ctx context.Context, email, passwordHash string) (*Credential, error)
}
