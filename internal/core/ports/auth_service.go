package ports

import (
	"context"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// AuthProvider wraps email/password sign-in, session lookup, sign-out and
// password recovery.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	// CurrentUser resolves a session token to its profile. It returns
	// (nil, nil) when the token is valid but no profile row exists.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error
	// SetPassword writes a credential directly; used by admin user forms.
	SetPassword(ctx context.Context, email, password string) error
}
