package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrAccessDenied         = errors.New("access denied")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidRecoveryToken = errors.New("invalid or expired recovery token")
)

// ErrValidation is wrapped by every input validation failure so callers can
// tell them apart from remote failures.
var ErrValidation = errors.New("validation failed")

var (
	ErrTitleRequired    = validation("title is required")
	ErrEmailRequired    = validation("email is required")
	ErrNameRequired     = validation("name is required")
	ErrCommentRequired  = validation("comment text is required")
	ErrPasswordMismatch = validation("passwords do not match")
	ErrPasswordTooShort = validation("password must be at least 6 characters")
	ErrInvalidStatus    = validation("invalid status")
	ErrInvalidPriority  = validation("invalid priority")
	ErrInvalidRole      = validation("invalid role")
)

// MinPasswordLength is enforced before any remote call.
const MinPasswordLength = 6

type validationError struct{ msg string }

func validation(msg string) error { return &validationError{msg: msg} }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

// ValidateNewPassword checks a password/confirmation pair.
func ValidateNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
