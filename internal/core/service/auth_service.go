package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

// AuthConfig holds the token and recovery settings of the auth provider.
type AuthConfig struct {
	JWTSecret   string
	SessionTTL  time.Duration
	RecoveryTTL time.Duration
	// AppURL is the public base URL used to build recovery links.
	AppURL string
}

// AuthService implements ports.AuthProvider on top of a credential store,
// the profile table and a Redis-backed session store.
type AuthService struct {
	creds    ports.CredentialRepository
	users    ports.UserRepository
	sessions ports.SessionStore
	mailer   ports.Mailer
	cfg      AuthConfig
	log      zerolog.Logger
}

func NewAuthService(
	creds ports.CredentialRepository,
	users ports.UserRepository,
	sessions ports.SessionStore,
	mailer ports.Mailer,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.RecoveryTTL <= 0 {
		cfg.RecoveryTTL = time.Hour
	}
	return &AuthService{
		creds:    creds,
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
	}
}

// SignIn checks the password and returns a signed session. A credential
// without a profile row signs in with the fallback identity.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = domain.FallbackUser(cred.ID, cred.Email)
	case err != nil:
		return nil, fmt.Errorf("sign in: load profile: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &domain.Session{Token: token, User: user}, nil
}

// CurrentUser returns (nil, nil) when the token is valid but has no profile.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// SignOut revokes the session until the token would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	until := time.Now().Add(s.cfg.SessionTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.sessions.Revoke(ctx, claims.SessionID, until); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// SendPasswordReset mails a one-time recovery link. Unknown addresses are
// accepted silently.
func (s *AuthService) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrEmailRequired
	}

	if _, err := s.creds.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("password reset requested for unknown address")
			return nil
		}
		return fmt.Errorf("password reset: %w", err)
	}

	raw, err := newRecoveryToken()
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	if err := s.sessions.SaveRecovery(ctx, hashToken(raw), email, s.cfg.RecoveryTTL); err != nil {
		return fmt.Errorf("password reset: %w", err)
	}

	link := strings.TrimRight(s.cfg.AppURL, "/") + "/reset-password#type=recovery&access_token=" + raw
	if _, err := s.mailer.Send(ctx, domain.Email{
		To:      email,
		Subject: "Redefinição de senha",
		HTML:    RenderRecoveryEmail(link),
	}); err != nil {
		return fmt.Errorf("password reset: send: %w", err)
	}
	return nil
}

// UpdatePassword consumes a recovery token and replaces the password.
func (s *AuthService) UpdatePassword(ctx context.Context, recoveryToken, newPassword string) error {
	if len(newPassword) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if recoveryToken == "" {
		return domain.ErrInvalidRecoveryToken
	}

	email, err := s.sessions.ConsumeRecovery(ctx, hashToken(recoveryToken))
	if err != nil {
		return err
	}
	return s.SetPassword(ctx, email, newPassword)
}

func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrEmailRequired
	}
	if len(password) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.creds.Upsert(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

type sessionClaims struct {
	SessionID string      `json:"sid"`
	UserID    string      `json:"uid"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.SessionID == "" || claims.Email == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newRecoveryToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
