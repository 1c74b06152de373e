package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

func TestAuthService_SignIn_Success(t *testing.T) {
	f := newFixture(t)

	sess, err := f.auth.SignIn(context.Background(), "  ADMIN@delta.com ", seedPassword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.User.Email != "admin@delta.com" || sess.User.Role != domain.RoleAdmin {
		t.Errorf("unexpected user: %+v", sess.User)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(sess.Token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sid"] == "" || claims["email"] != "admin@delta.com" || claims["role"] != "admin" {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestAuthService_SignIn_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string][2]string{
		"wrong password": {"admin@delta.com", "nope"},
		"unknown email":  {"ghost@delta.com", seedPassword},
		"empty password": {"admin@delta.com", ""},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.auth.SignIn(ctx, in[0], in[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_SignIn_CredentialWithoutProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.auth.SetPassword(ctx, "novo.func@delta.com", "welcome1"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	sess, err := f.auth.SignIn(ctx, "novo.func@delta.com", "welcome1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.User.Name != "novo.func" || sess.User.Role != domain.RoleUser || sess.User.Department != domain.DefaultDepartment {
		t.Errorf("expected fallback identity, got %+v", sess.User)
	}

	u, err := f.auth.CurrentUser(ctx, sess.Token)
	if err != nil || u != nil {
		t.Errorf("CurrentUser without profile = %+v, %v; want nil, nil", u, err)
	}
}

func TestAuthService_CurrentUserAndSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.auth.SignIn(ctx, "ana@delta.com", seedPassword)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	u, err := f.auth.CurrentUser(ctx, sess.Token)
	if err != nil || u == nil || u.Email != "ana@delta.com" {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}

	if err := f.auth.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := f.auth.CurrentUser(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("revoked token should be unauthenticated, got %v", err)
	}
}

func TestAuthService_CurrentUser_RejectsForeignTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	claims := jwt.MapClaims{"sid": "s1", "email": "admin@delta.com", "exp": time.Now().Add(time.Hour).Unix()}
	other, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	noSID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "admin@delta.com", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	for name, tok := range map[string]string{"wrong secret": other, "wrong alg": hs512, "no sid": noSID, "garbage": "abc"} {
		t.Run(name, func(t *testing.T) {
			if _, err := f.auth.CurrentUser(ctx, tok); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func recoveryTokenFromMail(t *testing.T, e domain.Email) string {
	t.Helper()
	i := strings.Index(e.HTML, "access_token=")
	if i < 0 {
		t.Fatalf("no recovery link in %q", e.HTML)
	}
	rest := e.HTML[i+len("access_token="):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		t.Fatalf("unterminated link in %q", e.HTML)
	}
	return rest[:end]
}

func TestAuthService_PasswordRecovery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.auth.SendPasswordReset(ctx, "Joao@Delta.com"); err != nil {
		t.Fatalf("send reset: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if mail.To != "joao@delta.com" || mail.Subject != "Redefinição de senha" {
		t.Errorf("unexpected email: %+v", mail)
	}
	if !strings.Contains(mail.HTML, "http://app.test/reset-password#type=recovery&amp;access_token=") {
		t.Errorf("link not built from AppURL: %s", mail.HTML)
	}
	token := recoveryTokenFromMail(t, mail)

	if err := f.auth.UpdatePassword(ctx, token, "new-pass"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := f.auth.SignIn(ctx, "joao@delta.com", "new-pass"); err != nil {
		t.Errorf("sign in with new password: %v", err)
	}
	if _, err := f.auth.SignIn(ctx, "joao@delta.com", seedPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}

	if err := f.auth.UpdatePassword(ctx, token, "again-pass"); !errors.Is(err, domain.ErrInvalidRecoveryToken) {
		t.Errorf("recovery token reused: %v", err)
	}
}

func TestAuthService_SendPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)
	if err := f.auth.SendPasswordReset(context.Background(), "ghost@delta.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("no email expected, got %d", len(f.mailer.sent))
	}
}

func TestAuthService_SendPasswordReset_MailerFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("provider down")
	if err := f.auth.SendPasswordReset(context.Background(), "joao@delta.com"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAuthService_UpdatePassword_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.auth.UpdatePassword(ctx, "tok", "abc"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := f.auth.UpdatePassword(ctx, "", "abcdef"); !errors.Is(err, domain.ErrInvalidRecoveryToken) {
		t.Errorf("expected ErrInvalidRecoveryToken, got %v", err)
	}
	if err := f.auth.UpdatePassword(ctx, "never-issued", "abcdef"); !errors.Is(err, domain.ErrInvalidRecoveryToken) {
		t.Errorf("expected ErrInvalidRecoveryToken, got %v", err)
	}
}
