package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/middleware"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/service"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/memory"
)

const (
	testSecret   = "handler-secret"
	seedPassword = "secret1"
)

type stubMailer struct {
	body []byte
	err  error
	sent []domain.Email
}

func (m *stubMailer) Send(_ context.Context, e domain.Email) ([]byte, error) {
	m.sent = append(m.sent, e)
	return m.body, m.err
}

// newRegistry returns a session registry over a freshly seeded memory store.
func newRegistry(t *testing.T) (*service.Registry, *stubMailer) {
	t.Helper()
	store := memory.New()
	if err := store.Seed(seedPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}
	mailer := &stubMailer{body: []byte(`{"id":"1"}`)}
	auth := service.NewAuthService(store.Credentials(), store.Users(), store.Sessions(), mailer, service.AuthConfig{
		JWTSecret: testSecret,
		AppURL:    "http://app.test",
	}, zerolog.Nop())
	return service.NewRegistry(service.ControllerDeps{
		Auth:    auth,
		Tickets: store.Tickets(),
		Users:   store.Users(),
		Log:     zerolog.Nop(),
	}), mailer
}

// login signs in through the registry and returns the session token.
func login(t *testing.T, reg *service.Registry, email string) string {
	t.Helper()
	c := reg.New()
	sess, err := c.Login(context.Background(), email, seedPassword)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	reg.Bind(c, sess.Token)
	return sess.Token
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context. A non-empty token is placed in the
// context the way the Auth middleware does.
func newContext(e *echo.Echo, method, target, body, token string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != "" {
		c.Set(middleware.CtxToken, token)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
