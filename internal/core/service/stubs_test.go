package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

const (
	testSecret   = "test-secret"
	seedPassword = "secret1"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e domain.Email) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, e)
	return []byte(`{"id":"msg_1"}`), nil
}

type recordingNotifier struct {
	queued []domain.Notification
}

func (n *recordingNotifier) Enqueue(x domain.Notification) { n.queued = append(n.queued, x) }

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, event string, _ map[string]any) {
	p.events = append(p.events, event)
}

// flakyTickets fails selected calls and delegates the rest.
type flakyTickets struct {
	ports.TicketRepository
	listErr  error
	writeErr error
}

func (f *flakyTickets) List(ctx context.Context) ([]domain.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.TicketRepository.List(ctx)
}

func (f *flakyTickets) UpdateStatus(ctx context.Context, id string, s domain.TicketStatus) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.TicketRepository.UpdateStatus(ctx, id, s)
}

func (f *flakyTickets) AddComment(ctx context.Context, c domain.NewComment) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.TicketRepository.AddComment(ctx, c)
}

// ---------------------------------------------------------------------------
// Fixture: a seeded memory store behind real auth and controller services.
// ---------------------------------------------------------------------------

type fixture struct {
	store     *memory.Store
	tickets   *flakyTickets
	mailer    *recordingMailer
	notifier  *recordingNotifier
	publisher *recordingPublisher
	auth      *AuthService
	deps      ControllerDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	if err := store.Seed(seedPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := &fixture{
		store:     store,
		tickets:   &flakyTickets{TicketRepository: store.Tickets()},
		mailer:    &recordingMailer{},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.auth = NewAuthService(store.Credentials(), store.Users(), store.Sessions(), f.mailer, AuthConfig{
		JWTSecret: testSecret,
		AppURL:    "http://app.test/",
	}, zerolog.Nop())
	f.deps = ControllerDeps{
		Auth:     f.auth,
		Tickets:  f.tickets,
		Users:    store.Users(),
		Notifier: f.notifier,
		Events:   f.publisher,
		AppURL:   "http://app.test",
		Log:      zerolog.Nop(),
	}
	return f
}

// login returns a controller signed in as email.
func (f *fixture) login(t *testing.T, email string) *Controller {
	t.Helper()
	c := NewController(f.deps)
	if _, err := c.Login(context.Background(), email, seedPassword); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return c
}

func (f *fixture) userID(t *testing.T, email string) string {
	t.Helper()
	u, err := f.store.Users().FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("find %s: %v", email, err)
	}
	return u.ID
}

func ticketByCode(t *testing.T, st domain.State, code string) domain.Ticket {
	t.Helper()
	tk, ok := domain.FindByCode(st.Tickets, code)
	if !ok {
		t.Fatalf("ticket %s not in state", code)
	}
	return tk
}
