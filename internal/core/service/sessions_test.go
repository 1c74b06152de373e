package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

func TestRegistry_Open(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.deps)
	ctx := context.Background()

	if _, err := r.Open(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("empty token: %v", err)
	}
	if _, err := r.Open(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("invalid token: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("failed opens must not register sessions, got %d", r.Len())
	}

	token := f.login(t, "ana@delta.com").Token()
	c1, err := r.Open(ctx, token)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if u := c1.User(); u == nil || u.Email != "ana@delta.com" {
		t.Fatalf("restored user = %+v", u)
	}
	c2, err := r.Open(ctx, token)
	if err != nil || c2 != c1 {
		t.Errorf("second open should return the same controller")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}
}

func TestRegistry_BindAndDrop(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.deps)
	ctx := context.Background()

	c := r.New()
	sess, err := c.Login(ctx, "admin@delta.com", seedPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	r.Bind(c, sess.Token)
	r.Bind(c, "")

	got, err := r.Open(ctx, sess.Token)
	if err != nil || got != c {
		t.Fatalf("bound controller not returned: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("empty token should not bind, got %d sessions", r.Len())
	}

	r.Drop(sess.Token)
	if r.Len() != 0 {
		t.Errorf("drop left %d sessions", r.Len())
	}
}

func TestRegistry_Sweep(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.deps)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Bind(NewController(f.deps), "old")
	now = now.Add(20 * time.Minute)
	r.Bind(NewController(f.deps), "fresh")
	now = now.Add(15 * time.Minute)

	if n := r.Sweep(30 * time.Minute); n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}
	if r.Len() != 1 {
		t.Errorf("expected the fresh session to survive, got %d", r.Len())
	}
}

func TestRegistry_RunSweeperStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.deps)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
