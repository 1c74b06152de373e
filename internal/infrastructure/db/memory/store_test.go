package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// clock returns a Store whose time only moves when advance is called.
func clock(t *testing.T) (*Store, func(time.Duration)) {
	t.Helper()
	s := New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, func(d time.Duration) { now = now.Add(d) }
}

func TestSeed(t *testing.T) {
	s := New()
	if err := s.Seed("secret1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()

	users, _ := s.Users().List(ctx)
	if len(users) != 4 {
		t.Fatalf("expected 4 users, got %d", len(users))
	}
	tickets, _ := s.Tickets().List(ctx)
	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}
	want := []string{"TK-1001", "TK-1002", "TK-1003"}
	for i, tk := range tickets {
		if tk.Code != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], tk.Code)
		}
	}
	if tickets[1].AssigneeName != "Ana Suporte" || len(tickets[1].Comments) != 1 {
		t.Errorf("unexpected monitor ticket: %+v", tickets[1])
	}
	if c, err := s.Credentials().FindByEmail(ctx, "ana@delta.com"); err != nil || c.PasswordHash == "" {
		t.Errorf("expected a seeded credential, got %v %v", c, err)
	}
}

func TestTickets_CreateNumbersSequentially(t *testing.T) {
	s, advance := clock(t)
	ctx := context.Background()
	repo := s.Tickets()

	for _, title := range []string{"first", "second"} {
		if _, err := repo.Create(ctx, domain.NewTicket{Title: title, Status: domain.StatusOpen, Priority: domain.PriorityLow}); err != nil {
			t.Fatalf("create: %v", err)
		}
		advance(time.Minute)
	}

	tickets, _ := repo.List(ctx)
	if len(tickets) != 2 || tickets[0].Code != "TK-1002" || tickets[1].Code != "TK-1001" {
		t.Fatalf("expected newest first with sequential codes, got %+v", tickets)
	}
	if tickets[0].Title != "second" {
		t.Errorf("unexpected order: %s first", tickets[0].Title)
	}
}

func TestTickets_WritesTouchUpdatedAt(t *testing.T) {
	s, advance := clock(t)
	ctx := context.Background()
	repo := s.Tickets()

	id, _ := repo.Create(ctx, domain.NewTicket{Title: "x", Status: domain.StatusOpen})
	advance(time.Hour)
	if err := repo.UpdateStatus(ctx, id, domain.StatusWaiting); err != nil {
		t.Fatalf("update status: %v", err)
	}
	tickets, _ := repo.List(ctx)
	if tickets[0].Status != domain.StatusWaiting || !tickets[0].UpdatedAt.After(tickets[0].CreatedAt) {
		t.Errorf("status write not applied: %+v", tickets[0])
	}

	if err := repo.Assign(ctx, "missing", "u"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
	if err := repo.AddComment(ctx, domain.NewComment{TicketID: "missing", Content: "x"}); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTickets_DanglingReferences(t *testing.T) {
	s, _ := clock(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, domain.User{Name: "Temp", Email: "temp@delta.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	id, _ := s.Tickets().Create(ctx, domain.NewTicket{Title: "x", Status: domain.StatusOpen, RequesterID: u.ID, AssigneeID: u.ID})
	if err := s.Tickets().AddComment(ctx, domain.NewComment{TicketID: id, UserID: u.ID, Content: "hi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := s.Users().Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	tickets, _ := s.Tickets().List(ctx)
	tk := tickets[0]
	if tk.RequesterName != domain.UnknownRequester || tk.AssigneeName != "" || tk.AssigneeID != u.ID {
		t.Errorf("unexpected references: %+v", tk)
	}
	if tk.Comments[0].UserName != domain.SystemAuthor {
		t.Errorf("expected system author, got %q", tk.Comments[0].UserName)
	}
}

func TestUsers(t *testing.T) {
	s, _ := clock(t)
	ctx := context.Background()
	repo := s.Users()

	u, err := repo.Create(ctx, domain.User{Name: "Bea", Email: "bea@delta.com", Role: domain.RoleAgent, Password: "plain"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.Password != "" {
		t.Errorf("expected an id and no stored password, got %+v", u)
	}
	if _, err := repo.Create(ctx, domain.User{Name: "Other", Email: "bea@delta.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	updated, err := repo.Update(ctx, domain.User{ID: u.ID, Name: "Beatriz", Email: "ignored@delta.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Beatriz" || updated.Email != "bea@delta.com" || updated.Role != domain.RoleAdmin {
		t.Errorf("unexpected update result: %+v", updated)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@delta.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSessions_Revocation(t *testing.T) {
	s, advance := clock(t)
	ctx := context.Background()
	st := s.Sessions()

	if err := st.Revoke(ctx, "sid-1", s.now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, _ := st.IsRevoked(ctx, "sid-1"); !revoked {
		t.Error("expected sid-1 to be revoked")
	}
	if revoked, _ := st.IsRevoked(ctx, "sid-2"); revoked {
		t.Error("sid-2 was never revoked")
	}
	advance(2 * time.Hour)
	if revoked, _ := st.IsRevoked(ctx, "sid-1"); revoked {
		t.Error("revocation should lapse with the token")
	}
}

func TestSessions_RecoveryIsSingleUse(t *testing.T) {
	s, advance := clock(t)
	ctx := context.Background()
	st := s.Sessions()

	_ = st.SaveRecovery(ctx, "h1", "joao@delta.com", time.Hour)
	email, err := st.ConsumeRecovery(ctx, "h1")
	if err != nil || email != "joao@delta.com" {
		t.Fatalf("consume: %q %v", email, err)
	}
	if _, err := st.ConsumeRecovery(ctx, "h1"); !errors.Is(err, domain.ErrInvalidRecoveryToken) {
		t.Errorf("second use: expected ErrInvalidRecoveryToken, got %v", err)
	}

	_ = st.SaveRecovery(ctx, "h2", "joao@delta.com", time.Hour)
	advance(time.Hour)
	if _, err := st.ConsumeRecovery(ctx, "h2"); !errors.Is(err, domain.ErrInvalidRecoveryToken) {
		t.Errorf("expired: expected ErrInvalidRecoveryToken, got %v", err)
	}
}

func TestList_TiesAreOrderedDeterministically(t *testing.T) {
	s, _ := clock(t)
	ctx := context.Background()

	// Same instant and same name: only the tie-breakers decide the order.
	for i := 0; i < 5; i++ {
		if _, err := s.Tickets().Create(ctx, domain.NewTicket{Title: "x", Status: domain.StatusOpen}); err != nil {
			t.Fatalf("create ticket: %v", err)
		}
		if _, err := s.Users().Create(ctx, domain.User{Name: "Mesmo Nome", Email: string(rune('a'+i)) + "@delta.com"}); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	tickets, _ := s.Tickets().List(ctx)
	if tickets[0].Code != "TK-1005" || tickets[4].Code != "TK-1001" {
		t.Errorf("expected highest number first on equal timestamps, got %s..%s", tickets[0].Code, tickets[4].Code)
	}
	users, _ := s.Users().List(ctx)
	for i := 1; i < len(users); i++ {
		if users[i-1].ID > users[i].ID {
			t.Fatalf("users with equal names not ordered by id: %v", users)
		}
	}

	for i := 0; i < 20; i++ {
		again, _ := s.Tickets().List(ctx)
		againUsers, _ := s.Users().List(ctx)
		if !reflect.DeepEqual(again, tickets) || !reflect.DeepEqual(againUsers, users) {
			t.Fatalf("listing %d differs from the first", i)
		}
	}
}
